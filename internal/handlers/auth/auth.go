package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/dto"
	"github.com/tkamdem/stablex/internal/service/authservice"
	"github.com/tkamdem/stablex/pkg/utils"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth

type Service interface {
	Register(ctx context.Context, name, phone, email, country, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a user account and return an access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		201		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Email or phone already used"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.Email == "" || req.Country == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Champs manquants")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Phone, req.Email, req.Country, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrEmailTaken), errors.Is(err, authservice.ErrPhoneTaken):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.AuthResponseDTO{
		AccessToken: token,
		User:        dto.NewUserDTO(user),
	})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Check credentials and return an access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.AuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AuthResponseDTO{
		AccessToken: token,
		User:        dto.NewUserDTO(user),
	})
}
