package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/dto"
	"github.com/tkamdem/stablex/internal/service/userservice"
	"github.com/tkamdem/stablex/internal/service/walletservice"
	"github.com/tkamdem/stablex/pkg/auth"
	"github.com/tkamdem/stablex/pkg/utils"
)

//go:generate mockgen -source=admin.go -destination=admin_mock.go -package=admin

type UserService interface {
	Profile(ctx context.Context, userID int) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ToggleAdmin(ctx context.Context, uid string) (bool, error)
	Delete(ctx context.Context, uid string, requesterID int) error
}

type WalletService interface {
	List(ctx context.Context) ([]domain.AdminWallet, error)
	Add(ctx context.Context, network, address, country, walletType string) (*domain.AdminWallet, error)
	Remove(ctx context.Context, id int) error
}

type AdminHandler struct {
	userService   UserService
	walletService WalletService
}

func New(userService UserService, walletService WalletService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		walletService: walletService,
	}
}

// Profile godoc
//
//	@Summary		Get own profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	dto.UserDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/user/profile [get]
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Utilisateur introuvable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// ListUsers godoc
//
//	@Summary		List registered users
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		dto.UserDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserListDTO(users))
}

// ToggleAdmin godoc
//
//	@Summary		Flip the admin flag of a user
//	@Tags			Admin
//	@Produce		json
//	@Param			uid	path		string	true	"User public identifier"
//	@Success		200	{object}	dto.ToggleAdminResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{uid}/toggle-admin [post]
func (h *AdminHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	isAdmin, err := h.userService.ToggleAdmin(r.Context(), uid)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Utilisateur introuvable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	msg := "Droits administrateur retirés"
	if isAdmin {
		msg = "Droits administrateur accordés"
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ToggleAdminResponseDTO{Message: msg, IsAdmin: isAdmin})
}

// DeleteUser godoc
//
//	@Summary		Delete a user account
//	@Description	Accounts with recorded transactions and the caller's own account are protected
//	@Tags			Admin
//	@Produce		json
//	@Param			uid	path		string	true	"User public identifier"
//	@Success		200	{object}	utils.Response
//	@Failure		403	{object}	utils.Response	"Own account or user has transactions"
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/admin/users/{uid} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requesterID := r.Context().Value(auth.UserIDKey).(int)
	uid := chi.URLParam(r, "uid")

	if err := h.userService.Delete(r.Context(), uid, requesterID); err != nil {
		switch {
		case errors.Is(err, userservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Utilisateur introuvable")
		case errors.Is(err, userservice.ErrSelfDeletion):
			utils.RespondWithError(w, http.StatusForbidden, "Impossible de supprimer votre propre compte")
		case errors.Is(err, userservice.ErrUserHasTransactions):
			utils.RespondWithError(w, http.StatusForbidden, "L'utilisateur possède des transactions")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Utilisateur supprimé"})
}

// ListWallets godoc
//
//	@Summary		List collection wallets
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		dto.WalletDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/admin/wallets [get]
func (h *AdminHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.walletService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewWalletListDTO(wallets))
}

// AddWallet godoc
//
//	@Summary		Register a collection wallet
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.AddWalletRequestDTO	true	"Wallet"
//	@Success		201		{object}	dto.WalletDTO
//	@Failure		400		{object}	utils.Response	"Missing fields or unknown type"
//	@Security		BearerAuth
//	@Router			/api/admin/wallets [post]
func (h *AdminHandler) AddWallet(w http.ResponseWriter, r *http.Request) {
	var req dto.AddWalletRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wallet, err := h.walletService.Add(r.Context(), req.Network, req.Address, req.Country, req.WalletType)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrMissingFields):
			utils.RespondWithError(w, http.StatusBadRequest, "Réseau et adresse requis")
		case errors.Is(err, walletservice.ErrInvalidWalletType):
			utils.RespondWithError(w, http.StatusBadRequest, "Type de portefeuille inconnu")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewWalletDTO(wallet))
}

// DeleteWallet godoc
//
//	@Summary		Remove a collection wallet
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		int	true	"Wallet identifier"
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/admin/wallets/{id} [delete]
func (h *AdminHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	if err := h.walletService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, walletservice.ErrWalletNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Portefeuille introuvable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Portefeuille supprimé"})
}
