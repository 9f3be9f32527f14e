package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/dto"
	"github.com/tkamdem/stablex/internal/service/notifyservice"
	"github.com/tkamdem/stablex/pkg/auth"
	"github.com/tkamdem/stablex/pkg/utils"
)

//go:generate mockgen -source=notifications.go -destination=notifications_mock.go -package=notifications

type Service interface {
	List(ctx context.Context, ownerID int, isAdmin bool, limit int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, id, ownerID int, isAdmin bool) error
	MarkAllRead(ctx context.Context, ownerID int, isAdmin bool) error
	Delete(ctx context.Context, id, ownerID int, isAdmin bool) error
	RegisterToken(ctx context.Context, userID int, token, platform string) error
	UnregisterToken(ctx context.Context, userID int, token string) error
}

type NotificationsHandler struct {
	service Service
}

func New(service Service) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

func requester(r *http.Request) (int, bool) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	isAdmin, _ := r.Context().Value(auth.IsAdminKey).(bool)
	return userID, isAdmin
}

// List godoc
//
//	@Summary		List notifications
//	@Description	Newest first, with the unread count
//	@Tags			Notifications
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum rows to return"
//	@Success		200		{object}	dto.NotificationListDTO
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/notifications [get]
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, isAdmin := requester(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Limite invalide")
			return
		}
		limit = parsed
	}

	rows, unread, err := h.service.List(r.Context(), ownerID, isAdmin, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewNotificationListDTO(rows, unread))
}

// MarkRead godoc
//
//	@Summary		Mark one notification as read
//	@Tags			Notifications
//	@Produce		json
//	@Param			id	path		int	true	"Notification identifier"
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/notifications/{id}/read [post]
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ownerID, isAdmin := requester(r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, ownerID, isAdmin); err != nil {
		if errors.Is(err, notifyservice.ErrNotificationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Notification introuvable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notification marquée comme lue"})
}

// MarkAllRead godoc
//
//	@Summary		Mark every notification as read
//	@Tags			Notifications
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/notifications/read-all [post]
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ownerID, isAdmin := requester(r)

	if err := h.service.MarkAllRead(r.Context(), ownerID, isAdmin); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notifications marquées comme lues"})
}

// Delete godoc
//
//	@Summary		Delete one notification
//	@Tags			Notifications
//	@Produce		json
//	@Param			id	path		int	true	"Notification identifier"
//	@Success		200	{object}	utils.Response
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Security		BearerAuth
//	@Router			/api/notifications/{id} [delete]
func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, isAdmin := requester(r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	if err := h.service.Delete(r.Context(), id, ownerID, isAdmin); err != nil {
		if errors.Is(err, notifyservice.ErrNotificationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Notification introuvable")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Notification supprimée"})
}

// RegisterToken godoc
//
//	@Summary		Register a push delivery token
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DeviceTokenRequestDTO	true	"Device token"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Empty token"
//	@Security		BearerAuth
//	@Router			/api/notifications/device-token [post]
func (h *NotificationsHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := requester(r)

	var req dto.DeviceTokenRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.RegisterToken(r.Context(), userID, req.Token, req.Platform); err != nil {
		if errors.Is(err, notifyservice.ErrEmptyToken) {
			utils.RespondWithError(w, http.StatusBadRequest, "Token manquant")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Token enregistré"})
}

// UnregisterToken godoc
//
//	@Summary		Unregister a push delivery token
//	@Description	Without a token in the body, every token of the caller is deactivated
//	@Tags			Notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DeviceTokenRequestDTO	false	"Device token"
//	@Success		200		{object}	utils.Response
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/notifications/device-token [delete]
func (h *NotificationsHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := requester(r)

	var req dto.DeviceTokenRequestDTO
	// body is optional
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.service.UnregisterToken(r.Context(), userID, req.Token); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Token désactivé"})
}
