package dto

import (
	"time"

	"github.com/tkamdem/stablex/internal/domain"
)

type NotificationDTO struct {
	ID        int    `json:"id"`
	UserID    *int   `json:"utilisateur_id"`
	AdminID   *int   `json:"admin_id"`
	Type      string `json:"type_notification"`
	Message   string `json:"message"`
	IsRead    bool   `json:"est_lue"`
	CreatedAt string `json:"date_creation"`
}

func NewNotificationDTO(n *domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		AdminID:   n.AdminID,
		Type:      n.Type,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

type NotificationListDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int               `json:"non_lues"`
}

func NewNotificationListDTO(rows []domain.Notification, unread int) NotificationListDTO {
	out := NotificationListDTO{
		Notifications: make([]NotificationDTO, 0, len(rows)),
		UnreadCount:   unread,
	}
	for i := range rows {
		out.Notifications = append(out.Notifications, NewNotificationDTO(&rows[i]))
	}
	return out
}

type DeviceTokenRequestDTO struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform"`
}
