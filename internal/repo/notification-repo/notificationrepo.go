package notificationrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const notifColumns = "id, user_id, admin_id, type, message, is_read, created_at"

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.AdminID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, admin_id, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, notification.UserID, notification.AdminID,
		notification.Type, notification.Message).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		zap.L().Error("can't save notification", zap.Error(err))
		return err
	}
	return nil
}

// Administrators see both mailbox kinds addressed to them; standard users
// only the user-addressed one. Two explicit predicates, selected by role.
const (
	userPredicate  = "user_id = $1"
	adminPredicate = "(user_id = $1 OR admin_id = $1)"
)

func predicate(isAdmin bool) string {
	if isAdmin {
		return adminPredicate
	}
	return userPredicate
}

func (r *Repository) ListForOwner(ctx context.Context, ownerID int, isAdmin bool, limit int) ([]domain.Notification, error) {
	query := `
		SELECT ` + notifColumns + `
		FROM notifications
		WHERE ` + predicate(isAdmin) + `
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		zap.L().Error("can't list notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			zap.L().Error("can't scan notification row", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, nil
}

func (r *Repository) UnreadCount(ctx context.Context, ownerID int, isAdmin bool) (int, error) {
	query := "SELECT COUNT(*) FROM notifications WHERE " + predicate(isAdmin) + " AND is_read = FALSE"
	var count int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		zap.L().Error("can't count unread notifications", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// MarkRead flips the read flag only when the row belongs to the caller.
// Returns false when no owned row matched.
func (r *Repository) MarkRead(ctx context.Context, id, ownerID int, isAdmin bool) (bool, error) {
	query := "UPDATE notifications SET is_read = TRUE WHERE id = $2 AND " + predicate(isAdmin)
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		zap.L().Error("can't mark notification read", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, ownerID int, isAdmin bool) error {
	query := "UPDATE notifications SET is_read = TRUE WHERE " + predicate(isAdmin) + " AND is_read = FALSE"
	if _, err := r.db.Exec(ctx, query, ownerID); err != nil {
		zap.L().Error("can't mark notifications read", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id, ownerID int, isAdmin bool) (bool, error) {
	query := "DELETE FROM notifications WHERE id = $2 AND " + predicate(isAdmin)
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		zap.L().Error("can't delete notification", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
