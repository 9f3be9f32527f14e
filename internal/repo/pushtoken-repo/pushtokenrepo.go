package pushtokenrepo

import (
	"context"

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

// Upsert registers a delivery token: a token seen before is reassigned to
// its current user and reactivated.
func (r *Repository) Upsert(ctx context.Context, token *domain.PushToken) error {
	query := `
		INSERT INTO push_tokens (user_id, token, platform, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, is_active = TRUE, updated_at = now()
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, token.UserID, token.Token, token.Platform).Scan(&token.ID)
	if err != nil {
		zap.L().Error("can't upsert push token", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindActiveByUserIDs(ctx context.Context, userIDs []int) ([]domain.PushToken, error) {
	query := `
		SELECT id, user_id, token, platform, is_active, updated_at
		FROM push_tokens
		WHERE user_id = ANY($1) AND is_active = TRUE
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		zap.L().Error("can't find push tokens", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.PushToken
	for rows.Next() {
		var t domain.PushToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.IsActive, &t.UpdatedAt); err != nil {
			zap.L().Error("can't scan push token row", zap.Error(err))
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// DeactivateTokens retires destinations the delivery backend reported as
// permanently invalid.
func (r *Repository) DeactivateTokens(ctx context.Context, tokens []string) error {
	query := "UPDATE push_tokens SET is_active = FALSE, updated_at = now() WHERE token = ANY($1)"
	if _, err := r.db.Exec(ctx, query, tokens); err != nil {
		zap.L().Error("can't deactivate push tokens", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeactivateForUser(ctx context.Context, userID int, token string) error {
	query := "UPDATE push_tokens SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND token = $2"
	if _, err := r.db.Exec(ctx, query, userID, token); err != nil {
		zap.L().Error("can't deactivate push token", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DeactivateAllForUser(ctx context.Context, userID int) error {
	query := "UPDATE push_tokens SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND is_active = TRUE"
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		zap.L().Error("can't deactivate push tokens for user", zap.Error(err))
		return err
	}
	return nil
}
