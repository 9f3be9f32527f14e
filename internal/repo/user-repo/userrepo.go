package userrepo

import (
	"context"
	"errors"

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

const userColumns = "id, uid, name, phone, email, country, password_hash, is_admin, is_active, created_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.UID, &user.Name, &user.Phone, &user.Email, &user.Country,
		&user.PasswordHash, &user.IsAdmin, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE phone = $1", phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by phone", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE uid = $1", uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by uid", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (uid, name, phone, email, country, password_hash, is_admin, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, user.UID, user.Name, user.Phone, user.Email, user.Country,
		user.PasswordHash, user.IsAdmin, user.IsActive).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (r *Repository) SetAdmin(ctx context.Context, id int, isAdmin bool) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET is_admin = $1 WHERE id = $2", isAdmin, id)
	if err != nil {
		zap.L().Error("can't update user role", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		zap.L().Error("can't delete user", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) CountTransactions(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		zap.L().Error("can't count user transactions", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// FindActiveAdmins backs the creation fan-out: every active administrator
// is notified of a new pending transaction.
func (r *Repository) FindActiveAdmins(ctx context.Context) ([]domain.User, error) {
	return r.findActive(ctx, "SELECT "+userColumns+" FROM users WHERE is_admin = TRUE AND is_active = TRUE")
}

// FindActiveUsers backs the rate-change broadcast.
func (r *Repository) FindActiveUsers(ctx context.Context) ([]domain.User, error) {
	return r.findActive(ctx, "SELECT "+userColumns+" FROM users WHERE is_active = TRUE")
}

func (r *Repository) findActive(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't find active users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}
