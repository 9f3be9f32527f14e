package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:generate mockgen -source=txmanager.go -destination=txmanager_mock.go -package=pg

// TXManager runs a unit of work inside a single database transaction.
// WithUserLock additionally serializes concurrent units for the same user
// via a transaction-scoped advisory lock, which is what keeps the
// balance-check-then-insert of a sell from racing with itself.
type TXManager interface {
	Begin(ctx context.Context, fn func(ctx context.Context) error) error
	WithUserLock(ctx context.Context, userID int, fn func(ctx context.Context) error) error
}

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

type Manager struct {
	pool *pgxpool.Pool
}

func NewTXManager(pool *pgxpool.Pool) *Manager {
	return &Manager{pool: pool}
}

func (m *Manager) Begin(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		// Already inside a transaction: join it.
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			zap.L().Error("can't rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	return tx.Commit(ctx)
}

func (m *Manager) WithUserLock(ctx context.Context, userID int, fn func(ctx context.Context) error) error {
	return m.Begin(ctx, func(ctx context.Context) error {
		tx := txFromContext(ctx)
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(userID)); err != nil {
			return err
		}
		return fn(ctx)
	})
}
