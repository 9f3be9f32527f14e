package txrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const txColumns = `id, tx_id, user_id, direction, fiat_amount, stable_amount, applied_rate,
		network, operator, wallet_address, merchant_number, status, reject_reason, created_at, decided_at`

func scanTx(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(&tx.ID, &tx.TxID, &tx.UserID, &tx.Direction, &tx.FiatAmount, &tx.StableAmount,
		&tx.AppliedRate, &tx.Network, &tx.Operator, &tx.WalletAddress, &tx.MerchantNumber,
		&tx.Status, &tx.RejectReason, &tx.CreatedAt, &tx.DecidedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) Save(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (tx_id, user_id, direction, fiat_amount, stable_amount, applied_rate,
			network, operator, wallet_address, merchant_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, tx.TxID, tx.UserID, tx.Direction, tx.FiatAmount, tx.StableAmount,
			tx.AppliedRate, tx.Network, tx.Operator, tx.WalletAddress, tx.MerchantNumber, tx.Status).
			Scan(&tx.ID, &tx.CreatedAt)
	})
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByTxID(ctx context.Context, txID string) (*domain.Transaction, error) {
	tx, err := scanTx(r.db.QueryRow(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE tx_id = $1", txID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.findMany(ctx, query, userID)
}

func (r *Repository) FindAll(ctx context.Context, status string) ([]domain.Transaction, error) {
	if status == "" {
		return r.findMany(ctx, "SELECT "+txColumns+" FROM transactions ORDER BY created_at DESC")
	}
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE status = $1
		ORDER BY created_at DESC
	`
	return r.findMany(ctx, query, status)
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, nil
}

// Decide is a guarded compare-and-set: the status only changes when the row
// is still pending, so two administrators can't both settle the same
// transaction. Returns the updated row, or nil when no pending row matched.
func (r *Repository) Decide(ctx context.Context, txID, status, reason string, decidedAt time.Time) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $1, reject_reason = $2, decided_at = $3
		WHERE tx_id = $4 AND status = 'pending'
		RETURNING ` + txColumns + `
	`
	var updated *domain.Transaction
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tx, err := scanTx(r.db.QueryRow(ctx, query, status, reason, decidedAt, txID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		zap.L().Error("can't decide transaction", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// SumSettledByUser replays the user's completed history: buys count
// positively, sells negatively. Pending and rejected rows never contribute.
func (r *Repository) SumSettledByUser(ctx context.Context, userID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'buy' THEN stable_amount ELSE -stable_amount END), 0)
		FROM transactions
		WHERE user_id = $1 AND status = 'complete'
	`
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, query, userID).Scan(&sum)
	if err != nil {
		zap.L().Error("can't sum settled balance", zap.Error(err))
		return decimal.Zero, err
	}
	return sum, nil
}
