package walletrepo

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

const walletColumns = "id, network, address, country, wallet_type, is_active, created_at"

func scanWallet(row pgx.Row) (*domain.AdminWallet, error) {
	var w domain.AdminWallet
	err := row.Scan(&w.ID, &w.Network, &w.Address, &w.Country, &w.WalletType, &w.IsActive, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// FindDepositDestination resolves the merchant number buys are paid into,
// keyed by mobile operator.
func (r *Repository) FindDepositDestination(ctx context.Context, operator string) (*domain.AdminWallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM admin_wallets
		WHERE network = $1 AND wallet_type = 'mobile_money' AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, operator))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find deposit destination", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// FindPayoutSource resolves the crypto address sells are sent to, keyed by
// network.
func (r *Repository) FindPayoutSource(ctx context.Context, network string) (*domain.AdminWallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM admin_wallets
		WHERE network = $1 AND wallet_type = 'crypto' AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	wallet, err := scanWallet(r.db.QueryRow(ctx, query, network))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payout source", zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

func (r *Repository) Create(ctx context.Context, wallet *domain.AdminWallet) error {
	query := `
		INSERT INTO admin_wallets (network, address, country, wallet_type, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, wallet.Network, wallet.Address, wallet.Country,
		wallet.WalletType, wallet.IsActive).Scan(&wallet.ID, &wallet.CreatedAt)
	if err != nil {
		zap.L().Error("can't save admin wallet", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.AdminWallet, error) {
	rows, err := r.db.Query(ctx, "SELECT "+walletColumns+" FROM admin_wallets ORDER BY created_at DESC")
	if err != nil {
		zap.L().Error("can't list admin wallets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var wallets []domain.AdminWallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			zap.L().Error("can't scan admin wallet row", zap.Error(err))
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM admin_wallets WHERE id = $1", id)
	if err != nil {
		zap.L().Error("can't delete admin wallet", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
