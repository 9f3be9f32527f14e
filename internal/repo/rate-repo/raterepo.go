package raterepo

import (
	"context"
	"errors"
	"time"

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

const rateColumns = "id, rate_date, buy_rate, sell_rate, created_at, updated_at"

func scanRate(row pgx.Row) (*domain.DailyRate, error) {
	var rate domain.DailyRate
	err := row.Scan(&rate.ID, &rate.RateDate, &rate.BuyRate, &rate.SellRate, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *Repository) FindByDate(ctx context.Context, date time.Time) (*domain.DailyRate, error) {
	rate, err := scanRate(r.db.QueryRow(ctx,
		"SELECT "+rateColumns+" FROM daily_rates WHERE rate_date = $1", date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find daily rate", zap.Error(err))
		return nil, err
	}
	return rate, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.DailyRate, error) {
	rate, err := scanRate(r.db.QueryRow(ctx,
		"SELECT "+rateColumns+" FROM daily_rates WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find daily rate by id", zap.Error(err))
		return nil, err
	}
	return rate, nil
}

// Upsert inserts or overwrites the pair for rate.RateDate in one atomic
// statement, so concurrent administrator writes can't create duplicate rows
// for the same date.
func (r *Repository) Upsert(ctx context.Context, rate *domain.DailyRate) (*domain.DailyRate, error) {
	query := `
		INSERT INTO daily_rates (rate_date, buy_rate, sell_rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (rate_date) DO UPDATE
		SET buy_rate = EXCLUDED.buy_rate, sell_rate = EXCLUDED.sell_rate, updated_at = now()
		RETURNING ` + rateColumns + `
	`
	saved, err := scanRate(r.db.QueryRow(ctx, query, rate.RateDate, rate.BuyRate, rate.SellRate))
	if err != nil {
		zap.L().Error("can't upsert daily rate", zap.Error(err))
		return nil, err
	}
	return saved, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "DELETE FROM daily_rates WHERE id = $1", id)
	if err != nil {
		zap.L().Error("can't delete daily rate", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domain.DailyRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM daily_rates
		ORDER BY rate_date DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't list daily rates", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rates []domain.DailyRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			zap.L().Error("can't scan daily rate row", zap.Error(err))
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, nil
}
