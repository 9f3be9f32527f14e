package raterepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tkamdem/stablex/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func rateRow(date time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "rate_date", "buy_rate", "sell_rate", "created_at", "updated_at"}).
		AddRow(1, date, decimal.RequireFromString("600"), decimal.RequireFromString("620"), date, date)
}

func TestRepository_FindByDate(t *testing.T) {
	repo, mock := NewMock(t)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name: "Rate exists",
			mockSetup: func() {
				mock.ExpectQuery("SELECT (.+) FROM daily_rates WHERE rate_date").
					WithArgs(date).
					WillReturnRows(rateRow(date))
			},
			found: true,
		},
		{
			name: "No rate for the date",
			mockSetup: func() {
				mock.ExpectQuery("SELECT (.+) FROM daily_rates WHERE rate_date").
					WithArgs(date).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery("SELECT (.+) FROM daily_rates WHERE rate_date").
					WithArgs(date).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.FindByDate(context.Background(), date)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.found {
				assert.Equal(t, 1, result.ID)
				assert.True(t, result.BuyRate.Equal(decimal.RequireFromString("600")))
				assert.True(t, result.SellRate.Equal(decimal.RequireFromString("620")))
			} else {
				assert.Nil(t, result)
			}
		})
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := NewMock(t)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Insert or overwrite the pair",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_rates")).
					WithArgs(date, decimal.RequireFromString("600"), decimal.RequireFromString("620")).
					WillReturnRows(rateRow(date))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_rates")).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			rate := &domain.DailyRate{
				RateDate: date,
				BuyRate:  decimal.RequireFromString("600"),
				SellRate: decimal.RequireFromString("620"),
			}
			saved, err := repo.Upsert(context.Background(), rate)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, saved.ID)
			assert.Equal(t, date, saved.RateDate)
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Row removed", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_rates WHERE id = $1")).
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_rates WHERE id = $1")).
			WithArgs(1).
			WillReturnError(errors.New("database error"))

		assert.Error(t, repo.Delete(context.Background(), 1))
	})
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Newest first with a limit", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "rate_date", "buy_rate", "sell_rate", "created_at", "updated_at"}).
			AddRow(2, date, decimal.RequireFromString("605"), decimal.RequireFromString("625"), date, date).
			AddRow(1, date.AddDate(0, 0, -1), decimal.RequireFromString("600"), decimal.RequireFromString("620"), date, date)
		mock.ExpectQuery("SELECT (.+) FROM daily_rates\\s+ORDER BY rate_date DESC").
			WithArgs(30).
			WillReturnRows(rows)

		result, err := repo.List(context.Background(), 30)
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, 2, result[0].ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM daily_rates").
			WithArgs(30).
			WillReturnError(errors.New("database error"))

		result, err := repo.List(context.Background(), 30)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
