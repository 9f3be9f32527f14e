// Package rateservice owns the official daily USDT/FCFA pair: reads for the
// exchange flows, administrator writes with broadcast, and the standalone
// conversion preview.
package rateservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/service/notifyservice"
	"github.com/tkamdem/stablex/pkg/conversion"
)

//go:generate mockgen -source=rateservice.go -destination=rateservice_mock.go -package=rateservice

type RateRepo interface {
	FindByDate(ctx context.Context, date time.Time) (*domain.DailyRate, error)
	FindByID(ctx context.Context, id int) (*domain.DailyRate, error)
	Upsert(ctx context.Context, rate *domain.DailyRate) (*domain.DailyRate, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit int) ([]domain.DailyRate, error)
}

type UserRepo interface {
	FindActiveUsers(ctx context.Context) ([]domain.User, error)
}

type Dispatcher interface {
	Notify(ctx context.Context, targets []notifyservice.Target, notifType, message string) error
	Push(ctx context.Context, userIDs []int, title, body string, data map[string]string)
}

type Cache interface {
	Get(ctx context.Context, date time.Time) (*domain.DailyRate, error)
	Set(ctx context.Context, rate *domain.DailyRate) error
	Invalidate(ctx context.Context, date time.Time) error
}

var (
	ErrRateUnavailable = errors.New("no rate published for today")
	ErrRateNotFound    = errors.New("rate not found")
	ErrRateProtected   = errors.New("today's rate cannot be deleted")
	ErrInvalidRatePair = errors.New("sell rate must exceed buy rate and both must be positive")
)

const historyDefault = 30

type Service struct {
	rateRepo   RateRepo
	userRepo   UserRepo
	dispatcher Dispatcher
	cache      Cache
}

func New(rateRepo RateRepo, userRepo UserRepo, dispatcher Dispatcher, cache Cache) *Service {
	return &Service{rateRepo: rateRepo, userRepo: userRepo, dispatcher: dispatcher, cache: cache}
}

// today returns the current calendar date at UTC midnight. All rate lookups
// key on this value, so a rate stays active for exactly one UTC day.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// GetActive returns the pair published for the current UTC date. The cache is
// consulted first and refilled on a miss; cache failures fall through to
// Postgres.
func (s *Service) GetActive(ctx context.Context) (*domain.DailyRate, error) {
	date := today()

	if cached, err := s.cache.Get(ctx, date); err == nil {
		return cached, nil
	}

	rate, err := s.rateRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrRateUnavailable
	}

	if err := s.cache.Set(ctx, rate); err != nil {
		zap.L().Warn("can't refill rate cache", zap.Error(err))
	}
	return rate, nil
}

// Upsert publishes or overwrites the pair for the given date and broadcasts
// the change to every active user. The broadcast happens after the rate is
// durable, so a notification failure never loses the rate itself.
func (s *Service) Upsert(ctx context.Context, date time.Time, buyRate, sellRate decimal.Decimal) (*domain.DailyRate, error) {
	if !buyRate.IsPositive() || !sellRate.IsPositive() || sellRate.LessThanOrEqual(buyRate) {
		return nil, ErrInvalidRatePair
	}

	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	saved, err := s.rateRepo.Upsert(ctx, &domain.DailyRate{
		RateDate: date,
		BuyRate:  buyRate,
		SellRate: sellRate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, saved); err != nil {
		zap.L().Warn("can't refresh rate cache", zap.Error(err))
	}

	s.broadcast(ctx, saved)
	return saved, nil
}

func (s *Service) broadcast(ctx context.Context, rate *domain.DailyRate) {
	users, err := s.userRepo.FindActiveUsers(ctx)
	if err != nil {
		zap.L().Error("can't resolve rate broadcast audience", zap.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}

	message := fmt.Sprintf("Nouveau taux du jour: achat %s FCFA, vente %s FCFA",
		rate.BuyRate.StringFixed(2), rate.SellRate.StringFixed(2))

	targets := make([]notifyservice.Target, 0, len(users))
	userIDs := make([]int, 0, len(users))
	for _, u := range users {
		targets = append(targets, notifyservice.ToUser(u.ID))
		userIDs = append(userIDs, u.ID)
	}

	if err := s.dispatcher.Notify(ctx, targets, domain.NotifRateUpdated, message); err != nil {
		zap.L().Error("can't broadcast rate update", zap.Error(err))
	}
	s.dispatcher.Push(ctx, userIDs, "Taux du jour", message, map[string]string{
		"type":      domain.NotifRateUpdated,
		"rate_date": rate.RateDate.Format("2006-01-02"),
	})
}

// Delete removes a published pair. The active date is protected because the
// exchange flows would lose their price source mid-day.
func (s *Service) Delete(ctx context.Context, id int) error {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rate == nil {
		return ErrRateNotFound
	}
	if rate.RateDate.Equal(today()) {
		return ErrRateProtected
	}

	if err := s.rateRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, rate.RateDate); err != nil {
		zap.L().Warn("can't invalidate rate cache", zap.Error(err))
	}
	return nil
}

// History lists published pairs, most recent first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.DailyRate, error) {
	if limit <= 0 || limit > 365 {
		limit = historyDefault
	}
	return s.rateRepo.List(ctx, limit)
}

// Preview converts an amount against a quoted world rate and margin without
// touching the published pair. Used by administrators to trial a spread
// before publishing it. Directions are from the user's side: a selling user
// is quoted the platform's buy price, a buying user the platform's sell
// price.
func (s *Service) Preview(direction string, worldRate, margin, amount decimal.Decimal) (decimal.Decimal, error) {
	switch direction {
	case domain.DirectionSell:
		return conversion.Buy(worldRate, margin, amount)
	case domain.DirectionBuy:
		return conversion.Sell(worldRate, margin, amount)
	default:
		return decimal.Zero, conversion.ErrInvalidInput
	}
}
