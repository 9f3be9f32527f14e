package balanceservice

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balanceservice.go -destination=balanceservice_mock.go -package=balanceservice

type TxRepo interface {
	SumSettledByUser(ctx context.Context, userID int) (decimal.Decimal, error)
}

// Service derives the settled stable-asset balance by replaying completed
// transactions. There is no stored balance and no cache: small per-user
// volume makes recomputation cheap, and a derived value can't drift.
type Service struct {
	txRepo TxRepo
}

func New(txRepo TxRepo) *Service {
	return &Service{
		txRepo: txRepo,
	}
}

func (s *Service) SettledBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	balance, err := s.txRepo.SumSettledByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to compute settled balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}
