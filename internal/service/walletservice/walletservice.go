// Package walletservice manages the admin wallet inventory: mobile-money
// merchant numbers and crypto payout addresses.
package walletservice

import (
	"context"
	"errors"

	"github.com/tkamdem/stablex/internal/domain"
)

//go:generate mockgen -source=walletservice.go -destination=walletservice_mock.go -package=walletservice

type WalletRepo interface {
	Create(ctx context.Context, wallet *domain.AdminWallet) error
	List(ctx context.Context) ([]domain.AdminWallet, error)
	Delete(ctx context.Context, id int) (bool, error)
}

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInvalidWalletType = errors.New("unknown wallet type")
	ErrMissingFields     = errors.New("network and address are required")
)

type Service struct {
	walletRepo WalletRepo
}

func New(walletRepo WalletRepo) *Service {
	return &Service{walletRepo: walletRepo}
}

func (s *Service) List(ctx context.Context) ([]domain.AdminWallet, error) {
	return s.walletRepo.List(ctx)
}

func (s *Service) Add(ctx context.Context, network, address, country, walletType string) (*domain.AdminWallet, error) {
	if network == "" || address == "" {
		return nil, ErrMissingFields
	}
	if walletType != domain.WalletTypeMobileMoney && walletType != domain.WalletTypeCrypto {
		return nil, ErrInvalidWalletType
	}

	wallet := &domain.AdminWallet{
		Network:    network,
		Address:    address,
		Country:    country,
		WalletType: walletType,
		IsActive:   true,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *Service) Remove(ctx context.Context, id int) error {
	deleted, err := s.walletRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWalletNotFound
	}
	return nil
}
