// Package userservice covers the administrator-facing account operations.
package userservice

import (
	"context"
	"errors"

	"github.com/tkamdem/stablex/internal/domain"
)

//go:generate mockgen -source=userservice.go -destination=userservice_mock.go -package=userservice

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetAdmin(ctx context.Context, id int, isAdmin bool) error
	Delete(ctx context.Context, id int) error
	CountTransactions(ctx context.Context, userID int) (int, error)
}

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSelfDeletion        = errors.New("cannot delete your own account")
	ErrUserHasTransactions = errors.New("user owns transactions")
)

type Service struct {
	userRepo UserRepo
}

func New(userRepo UserRepo) *Service {
	return &Service{userRepo: userRepo}
}

func (s *Service) Profile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// ToggleAdmin flips the role flag and returns the new value.
func (s *Service) ToggleAdmin(ctx context.Context, uid string) (bool, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	next := !user.IsAdmin
	if err := s.userRepo.SetAdmin(ctx, user.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

// Delete removes an account. Administrators cannot delete themselves, and
// accounts owning transactions are kept so the ledger stays replayable.
func (s *Service) Delete(ctx context.Context, uid string, requesterID int) error {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ID == requesterID {
		return ErrSelfDeletion
	}

	count, err := s.userRepo.CountTransactions(ctx, user.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserHasTransactions
	}

	return s.userRepo.Delete(ctx, user.ID)
}
