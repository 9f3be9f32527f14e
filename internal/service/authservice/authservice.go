// Package authservice handles registration, credential checks and token
// issuance. Passwords are stored as bcrypt hashes only.
package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/pkg/auth"
)

//go:generate mockgen -source=authservice.go -destination=authservice_mock.go -package=authservice

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetAdmin(ctx context.Context, id int, isAdmin bool) error
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
)

const tokenTTL = 24 * time.Hour

type Service struct {
	userRepo   UserRepo
	hasher     auth.PasswordHasher
	jwtService auth.JWTServiceInterface
}

func New(userRepo UserRepo, hasher auth.PasswordHasher, jwtService auth.JWTServiceInterface) *Service {
	return &Service{userRepo: userRepo, hasher: hasher, jwtService: jwtService}
}

// Register creates a standard user after checking email and phone
// uniqueness.
func (s *Service) Register(ctx context.Context, name, phone, email, country, password string) (*domain.User, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.userRepo.FindByPhone(ctx, phone); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, &domain.User{
		UID:          uuid.NewString(),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Country:      country,
		PasswordHash: hash,
		IsActive:     true,
	})
}

// Authenticate checks the credentials and returns the user. Lookup miss and
// hash mismatch collapse into one error so callers can't probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// GenerateToken issues a signed token carrying the admin claim.
func (s *Service) GenerateToken(user *domain.User) (string, error) {
	return s.jwtService.GenerateJWT(user.ID, user.IsAdmin, time.Now().Add(tokenTTL))
}

// BootstrapAdmin guarantees a usable administrator account at startup. An
// existing account under the configured email is promoted; otherwise the
// account is created. No-op when the email is not configured.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password, name, phone string) error {
	if email == "" {
		return nil
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.IsAdmin {
			return nil
		}
		zap.L().Info("promoting bootstrap admin", zap.String("email", email))
		return s.userRepo.SetAdmin(ctx, existing.ID, true)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = s.userRepo.Create(ctx, &domain.User{
		UID:          uuid.NewString(),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Country:      "CM",
		PasswordHash: hash,
		IsAdmin:      true,
		IsActive:     true,
	})
	if err != nil {
		return err
	}
	zap.L().Info("created bootstrap admin", zap.String("email", email))
	return nil
}
