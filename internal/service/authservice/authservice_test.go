package authservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockUserRepo) {
	ctrl := gomock.NewController(t)
	userRepo := NewMockUserRepo(ctrl)
	service := New(userRepo, &auth.BcryptHasher{}, &auth.JWTService{})
	defer ctrl.Finish()
	return service, userRepo
}

func TestRegister(t *testing.T) {
	service, userRepo := NewMock(t)
	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "New account gets a uid and a bcrypt hash",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").Return(nil, nil)
				userRepo.EXPECT().FindByPhone(gomock.Any(), "670000001").Return(nil, nil)
				userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.NotEmpty(t, user.UID)
						assert.NotEqual(t, "secret", user.PasswordHash)
						assert.True(t, user.IsActive)
						assert.False(t, user.IsAdmin)
						user.ID = 7
						return user, nil
					})
			},
		},
		{
			name: "Duplicate email",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").
					Return(&domain.User{ID: 1}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name: "Duplicate phone",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").Return(nil, nil)
				userRepo.EXPECT().FindByPhone(gomock.Any(), "670000001").
					Return(&domain.User{ID: 1}, nil)
			},
			expectedError: ErrPhoneTaken,
		},
		{
			name: "Lookup error",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").
					Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.Register(context.Background(), "Alice", "670000001", "a@b.cm", "CM", "secret")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, user.ID)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service, userRepo := NewMock(t)

	hasher := &auth.BcryptHasher{}
	hash, err := hasher.Hash("secret")
	assert.NoError(t, err)

	tests := []struct {
		name          string
		password      string
		prepareMock   func()
		expectedError error
	}{
		{
			name:     "Valid credentials",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").
					Return(&domain.User{ID: 7, PasswordHash: hash, IsActive: true}, nil)
			},
		},
		{
			name:     "Wrong password",
			password: "nope",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").
					Return(&domain.User{ID: 7, PasswordHash: hash, IsActive: true}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Unknown email reads the same as wrong password",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Deactivated account",
			password: "secret",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "a@b.cm").
					Return(&domain.User{ID: 7, PasswordHash: hash, IsActive: false}, nil)
			},
			expectedError: ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.Authenticate(context.Background(), "a@b.cm", tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, user.ID)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _ := NewMock(t)

	token, err := service.GenerateToken(&domain.User{ID: 7, IsAdmin: true})
	assert.NoError(t, err)

	claims, err := (&auth.JWTService{}).ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestBootstrapAdmin(t *testing.T) {
	service, userRepo := NewMock(t)
	tests := []struct {
		name        string
		email       string
		prepareMock func()
	}{
		{
			name:  "Creates the account when missing",
			email: "admin@b.cm",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "admin@b.cm").Return(nil, nil)
				userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.True(t, user.IsAdmin)
						return user, nil
					})
			},
		},
		{
			name:  "Promotes an existing standard account",
			email: "admin@b.cm",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "admin@b.cm").
					Return(&domain.User{ID: 3, IsAdmin: false}, nil)
				userRepo.EXPECT().SetAdmin(gomock.Any(), 3, true).Return(nil)
			},
		},
		{
			name:  "Existing admin is left alone",
			email: "admin@b.cm",
			prepareMock: func() {
				userRepo.EXPECT().FindByEmail(gomock.Any(), "admin@b.cm").
					Return(&domain.User{ID: 3, IsAdmin: true}, nil)
			},
		},
		{
			name:  "Unconfigured email is a no-op",
			email: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			assert.NoError(t, service.BootstrapAdmin(context.Background(), tt.email, "secret", "Admin", "670000000"))
		})
	}
}
