package walletservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockWalletRepo) {
	ctrl := gomock.NewController(t)
	walletRepo := NewMockWalletRepo(ctrl)
	service := New(walletRepo)
	defer ctrl.Finish()
	return service, walletRepo
}

func TestAdd(t *testing.T) {
	service, walletRepo := NewMock(t)
	tests := []struct {
		name          string
		network       string
		address       string
		walletType    string
		prepareMock   func()
		expectedError error
	}{
		{
			name:       "Mobile money merchant number",
			network:    "MTN",
			address:    "670000001",
			walletType: domain.WalletTypeMobileMoney,
			prepareMock: func() {
				walletRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w *domain.AdminWallet) error {
						assert.True(t, w.IsActive)
						return nil
					})
			},
		},
		{
			name:          "Unknown type",
			network:       "TRC20",
			address:       "Txy",
			walletType:    "paper",
			expectedError: ErrInvalidWalletType,
		},
		{
			name:          "Missing address",
			network:       "TRC20",
			walletType:    domain.WalletTypeCrypto,
			expectedError: ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			_, err := service.Add(context.Background(), tt.network, tt.address, "CM", tt.walletType)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	service, walletRepo := NewMock(t)

	walletRepo.EXPECT().Delete(gomock.Any(), 2).Return(true, nil)
	assert.NoError(t, service.Remove(context.Background(), 2))

	walletRepo.EXPECT().Delete(gomock.Any(), 3).Return(false, nil)
	assert.ErrorIs(t, service.Remove(context.Background(), 3), ErrWalletNotFound)
}
