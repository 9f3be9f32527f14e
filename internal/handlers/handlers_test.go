package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/tkamdem/stablex/docs"
	"github.com/tkamdem/stablex/internal/handlers/admin"
	"github.com/tkamdem/stablex/internal/handlers/auth"
	"github.com/tkamdem/stablex/internal/handlers/notifications"
	"github.com/tkamdem/stablex/internal/handlers/rates"
	"github.com/tkamdem/stablex/internal/handlers/transactions"
	"github.com/tkamdem/stablex/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:         auth.NewMockService(ctrl),
		RateService:         rates.NewMockService(ctrl),
		TransactionService:  transactions.NewMockService(ctrl),
		BalanceService:      transactions.NewMockBalanceService(ctrl),
		NotificationService: notifications.NewMockService(ctrl),
		UserService:         admin.NewMockUserService(ctrl),
		WalletService:       admin.NewMockWalletService(ctrl),
	}

	h := New(services)
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockRateHandler := NewMockRateHandler(ctrl)
	mockTransactionHandler := NewMockTransactionHandler(ctrl)
	mockNotificationHandler := NewMockNotificationHandler(ctrl)
	mockAdminHandler := NewMockAdminHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockRateHandler.EXPECT().GetCurrent(gomock.Any(), gomock.Any()).AnyTimes()
	mockRateHandler.EXPECT().Calculate(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:         mockAuthHandler,
		RateHandler:         mockRateHandler,
		TransactionHandler:  mockTransactionHandler,
		NotificationHandler: mockNotificationHandler,
		AdminHandler:        mockAdminHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/auth/register", http.StatusOK},
		{"POST", "/api/auth/login", http.StatusOK},
		{"GET", "/api/rates/current", http.StatusOK},
		{"POST", "/api/rates/calculate", http.StatusOK},
		{"POST", "/api/buy", http.StatusUnauthorized},
		{"POST", "/api/sell", http.StatusUnauthorized},
		{"GET", "/api/user/profile", http.StatusUnauthorized},
		{"GET", "/api/user/balance", http.StatusUnauthorized},
		{"GET", "/api/user/transactions", http.StatusUnauthorized},
		{"GET", "/api/notifications/", http.StatusUnauthorized},
		{"POST", "/api/notifications/device-token", http.StatusUnauthorized},
		{"GET", "/api/admin/users/", http.StatusUnauthorized},
		{"GET", "/api/admin/transactions/", http.StatusUnauthorized},
		{"POST", "/api/admin/rates/", http.StatusUnauthorized},
		{"GET", "/api/admin/wallets/", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
