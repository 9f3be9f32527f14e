package admin

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/service/userservice"
	"github.com/tkamdem/stablex/internal/service/walletservice"
	"github.com/tkamdem/stablex/pkg/auth"
)

func NewMock(t *testing.T) (*AdminHandler, *MockUserService, *MockWalletService) {
	ctrl := gomock.NewController(t)
	users := NewMockUserService(ctrl)
	wallets := NewMockWalletService(ctrl)
	handler := New(users, wallets)
	defer ctrl.Finish()
	return handler, users, wallets
}

func authedRequest(method, target string, body []byte, userID int) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.IsAdminKey, true)
	return req.WithContext(ctx)
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:        7,
		UID:       "u-abc",
		Name:      "Alice",
		Phone:     "670000001",
		Email:     "alice@example.com",
		Country:   "CM",
		IsActive:  true,
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestProfileHandler(t *testing.T) {
	handler, users, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Own profile",
			prepareMock: func() {
				users.EXPECT().Profile(gomock.Any(), 7).Return(sampleUser(), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"identifiant_unique":"u-abc"`,
		},
		{
			name: "Account no longer exists",
			prepareMock: func() {
				users.EXPECT().Profile(gomock.Any(), 7).Return(nil, userservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, "/api/user/profile", nil, 7)
			w := httptest.NewRecorder()
			handler.Profile(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestListUsersHandler(t *testing.T) {
	handler, users, _ := NewMock(t)

	users.EXPECT().List(gomock.Any()).Return([]domain.User{*sampleUser()}, nil)

	req := authedRequest(http.MethodGet, "/api/admin/users", nil, 1)
	w := httptest.NewRecorder()
	handler.ListUsers(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestToggleAdminHandler(t *testing.T) {
	handler, users, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Granted",
			prepareMock: func() {
				users.EXPECT().ToggleAdmin(gomock.Any(), "u-abc").Return(true, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"est_admin":true`,
		},
		{
			name: "Revoked",
			prepareMock: func() {
				users.EXPECT().ToggleAdmin(gomock.Any(), "u-abc").Return(false, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"est_admin":false`,
		},
		{
			name: "Unknown user",
			prepareMock: func() {
				users.EXPECT().ToggleAdmin(gomock.Any(), "u-abc").Return(false, userservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodPost, "/api/admin/users/u-abc/toggle-admin", nil, 1)
			req = withParam(req, "uid", "u-abc")
			w := httptest.NewRecorder()
			handler.ToggleAdmin(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	handler, users, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Deleted",
			prepareMock: func() {
				users.EXPECT().Delete(gomock.Any(), "u-abc", 1).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Own account",
			prepareMock: func() {
				users.EXPECT().Delete(gomock.Any(), "u-abc", 1).Return(userservice.ErrSelfDeletion)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "User has transactions",
			prepareMock: func() {
				users.EXPECT().Delete(gomock.Any(), "u-abc", 1).Return(userservice.ErrUserHasTransactions)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Unknown user",
			prepareMock: func() {
				users.EXPECT().Delete(gomock.Any(), "u-abc", 1).Return(userservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodDelete, "/api/admin/users/u-abc", nil, 1)
			req = withParam(req, "uid", "u-abc")
			w := httptest.NewRecorder()
			handler.DeleteUser(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestWalletHandlers(t *testing.T) {
	handler, _, wallets := NewMock(t)

	wallet := &domain.AdminWallet{
		ID:         3,
		Network:    "MTN",
		Address:    "670000001",
		Country:    "CM",
		WalletType: domain.WalletTypeMobileMoney,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}

	t.Run("List", func(t *testing.T) {
		wallets.EXPECT().List(gomock.Any()).Return([]domain.AdminWallet{*wallet}, nil)

		req := authedRequest(http.MethodGet, "/api/admin/wallets", nil, 1)
		w := httptest.NewRecorder()
		handler.ListWallets(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"adresse":"670000001"`)
	})

	t.Run("Add succeeds", func(t *testing.T) {
		wallets.EXPECT().
			Add(gomock.Any(), "MTN", "670000001", "CM", domain.WalletTypeMobileMoney).
			Return(wallet, nil)

		body := []byte(`{"reseau":"MTN","adresse":"670000001","pays":"CM","type_portefeuille":"mobile_money"}`)
		req := authedRequest(http.MethodPost, "/api/admin/wallets", body, 1)
		w := httptest.NewRecorder()
		handler.AddWallet(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Add rejects unknown type", func(t *testing.T) {
		wallets.EXPECT().
			Add(gomock.Any(), "MTN", "670000001", "CM", "cash").
			Return(nil, walletservice.ErrInvalidWalletType)

		body := []byte(`{"reseau":"MTN","adresse":"670000001","pays":"CM","type_portefeuille":"cash"}`)
		req := authedRequest(http.MethodPost, "/api/admin/wallets", body, 1)
		w := httptest.NewRecorder()
		handler.AddWallet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Add rejects missing fields", func(t *testing.T) {
		wallets.EXPECT().
			Add(gomock.Any(), "", "", "", domain.WalletTypeCrypto).
			Return(nil, walletservice.ErrMissingFields)

		body := []byte(`{"type_portefeuille":"crypto"}`)
		req := authedRequest(http.MethodPost, "/api/admin/wallets", body, 1)
		w := httptest.NewRecorder()
		handler.AddWallet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete succeeds", func(t *testing.T) {
		wallets.EXPECT().Remove(gomock.Any(), 3).Return(nil)

		req := authedRequest(http.MethodDelete, "/api/admin/wallets/3", nil, 1)
		req = withParam(req, "id", "3")
		w := httptest.NewRecorder()
		handler.DeleteWallet(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Delete unknown wallet", func(t *testing.T) {
		wallets.EXPECT().Remove(gomock.Any(), 3).Return(walletservice.ErrWalletNotFound)

		req := authedRequest(http.MethodDelete, "/api/admin/wallets/3", nil, 1)
		req = withParam(req, "id", "3")
		w := httptest.NewRecorder()
		handler.DeleteWallet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete malformed identifier", func(t *testing.T) {
		req := authedRequest(http.MethodDelete, "/api/admin/wallets/abc", nil, 1)
		req = withParam(req, "id", "abc")
		w := httptest.NewRecorder()
		handler.DeleteWallet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List failure", func(t *testing.T) {
		wallets.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

		req := authedRequest(http.MethodGet, "/api/admin/wallets", nil, 1)
		w := httptest.NewRecorder()
		handler.ListWallets(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
