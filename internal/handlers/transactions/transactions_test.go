package transactions

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/service/rateservice"
	"github.com/tkamdem/stablex/internal/service/txservice"
	"github.com/tkamdem/stablex/pkg/auth"
)

func NewMock(t *testing.T) (*TransactionsHandler, *MockService, *MockBalanceService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	balance := NewMockBalanceService(ctrl)
	handler := New(service, balance)
	defer ctrl.Finish()
	return handler, service, balance
}

func authedRequest(method, target string, body []byte, userID int, isAdmin bool) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.IsAdminKey, isAdmin)
	return req.WithContext(ctx)
}

func withTxID(req *http.Request, txID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("txID", txID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sampleBuy() *domain.Transaction {
	return &domain.Transaction{
		ID:             1,
		TxID:           "TX-abc",
		UserID:         7,
		Direction:      domain.DirectionBuy,
		FiatAmount:     decimal.RequireFromString("6200"),
		StableAmount:   decimal.RequireFromString("10"),
		AppliedRate:    decimal.RequireFromString("620"),
		Network:        "TRC20",
		Operator:       "MTN",
		MerchantNumber: "670000001",
		WalletAddress:  "TUserWallet",
		Status:         domain.StatusPending,
		CreatedAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func sampleSell() *domain.Transaction {
	return &domain.Transaction{
		ID:             2,
		TxID:           "TX-def",
		UserID:         7,
		Direction:      domain.DirectionSell,
		FiatAmount:     decimal.RequireFromString("3000"),
		StableAmount:   decimal.RequireFromString("5"),
		AppliedRate:    decimal.RequireFromString("600"),
		Network:        "TRC20",
		Operator:       "ORANGE",
		MerchantNumber: "690000002",
		WalletAddress:  "TAdminWallet",
		Status:         domain.StatusPending,
		CreatedAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuyHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Pending buy recorded",
			body: `{"montant_xaf":"6200","reseau":"TRC20","operateur_mobile":"MTN","adresse_wallet":"TUserWallet"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateBuy(gomock.Any(), 7, gomock.Any(), "TRC20", "MTN", "TUserWallet").
					Return(sampleBuy(), "*126*14*670000001*6200#", nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"code_ussd":"*126*14*670000001*6200#"`,
		},
		{
			name:         "Missing fields",
			body:         `{"montant_xaf":"6200"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Malformed amount",
			body:         `{"montant_xaf":"dix","reseau":"TRC20","operateur_mobile":"MTN","adresse_wallet":"TUserWallet"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "No rate today",
			body: `{"montant_xaf":"6200","reseau":"TRC20","operateur_mobile":"MTN","adresse_wallet":"TUserWallet"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateBuy(gomock.Any(), 7, gomock.Any(), "TRC20", "MTN", "TUserWallet").
					Return(nil, "", rateservice.ErrRateUnavailable)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Taux non définis",
		},
		{
			name: "No deposit destination",
			body: `{"montant_xaf":"6200","reseau":"TRC20","operateur_mobile":"MTN","adresse_wallet":"TUserWallet"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateBuy(gomock.Any(), 7, gomock.Any(), "TRC20", "MTN", "TUserWallet").
					Return(nil, "", txservice.ErrDestinationUnavailable)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodPost, "/api/buy", []byte(tt.body), 7, false)
			w := httptest.NewRecorder()
			handler.Buy(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestSellHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Pending sell recorded",
			body: `{"montant_usdt":"5","reseau":"TRC20","operateur_mobile":"ORANGE","numero_mobile":"690000002"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateSell(gomock.Any(), 7, gomock.Any(), "TRC20", "ORANGE", "690000002").
					Return(sampleSell(), nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"adresse_admin":"TAdminWallet"`,
		},
		{
			name: "Insufficient balance",
			body: `{"montant_usdt":"500","reseau":"TRC20","operateur_mobile":"ORANGE","numero_mobile":"690000002"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateSell(gomock.Any(), 7, gomock.Any(), "TRC20", "ORANGE", "690000002").
					Return(nil, txservice.ErrInsufficientBalance)
			},
			expectedCode: http.StatusPaymentRequired,
			expectedBody: "Solde USDT insuffisant",
		},
		{
			name:         "Missing payout number",
			body:         `{"montant_usdt":"5","reseau":"TRC20","operateur_mobile":"ORANGE"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Non positive amount",
			body: `{"montant_usdt":"-1","reseau":"TRC20","operateur_mobile":"ORANGE","numero_mobile":"690000002"}`,
			prepareMock: func() {
				service.EXPECT().
					CreateSell(gomock.Any(), 7, gomock.Any(), "TRC20", "ORANGE", "690000002").
					Return(nil, txservice.ErrInvalidAmount)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodPost, "/api/sell", []byte(tt.body), 7, false)
			w := httptest.NewRecorder()
			handler.Sell(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestListMineHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Two transactions",
			prepareMock: func() {
				service.EXPECT().
					ListByUser(gomock.Any(), 7).
					Return([]domain.Transaction{*sampleBuy(), *sampleSell()}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"transaction_id":"TX-abc"`,
		},
		{
			name: "Repository failure",
			prepareMock: func() {
				service.EXPECT().ListByUser(gomock.Any(), 7).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, "/api/user/transactions", nil, 7, false)
			w := httptest.NewRecorder()
			handler.ListMine(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestGetOneHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		userID       int
		isAdmin      bool
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Owner reads own transaction",
			userID: 7,
			prepareMock: func() {
				service.EXPECT().GetByTxID(gomock.Any(), "TX-abc", 7, false).Return(sampleBuy(), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "Admin reads any transaction",
			userID:  99,
			isAdmin: true,
			prepareMock: func() {
				service.EXPECT().GetByTxID(gomock.Any(), "TX-abc", 99, true).Return(sampleBuy(), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Stranger is refused",
			userID: 8,
			prepareMock: func() {
				service.EXPECT().GetByTxID(gomock.Any(), "TX-abc", 8, false).Return(nil, txservice.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "Unknown identifier",
			userID: 7,
			prepareMock: func() {
				service.EXPECT().GetByTxID(gomock.Any(), "TX-abc", 7, false).Return(nil, txservice.ErrTxNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, "/api/user/transactions/TX-abc", nil, tt.userID, tt.isAdmin)
			req = withTxID(req, "TX-abc")
			w := httptest.NewRecorder()
			handler.GetOne(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestBalanceHandler(t *testing.T) {
	handler, _, balance := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Settled balance",
			prepareMock: func() {
				balance.EXPECT().
					SettledBalance(gomock.Any(), 7).
					Return(decimal.RequireFromString("12.5"), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"balance_usdt":"12.50"`,
		},
		{
			name: "Repository failure",
			prepareMock: func() {
				balance.EXPECT().SettledBalance(gomock.Any(), 7).Return(decimal.Zero, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, "/api/user/balance", nil, 7, false)
			w := httptest.NewRecorder()
			handler.Balance(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestListAllHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name         string
		target       string
		status       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Filtered by status",
			target: "/api/admin/transactions?statut=pending",
			prepareMock: func() {
				service.EXPECT().
					ListAll(gomock.Any(), "pending").
					Return([]domain.Transaction{*sampleBuy()}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "No filter",
			target: "/api/admin/transactions",
			prepareMock: func() {
				service.EXPECT().ListAll(gomock.Any(), "").Return([]domain.Transaction{}, nil)
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, tt.target, nil, 1, true)
			w := httptest.NewRecorder()
			handler.ListAll(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDecideHandlers(t *testing.T) {
	handler, service, _ := NewMock(t)

	completed := sampleBuy()
	completed.Status = domain.StatusComplete

	tests := []struct {
		name         string
		reject       bool
		body         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Validation succeeds",
			prepareMock: func() {
				service.EXPECT().
					Decide(gomock.Any(), "TX-abc", domain.StatusComplete, "").
					Return(completed, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "Transaction validée",
		},
		{
			name:   "Rejection carries the reason",
			reject: true,
			body:   `{"motif":"Paiement non reçu"}`,
			prepareMock: func() {
				service.EXPECT().
					Decide(gomock.Any(), "TX-abc", domain.StatusRejected, "Paiement non reçu").
					Return(sampleBuy(), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "Transaction rejetée",
		},
		{
			name:   "Rejection without a body",
			reject: true,
			prepareMock: func() {
				service.EXPECT().
					Decide(gomock.Any(), "TX-abc", domain.StatusRejected, "").
					Return(sampleBuy(), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already decided",
			prepareMock: func() {
				service.EXPECT().
					Decide(gomock.Any(), "TX-abc", domain.StatusComplete, "").
					Return(nil, txservice.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
			expectedBody: "Transaction déjà traitée",
		},
		{
			name: "Unknown identifier",
			prepareMock: func() {
				service.EXPECT().
					Decide(gomock.Any(), "TX-abc", domain.StatusComplete, "").
					Return(nil, txservice.ErrTxNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			var body []byte
			if tt.body != "" {
				body = []byte(tt.body)
			}
			req := authedRequest(http.MethodPost, "/api/admin/transactions/TX-abc/validate", body, 1, true)
			req = withTxID(req, "TX-abc")
			w := httptest.NewRecorder()

			if tt.reject {
				handler.Reject(w, req)
			} else {
				handler.Validate(w, req)
			}

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}
