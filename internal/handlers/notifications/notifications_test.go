package notifications

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
	"github.com/tkamdem/stablex/internal/service/notifyservice"
	"github.com/tkamdem/stablex/pkg/auth"
)

func NewMock(t *testing.T) (*NotificationsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
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

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)

	userID := 7
	rows := []domain.Notification{
		{ID: 2, UserID: &userID, Type: domain.NotifTxApproved, Message: "Votre transaction 10.00 USDT a été validée.", CreatedAt: time.Now()},
		{ID: 1, UserID: &userID, Type: domain.NotifTxCreated, Message: "Votre achat est enregistré et en attente (TX-abc).", IsRead: true, CreatedAt: time.Now()},
	}

	tests := []struct {
		name         string
		target       string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name:   "Rows with unread count",
			target: "/api/notifications",
			prepareMock: func() {
				service.EXPECT().List(gomock.Any(), 7, false, 0).Return(rows, 1, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"non_lues":1`,
		},
		{
			name:   "Explicit limit",
			target: "/api/notifications?limit=10",
			prepareMock: func() {
				service.EXPECT().List(gomock.Any(), 7, false, 10).Return([]domain.Notification{}, 0, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Malformed limit",
			target:       "/api/notifications?limit=dix",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Repository failure",
			target: "/api/notifications",
			prepareMock: func() {
				service.EXPECT().List(gomock.Any(), 7, false, 0).Return(nil, 0, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodGet, tt.target, nil, 7, false)
			w := httptest.NewRecorder()
			handler.List(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestMarkReadHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Owned notification",
			id:   "3",
			prepareMock: func() {
				service.EXPECT().MarkRead(gomock.Any(), 3, 7, false).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Someone else's notification",
			id:   "3",
			prepareMock: func() {
				service.EXPECT().MarkRead(gomock.Any(), 3, 7, false).Return(notifyservice.ErrNotificationNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Malformed identifier",
			id:           "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodPost, "/api/notifications/"+tt.id+"/read", nil, 7, false)
			req = withID(req, tt.id)
			w := httptest.NewRecorder()
			handler.MarkRead(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestMarkAllReadHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().MarkAllRead(gomock.Any(), 7, false).Return(nil)

	req := authedRequest(http.MethodPost, "/api/notifications/read-all", nil, 7, false)
	w := httptest.NewRecorder()
	handler.MarkAllRead(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Owned notification",
			prepareMock: func() {
				service.EXPECT().Delete(gomock.Any(), 3, 7, false).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown notification",
			prepareMock: func() {
				service.EXPECT().Delete(gomock.Any(), 3, 7, false).Return(notifyservice.ErrNotificationNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodDelete, "/api/notifications/3", nil, 7, false)
			req = withID(req, "3")
			w := httptest.NewRecorder()
			handler.Delete(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestRegisterTokenHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Token registered",
			body: `{"token":"tok-a","platform":"android"}`,
			prepareMock: func() {
				service.EXPECT().RegisterToken(gomock.Any(), 7, "tok-a", "android").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Empty token",
			body: `{"token":""}`,
			prepareMock: func() {
				service.EXPECT().RegisterToken(gomock.Any(), 7, "", "").Return(notifyservice.ErrEmptyToken)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Malformed body",
			body:         `{`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodPost, "/api/notifications/device-token", []byte(tt.body), 7, false)
			w := httptest.NewRecorder()
			handler.RegisterToken(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestUnregisterTokenHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         []byte
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Named token",
			body: []byte(`{"token":"tok-a"}`),
			prepareMock: func() {
				service.EXPECT().UnregisterToken(gomock.Any(), 7, "tok-a").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "No body deactivates everything",
			prepareMock: func() {
				service.EXPECT().UnregisterToken(gomock.Any(), 7, "").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := authedRequest(http.MethodDelete, "/api/notifications/device-token", tt.body, 7, false)
			w := httptest.NewRecorder()
			handler.UnregisterToken(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
