package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/service/authservice"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestRegisterHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful registration",
			body: `{"nom":"Alice","telephone":"670000001","email":"a@b.cm","pays":"CM","mot_de_passe":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "Alice", "670000001", "a@b.cm", "CM", "password123").
					Return(&domain.User{ID: 7, Email: "a@b.cm"}, nil)
				service.EXPECT().GenerateToken(gomock.Any()).Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Duplicate email",
			body: `{"nom":"Alice","telephone":"670000001","email":"a@b.cm","pays":"CM","mot_de_passe":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "Alice", "670000001", "a@b.cm", "CM", "password123").
					Return(nil, authservice.ErrEmailTaken)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Missing fields",
			body:         `{"email":"a@b.cm"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid request body",
			body:         `{invalid json`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Register(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Valid credentials",
			body: `{"email":"a@b.cm","mot_de_passe":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "a@b.cm", "password123").
					Return(&domain.User{ID: 7}, nil)
				service.EXPECT().GenerateToken(gomock.Any()).Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: `{"email":"a@b.cm","mot_de_passe":"nope"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "a@b.cm", "nope").
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Missing password",
			body:         `{"email":"a@b.cm"}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Login(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
