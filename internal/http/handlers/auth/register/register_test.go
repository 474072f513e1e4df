package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/orange-subscription/internal/models"
	services "github.com/magabrotheeeer/orange-subscription/internal/services/auth"
)

// Мок сервиса с методом Register
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, in services.RegisterInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	valid := Request{
		Username:    "bob",
		Phone:       "70000001",
		OrangeMoney: "70123456",
		Password:    "secret",
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantBody       map[string]any
	}{
		{
			name:        "valid registration",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, services.RegisterInput{
					Username:    "bob",
					Phone:       "70000001",
					OrangeMoney: "70123456",
					Password:    "secret",
				}).Return("*144*10*55713380*500#", nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantBody:       map[string]any{"ussd_code": "*144*10*55713380*500#"},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"error": "invalid request body"},
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Username:    "bob",
				Phone:       "70000001",
				OrangeMoney: "70123456",
			},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       map[string]any{"error": "field Password is a required field"},
		},
		{
			name:        "duplicate identity",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("wrapped: %w", models.ErrDuplicateIdentity)).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       map[string]any{"error": "duplicate identity"},
		},
		{
			name:        "storage error",
			requestBody: valid,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       map[string]any{"error": "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)

			svc.AssertExpectations(t)
		})
	}
}
