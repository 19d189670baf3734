package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*models.UserProfile, string, error) {
	args := m.Called(ctx, email, password)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	creds := Request{Email: "ana@example.ao", Password: "segredo1"}
	profile := &models.UserProfile{UID: "uid-1", Email: "ana@example.ao", PlanType: models.PlanPremium}

	tests := []struct {
		name      string
		body      any
		mockProf  *models.UserProfile
		mockErr   error
		callsSvc  bool
		wantCode  int
		wantError string
	}{
		{
			name:     "valid login",
			body:     creds,
			mockProf: profile,
			callsSvc: true,
			wantCode: http.StatusOK,
		},
		{
			name:      "wrong password",
			body:      creds,
			mockErr:   auth.ErrInvalidCredentials,
			callsSvc:  true,
			wantCode:  http.StatusUnauthorized,
			wantError: "invalid credentials",
		},
		{
			name:      "email not confirmed",
			body:      creds,
			mockErr:   auth.ErrEmailNotConfirmed,
			callsSvc:  true,
			wantCode:  http.StatusForbidden,
			wantError: "email not confirmed",
		},
		{
			name:      "internal error",
			body:      creds,
			mockErr:   errors.New("redis down"),
			callsSvc:  true,
			wantCode:  http.StatusInternalServerError,
			wantError: "internal error",
		},
		{
			name:      "missing password",
			body:      Request{Email: "ana@example.ao"},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field Password is a required field",
		},
		{
			name:      "invalid json body",
			body:      "not a json",
			wantCode:  http.StatusBadRequest,
			wantError: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsSvc {
				svc.On("Login", mock.Anything, creds.Email, creds.Password).
					Return(tt.mockProf, "tok", tt.mockErr).Once()
			}

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
				assert.Nil(t, got["data"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
				assert.Equal(t, "premium", data["profile"].(map[string]any)["plan_type"])
			}
			svc.AssertExpectations(t)
		})
	}
}
