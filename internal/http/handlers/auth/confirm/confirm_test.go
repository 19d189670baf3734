package confirm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ConfirmEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name         string
		url          string
		token        string
		mockErr      error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "confirmed",
			url:          "/confirm?token=abc",
			token:        "abc",
			expectedCode: http.StatusOK,
			expectedBody: `"confirmed":true`,
		},
		{
			name:         "unknown token",
			url:          "/confirm?token=zzz",
			token:        "zzz",
			mockErr:      auth.ErrInvalidConfirmationToken,
			expectedCode: http.StatusBadRequest,
			expectedBody: `"error":"invalid confirmation token"`,
		},
		{
			name:         "missing token",
			url:          "/confirm",
			token:        "",
			mockErr:      auth.ErrInvalidConfirmationToken,
			expectedCode: http.StatusBadRequest,
			expectedBody: `"error":"invalid confirmation token"`,
		},
		{
			name:         "storage failure",
			url:          "/confirm?token=abc",
			token:        "abc",
			mockErr:      errors.New("db down"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ConfirmEmail", mock.Anything, tt.token).Return(tt.mockErr).Once()

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
