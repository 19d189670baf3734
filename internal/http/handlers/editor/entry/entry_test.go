package entry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Enter(ctx context.Context, uid string) (*document.Entry, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Entry), args.Error(1)
}

func TestEntryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	free := models.Plan{ID: models.PlanFree, Name: "Gratuito", Limit: 3}
	profile := &models.UserProfile{UID: "uid-1", PlanType: models.PlanFree}

	tests := []struct {
		name      string
		uid       string
		setupMock func(*ServiceMock)
		wantCode  int
		check     func(t *testing.T, got map[string]any)
	}{
		{
			name: "within limit",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Enter", mock.Anything, "uid-1").Return(&document.Entry{
					Profile:   profile,
					Plan:      free,
					State:     quota.WithinLimit,
					Templates: []models.Template{{ID: "servicos"}},
				}, nil).Once()
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, got map[string]any) {
				data := got["data"].(map[string]any)
				assert.Len(t, data["templates"], 1)
			},
		},
		{
			name: "at limit redirects to plans",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Enter", mock.Anything, "uid-1").Return(&document.Entry{
					Profile: profile,
					Plan:    free,
					State:   quota.AtLimit,
				}, nil).Once()
			},
			wantCode: http.StatusForbidden,
			check: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "Você atingiu o limite de contratos do plano Gratuito (3). Faça upgrade para continuar.", got["error"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "/plans", data["redirect"])
			},
		},
		{
			name:      "no user in context",
			setupMock: func(_ *ServiceMock) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name: "profile lookup fails",
			uid:  "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("Enter", mock.Anything, "uid-1").Return(nil, errors.New("db down")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/editor", nil)
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.uid))
			}
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.check != nil {
				tt.check(t, got)
			}
			svc.AssertExpectations(t)
		})
	}
}
