package upgrade

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/billing"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/objectstore"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Upgrade(ctx context.Context, uid string, planID models.PlanType, proof *objectstore.Proof) (*models.UserProfile, models.Plan, error) {
	args := m.Called(ctx, uid, planID, proof)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Get(1).(models.Plan), args.Error(2)
}

func newForm(t *testing.T, plan string, proof []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if plan != "" {
		require.NoError(t, mw.WriteField("plan", plan))
	}
	if proof != nil {
		fw, err := mw.CreateFormFile("proof", "recibo.pdf")
		require.NoError(t, err)
		_, err = fw.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpgradeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gold := models.Plan{ID: models.PlanGold, Name: "Gold", Limit: 40, Price: 5000}

	tests := []struct {
		name         string
		plan         string
		proof        []byte
		maxProof     int64
		setupMock    func(*ServiceMock)
		expectedCode int
		expectedBody string
	}{
		{
			name:  "upgraded with proof",
			plan:  "gold",
			proof: []byte("%PDF-recibo"),
			setupMock: func(m *ServiceMock) {
				m.On("Upgrade", mock.Anything, "uid-1", models.PlanGold, mock.MatchedBy(func(p *objectstore.Proof) bool {
					if p == nil || p.Filename != "recibo.pdf" || p.Size != int64(len("%PDF-recibo")) {
						return false
					}
					body, err := io.ReadAll(p.Body)
					return err == nil && string(body) == "%PDF-recibo"
				})).Return(&models.UserProfile{UID: "uid-1", PlanType: models.PlanGold}, gold, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: "Pagamento confirmado! Upgrade para Gold realizado com sucesso.",
		},
		{
			name: "downgrade without proof",
			plan: "free",
			setupMock: func(m *ServiceMock) {
				m.On("Upgrade", mock.Anything, "uid-1", models.PlanFree, (*objectstore.Proof)(nil)).
					Return(&models.UserProfile{UID: "uid-1", PlanType: models.PlanFree}, models.Plan{ID: models.PlanFree, Name: "Gratuito"}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"plan_type":"free"`,
		},
		{
			name: "paid plans not yet available",
			plan: "premium",
			setupMock: func(m *ServiceMock) {
				m.On("Upgrade", mock.Anything, "uid-1", models.PlanPremium, (*objectstore.Proof)(nil)).
					Return(nil, models.Plan{}, billing.ErrPlanUnavailable).Once()
			},
			expectedCode: http.StatusForbidden,
			expectedBody: "Este plano estará disponível em breve.",
		},
		{
			name: "same plan",
			plan: "gold",
			setupMock: func(m *ServiceMock) {
				m.On("Upgrade", mock.Anything, "uid-1", models.PlanGold, (*objectstore.Proof)(nil)).
					Return(nil, gold, billing.ErrSamePlan).Once()
			},
			expectedCode: http.StatusConflict,
			expectedBody: `"error":"already on this plan"`,
		},
		{
			name: "upload failure",
			plan: "gold",
			setupMock: func(m *ServiceMock) {
				m.On("Upgrade", mock.Anything, "uid-1", models.PlanGold, (*objectstore.Proof)(nil)).
					Return(nil, gold, errors.New("minio down")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: PaymentFailedMessage,
		},
		{
			name:         "unknown plan",
			plan:         "platinum",
			setupMock:    func(_ *ServiceMock) {},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: "field Plan must be one of: free premium gold",
		},
		{
			name:         "body over limit",
			plan:         "gold",
			proof:        bytes.Repeat([]byte("x"), 3<<20),
			maxProof:     1024,
			setupMock:    func(_ *ServiceMock) {},
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedBody: `"error":"payment proof is too large"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			body, contentType := newForm(t, tt.plan, tt.proof)
			req := httptest.NewRequest(http.MethodPost, "/plans/upgrade", body)
			req.Header.Set("Content-Type", contentType)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))
			rec := httptest.NewRecorder()

			New(logger, svc, tt.maxProof).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
