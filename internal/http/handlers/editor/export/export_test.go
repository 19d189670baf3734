package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Export(ctx context.Context, uid, templateID string, values models.FormValues,
	logoURL string, format document.Format, w io.Writer) (*document.File, error) {
	args := m.Called(ctx, uid, templateID, values, logoURL, format, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.File), args.Error(1)
}

func TestExportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	values := models.FormValues{"contratante_nome": "Ana"}

	tests := []struct {
		name         string
		format       string
		setupMock    func(*ServiceMock)
		expectedCode int
		expectedBody string
		expectedType string
		expectedDisp string
	}{
		{
			name:   "word for paid plan",
			format: "word",
			setupMock: func(m *ServiceMock) {
				m.On("Export", mock.Anything, "uid-1", "servicos", values, "", document.FormatWord, mock.Anything).
					Run(func(args mock.Arguments) {
						_, _ = io.WriteString(args.Get(6).(io.Writer), "<html>doc</html>")
					}).
					Return(&document.File{Filename: "Contrato.doc", ContentType: "application/vnd.ms-word"}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: "<html>doc</html>",
			expectedType: "application/vnd.ms-word",
			expectedDisp: `attachment; filename="Contrato.doc"`,
		},
		{
			name:   "word refused on free plan",
			format: "word",
			setupMock: func(m *ServiceMock) {
				m.On("Export", mock.Anything, "uid-1", "servicos", values, "", document.FormatWord, mock.Anything).
					Return(nil, document.ErrWordRequiresPaidPlan).Once()
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `"error":"word export requires a paid plan"`,
		},
		{
			name:   "missing required fields",
			format: "pdf",
			setupMock: func(m *ServiceMock) {
				m.On("Export", mock.Anything, "uid-1", "servicos", values, "", document.FormatPDF, mock.Anything).
					Return(nil, &editor.ValidationError{Fields: []string{"contratado_nome", "valor_total"}}).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `"first_invalid":"contratado_nome"`,
		},
		{
			name:   "unknown format",
			format: "odt",
			setupMock: func(m *ServiceMock) {
				m.On("Export", mock.Anything, "uid-1", "servicos", values, "", document.Format("odt"), mock.Anything).
					Return(nil, document.ErrUnknownFormat).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"error":"unknown export format"`,
		},
		{
			name:   "rasterization failure is generic",
			format: "pdf",
			setupMock: func(m *ServiceMock) {
				m.On("Export", mock.Anything, "uid-1", "servicos", values, "", document.FormatPDF, mock.Anything).
					Return(nil, errors.New("jpeg encode: disk full")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"status":"Error","error":"failed to export document"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/editor/servicos/export/"+tt.format,
				strings.NewReader(`{"values":{"contratante_nome":"Ana"}}`))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("template", "servicos")
			rctx.URLParams.Add("format", tt.format)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.expectedDisp, rec.Header().Get("Content-Disposition"))
			}
			svc.AssertExpectations(t)
		})
	}
}
