// Package export реализует HTTP-обработчик экспорта договора в PDF или Word.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
)

// Request значения формы и логотип в виде data URL.
type Request struct {
	Values  models.FormValues `json:"values"`
	LogoURL string            `json:"logo_url" validate:"omitempty,startswith=data:image/"`
}

// Service описывает экспорт документа.
type Service interface {
	Export(ctx context.Context, uid, templateID string, values models.FormValues,
		logoURL string, format document.Format, w io.Writer) (*document.File, error)
}

// Handler обрабатывает экспорт.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Экспорт договора
// @Description PDF доступен на всех тарифах, Word только на платных.
// @Tags Editor
// @Accept  json
// @Produce  application/pdf
// @Produce  application/vnd.ms-word
// @Security BearerAuth
// @Param template path string true "ID шаблона"
// @Param format path string true "pdf или word"
// @Param request body Request true "Значения формы"
// @Success 200 {file} file "Документ"
// @Failure 400 {object} response.ErrorResponse "Неизвестный формат"
// @Failure 403 {object} response.ErrorResponse "Word недоступен на бесплатном тарифе"
// @Failure 404 {object} response.ErrorResponse "Шаблон не найден"
// @Failure 413 {object} response.ErrorResponse "Тело запроса слишком большое"
// @Failure 422 {object} response.Response "Незаполненные поля"
// @Failure 500 {object} response.ErrorResponse "Ошибка экспорта"
// @Router /editor/{template}/export/{format} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.editor.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	r.Body = http.MaxBytesReader(w, r.Body, response.MaxDocumentBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("request body is too large"))
			return
		}
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var buf bytes.Buffer
	format := document.Format(chi.URLParam(r, "format"))
	file, err := h.service.Export(r.Context(), uid, chi.URLParam(r, "template"), req.Values, req.LogoURL, format, &buf)

	var invalid *editor.ValidationError
	switch {
	case errors.Is(err, document.ErrUnknownFormat):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown export format"))
		return
	case errors.Is(err, catalog.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("template not found"))
		return
	case errors.As(err, &invalid):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ErrorWithData(editor.ValidationMessage, map[string]any{
			"invalid_fields": invalid.Fields,
			"first_invalid":  invalid.FirstInvalid(),
		}))
		return
	case errors.Is(err, document.ErrWordRequiresPaidPlan):
		log.Info("word export refused on free plan")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("word export requires a paid plan"))
		return
	case err != nil:
		log.Error("failed to export document", sl.Err(err), slog.String("format", string(format)))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export document"))
		return
	}

	log.Info("document exported", slog.String("format", string(format)), slog.Int("bytes", buf.Len()))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write document", sl.Err(err))
	}
}
