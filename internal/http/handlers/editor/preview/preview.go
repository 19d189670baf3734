// Package preview реализует HTTP-обработчик предпросмотра договора.
package preview

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// Request значения формы и логотип в виде data URL.
type Request struct {
	Values  models.FormValues `json:"values"`
	LogoURL string            `json:"logo_url" validate:"omitempty,startswith=data:image/"`
}

// Service описывает формирование предпросмотра.
type Service interface {
	Preview(templateID string, values models.FormValues, logoURL string) (models.RenderedDocument, error)
}

// Handler обрабатывает предпросмотр.
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
// @Summary Предпросмотр договора
// @Description Незаполненные поля выделяются подписью поля.
// @Tags Editor
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param template path string true "ID шаблона"
// @Param request body Request true "Значения формы"
// @Success 200 {object} response.Response "HTML договора"
// @Failure 404 {object} response.ErrorResponse "Шаблон не найден"
// @Failure 413 {object} response.ErrorResponse "Тело запроса слишком большое"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /editor/{template}/preview [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.editor.preview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	doc, err := h.service.Preview(chi.URLParam(r, "template"), req.Values, req.LogoURL)
	if errors.Is(err, catalog.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("template not found"))
		return
	}
	if err != nil {
		log.Error("failed to render preview", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"html": doc,
	}))
}
