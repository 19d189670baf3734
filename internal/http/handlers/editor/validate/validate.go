// Package validate реализует HTTP-обработчик проверки формы шаблона.
//
// Незаполненные обязательные поля возвращаются в порядке полей шаблона вместе с
// первым из них, к которому интерфейс прокручивает форму.
package validate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// Request значения формы.
type Request struct {
	Values models.FormValues `json:"values"`
}

// Service описывает проверку формы.
type Service interface {
	Validate(templateID string, values models.FormValues) ([]string, error)
}

// Handler обрабатывает проверку формы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить форму
// @Tags Editor
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param template path string true "ID шаблона"
// @Param request body Request true "Значения формы"
// @Success 200 {object} response.Response "Форма заполнена"
// @Failure 404 {object} response.ErrorResponse "Шаблон не найден"
// @Failure 422 {object} response.Response "Незаполненные поля"
// @Router /editor/{template}/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.editor.validate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	invalid, err := h.service.Validate(chi.URLParam(r, "template"), req.Values)
	if errors.Is(err, catalog.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("template not found"))
		return
	}
	if err != nil {
		log.Error("failed to validate form", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if len(invalid) > 0 {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ErrorWithData(editor.ValidationMessage, map[string]any{
			"invalid_fields": invalid,
			"first_invalid":  invalid[0],
		}))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"valid": true,
	}))
}
