// Package save реализует HTTP-обработчик сохранения договора.
//
// Договор сохраняется со статусом finalized, счетчик договоров профиля растет на 1.
// Ошибки хранилища скрываются за общим сообщением; повторять запрос должен клиент.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/editor"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/contract"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
)

// Request данные нового договора.
type Request struct {
	TemplateID string            `json:"template_id" validate:"required"`
	Values     models.FormValues `json:"values"`
	LogoURL    string            `json:"logo_url" validate:"omitempty,startswith=data:image/"`
}

// Service описывает сохранение договора.
type Service interface {
	Save(ctx context.Context, uid, templateID string, values models.FormValues, logoURL string) (*models.Contract, error)
}

// Handler обрабатывает сохранение договора.
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
// @Summary Сохранить договор
// @Tags Contracts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Шаблон и значения формы"
// @Success 201 {object} response.Response "Договор сохранен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.Response "Лимит тарифа исчерпан"
// @Failure 404 {object} response.ErrorResponse "Шаблон не найден"
// @Failure 413 {object} response.ErrorResponse "Тело запроса слишком большое"
// @Failure 422 {object} response.Response "Незаполненные поля"
// @Failure 500 {object} response.ErrorResponse "Ошибка сохранения"
// @Router /contracts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contracts.save"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		log.Error("user uid not found in context")
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

	saved, err := h.service.Save(r.Context(), uid, req.TemplateID, req.Values, req.LogoURL)

	var invalid *editor.ValidationError
	var limit *contract.LimitError
	switch {
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
	case errors.As(err, &limit):
		log.Info("save refused by plan limit", slog.String("plan", string(limit.Plan.ID)))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorWithData(quota.LimitMessage(limit.Plan), map[string]any{
			"redirect": quota.RedirectPath,
			"plan":     limit.Plan,
		}))
		return
	case err != nil:
		log.Error("failed to save contract", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save contract, please retry"))
		return
	}

	log.Info("contract saved", slog.String("contract_id", saved.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contract": saved,
	}))
}
