// Package entry реализует HTTP-обработчик входа в редактор. Пока месячный лимит
// тарифа исчерпан, редактор не открывается: ответ 403 с сообщением и адресом
// страницы тарифов.
package entry

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/services/document"
	"github.com/magabrotheeeer/contrato-facil/internal/services/quota"
)

// Service описывает вход в редактор.
type Service interface {
	Enter(ctx context.Context, uid string) (*document.Entry, error)
}

// Handler обрабатывает вход в редактор.
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
// @Summary Открыть редактор
// @Description Проверяет квоту тарифа и возвращает шаблоны.
// @Tags Editor
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Редактор доступен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Лимит тарифа исчерпан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /editor [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.editor.entry"
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

	entry, err := h.service.Enter(r.Context(), uid)
	if err != nil {
		log.Error("failed to open editor", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if entry.State == quota.AtLimit {
		log.Info("editor blocked by plan limit", slog.String("plan", string(entry.Plan.ID)))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorWithData(quota.LimitMessage(entry.Plan), map[string]any{
			"redirect": quota.RedirectPath,
			"plan":     entry.Plan,
		}))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile":   entry.Profile,
		"plan":      entry.Plan,
		"templates": entry.Templates,
	}))
}
