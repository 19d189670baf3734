// Package confirm реализует HTTP-обработчик подтверждения e-mail по ссылке из письма.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
)

// Service описывает подтверждение e-mail.
type Service interface {
	ConfirmEmail(ctx context.Context, token string) error
}

// Handler обрабатывает запросы подтверждения.
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
// @Summary Подтверждение e-mail
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен из письма"
// @Success 200 {object} response.Response "E-mail подтвержден"
// @Failure 400 {object} response.ErrorResponse "Неверный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /confirm [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	err := h.service.ConfirmEmail(r.Context(), r.URL.Query().Get("token"))
	if errors.Is(err, auth.ErrInvalidConfirmationToken) {
		log.Info("invalid confirmation token")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid confirmation token"))
		return
	}
	if err != nil {
		log.Error("failed to confirm email", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"confirmed": true,
	}))
}
