// Package list реализует HTTP-обработчик каталога тарифов.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/services/billing"
)

// Service источник тарифов.
type Service interface {
	Plans() []billing.PlanView
}

// Handler отдает тарифы.
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
// @Summary Тарифы
// @Description Лимит договоров в месяц и цена в кванзах.
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response "Тарифы"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plans": h.service.Plans(),
	}))
}
