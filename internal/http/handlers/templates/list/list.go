// Package list реализует HTTP-обработчик каталога шаблонов договоров.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// Service источник шаблонов.
type Service interface {
	Templates() []models.Template
}

// Handler отдает список шаблонов.
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
// @Summary Список шаблонов
// @Description Шаблоны договоров с описанием полей формы.
// @Tags Templates
// @Produce  json
// @Success 200 {object} response.Response "Шаблоны"
// @Router /templates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"templates": h.service.Templates(),
	}))
}
