// Package list реализует HTTP-обработчик списка статей блога.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// Service источник статей.
type Service interface {
	BlogPosts() []models.BlogPost
}

// Handler отдает статьи без полного текста.
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
// @Summary Статьи блога
// @Tags Blog
// @Produce  json
// @Success 200 {object} response.Response "Статьи"
// @Router /blog [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posts": h.service.BlogPosts(),
	}))
}
