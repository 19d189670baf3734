// Package read реализует HTTP-обработчик статьи блога.
package read

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// Service источник статей.
type Service interface {
	BlogPost(id string) (models.BlogPost, error)
}

// Handler отдает статью целиком.
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
// @Summary Статья блога
// @Tags Blog
// @Produce  json
// @Param id path string true "ID статьи"
// @Success 200 {object} response.Response "Статья"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Router /blog/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.BlogPost(chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("post not found"))
		return
	}
	if err != nil {
		h.log.Error("failed to load blog post", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"post": post,
	}))
}
