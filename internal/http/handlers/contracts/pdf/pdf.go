// Package pdf реализует HTTP-обработчик скачивания сохраненного договора в PDF.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/contrato-facil/internal/export"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// Service описывает выгрузку договора.
type Service interface {
	PDF(ctx context.Context, uid, id string, w io.Writer) (string, error)
}

// Handler обрабатывает скачивание.
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
// @Summary Скачать договор в PDF
// @Tags Contracts
// @Produce  application/pdf
// @Security BearerAuth
// @Param id path string true "ID договора"
// @Success 200 {file} file "PDF"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Договор не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка экспорта"
// @Router /contracts/{id}/pdf [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contracts.pdf"
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

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var buf bytes.Buffer
	filename, err := h.service.PDF(r.Context(), uid, id, &buf)
	if errors.Is(err, storage.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("contract not found"))
		return
	}
	if err != nil {
		log.Error("failed to export contract", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export document"))
		return
	}

	w.Header().Set("Content-Type", export.PDFContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write pdf", sl.Err(err))
	}
}
