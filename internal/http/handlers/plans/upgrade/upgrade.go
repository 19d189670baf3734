// Package upgrade реализует HTTP-обработчик смены тарифа. Запрос multipart:
// поле plan и необязательный файл proof с квитанцией об оплате.
package upgrade

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contrato-facil/internal/catalog"
	"github.com/magabrotheeeer/contrato-facil/internal/http/middlewarectx"
	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/billing"
	"github.com/magabrotheeeer/contrato-facil/internal/storage/objectstore"
)

// PaymentFailedMessage общее сообщение при сбое смены тарифа.
const PaymentFailedMessage = "Erro ao processar pagamento. Tente novamente."

const multipartMemory = 1 << 20

// Request поля формы.
type Request struct {
	Plan string `validate:"required,oneof=free premium gold"`
}

// Service описывает смену тарифа.
type Service interface {
	Upgrade(ctx context.Context, uid string, planID models.PlanType, proof *objectstore.Proof) (*models.UserProfile, models.Plan, error)
}

// Handler обрабатывает смену тарифа.
type Handler struct {
	log          *slog.Logger
	service      Service
	validate     *validator.Validate
	maxProofSize int64
}

// New создает Handler. maxProofSize ограничивает размер квитанции в байтах.
func New(log *slog.Logger, service Service, maxProofSize int64) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		validate:     validator.New(),
		maxProofSize: maxProofSize,
	}
}

// ServeHTTP godoc
// @Summary Сменить тариф
// @Description Загружает квитанцию об оплате, затем меняет тариф.
// @Tags Plans
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param plan formData string true "free, premium или gold"
// @Param proof formData file false "Квитанция об оплате"
// @Success 200 {object} response.Response "Тариф изменен"
// @Failure 403 {object} response.ErrorResponse "Тариф пока недоступен"
// @Failure 409 {object} response.ErrorResponse "Тариф уже выбран"
// @Failure 413 {object} response.ErrorResponse "Квитанция слишком большая"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка оплаты"
// @Router /plans/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.upgrade"
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

	if h.maxProofSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxProofSize+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("payment proof is too large"))
			return
		}
		log.Info("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart files", sl.Err(err))
		}
	}()

	req := Request{Plan: r.FormValue("plan")}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	proof, closeProof, err := readProof(r)
	if err != nil {
		log.Info("failed to read payment proof", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment proof"))
		return
	}
	defer closeProof()

	profile, plan, err := h.service.Upgrade(r.Context(), uid, models.PlanType(req.Plan), proof)
	switch {
	case errors.Is(err, billing.ErrPlanUnavailable):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(billing.UnavailableMessage))
		return
	case errors.Is(err, billing.ErrSamePlan):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("already on this plan"))
		return
	case errors.Is(err, billing.ErrProofTooLarge):
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error("payment proof is too large"))
		return
	case errors.Is(err, catalog.ErrNotFound):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown plan"))
		return
	case err != nil:
		log.Error("failed to upgrade plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(PaymentFailedMessage))
		return
	}

	log.Info("plan changed", slog.String("plan", string(plan.ID)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": billing.SuccessMessage(plan),
		"profile": profile,
	}))
}

func readProof(r *http.Request) (*objectstore.Proof, func(), error) {
	file, header, err := r.FormFile("proof")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &objectstore.Proof{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
