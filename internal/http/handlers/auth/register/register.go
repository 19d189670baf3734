// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Если требуется подтверждение e-mail, ответ 202 Accepted с сообщением об успехе:
// учётная запись создана, но войти можно только после подтверждения.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contrato-facil/internal/http/response"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/services/auth"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// ConfirmationPendingMessage ответ на регистрацию, ожидающую подтверждения e-mail.
const ConfirmationPendingMessage = "Conta criada com sucesso! Por favor, verifique seu email para confirmar o cadastro antes de entrar."

// Request — входные данные регистрации.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*models.UserProfile, string, error)
}

// Handler обрабатывает запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создает учетную запись и профиль на бесплатном тарифе.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.Response "Пользователь создан, выдан токен"
// @Success 202 {object} response.Response "Требуется подтверждение e-mail"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "E-mail уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	profile, token, err := h.service.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, auth.ErrConfirmationRequired):
		log.Info("registration pending email confirmation")
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message": ConfirmationPendingMessage,
		}))
		return
	case errors.Is(err, storage.ErrEmailTaken):
		log.Info("email already registered")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("email already registered"))
		return
	case errors.Is(err, auth.ErrInvalidEmail):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid email"))
		return
	case err != nil:
		log.Error("failed to register user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("uid", profile.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":   token,
		"profile": profile,
	}))
}
