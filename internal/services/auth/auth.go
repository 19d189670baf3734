// Package auth регистрирует пользователей, выполняет вход и выход и проверяет токены сессии.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/contrato-facil/internal/lib/jwt"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/password"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/metrics"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/session"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// Сообщения для пользователя.
const (
	ConfirmationRequiredMessage = "Conta criada com sucesso! Por favor, verifique seu email para confirmar o cadastro antes de entrar."
	EmailConfirmedMessage       = "Email confirmado com sucesso! Já pode entrar."
)

var (
	// ErrInvalidCredentials неверный e-mail или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotConfirmed вход до подтверждения e-mail.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	// ErrConfirmationRequired учётная запись создана, но до входа нужно подтвердить e-mail.
	ErrConfirmationRequired = errors.New("email confirmation required")
	// ErrInvalidConfirmationToken токен подтверждения неизвестен или уже использован.
	ErrInvalidConfirmationToken = errors.New("invalid confirmation token")
	// ErrNoSession токен отсутствует, недействителен или отозван.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidEmail e-mail не похож на адрес.
	ErrInvalidEmail = errors.New("invalid email")
)

// UserRepository хранилище учётных записей.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
}

// Profiles источник профилей.
type Profiles interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Ensure(ctx context.Context, uid, email, displayName string) (*models.UserProfile, error)
}

// RevocationChecker проверяет отзыв токенов.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Publisher публикует сообщения в очередь уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Events рассылает события сессии.
type Events interface {
	Publish(ctx context.Context, e session.Event) error
}

// Options поведение регистрации.
type Options struct {
	RequireEmailConfirmation bool
}

// Service сервис аутентификации.
type Service struct {
	users     UserRepository
	profiles  Profiles
	tokens    jwt.Maker
	revoked   RevocationChecker
	publisher Publisher
	events    Events
	opts      Options
	log       *slog.Logger
}

// NewService создает Service.
func NewService(users UserRepository, profiles Profiles, tokens jwt.Maker, revoked RevocationChecker,
	publisher Publisher, events Events, opts Options, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		profiles:  profiles,
		tokens:    tokens,
		revoked:   revoked,
		publisher: publisher,
		events:    events,
		opts:      opts,
		log:       log,
	}
}

// Register создаёт учётную запись и профиль на бесплатном тарифе. Если требуется
// подтверждение e-mail, в очередь уходит письмо и возвращается ErrConfirmationRequired;
// иначе пользователь сразу входит и получает токен.
func (s *Service) Register(ctx context.Context, email, rawPassword, displayName string) (*models.UserProfile, string, error) {
	const op = "auth.Register"
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	displayName = strings.TrimSpace(displayName)

	user := models.User{
		Email:          email,
		PasswordHash:   hashed,
		EmailConfirmed: !s.opts.RequireEmailConfirmation,
	}
	if s.opts.RequireEmailConfirmation {
		user.ConfirmationToken = uuid.NewString()
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if errors.Is(err, storage.ErrEmailTaken) && s.opts.RequireEmailConfirmation {
		uid, user.ConfirmationToken, err = s.pendingConfirmation(ctx, email, rawPassword)
	}
	if err != nil {
		metrics.AuthEvents.WithLabelValues("register", metrics.ResultError).Inc()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.profiles.Ensure(ctx, uid, email, displayName)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if s.opts.RequireEmailConfirmation {
		msg := models.ConfirmationMessage{Email: email, DisplayName: displayName, Token: user.ConfirmationToken}
		if err := s.publisher.Publish(ctx, rabbitmq.ConfirmationRoutingKey, msg); err != nil {
			s.log.Error("failed to publish confirmation message", slog.String("uid", uid), sl.Err(err))
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		metrics.AuthEvents.WithLabelValues("register", "confirmation_pending").Inc()
		return nil, "", fmt.Errorf("%s: %w", op, ErrConfirmationRequired)
	}

	token, err := s.signIn(ctx, uid, email, displayName)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.AuthEvents.WithLabelValues("register", metrics.ResultOK).Inc()
	return profile, token, nil
}

// pendingConfirmation возвращает UID и токен неподтверждённой учётной записи, чтобы
// повторная регистрация с тем же паролем заново отправила письмо. Иначе ErrEmailTaken.
func (s *Service) pendingConfirmation(ctx context.Context, email, rawPassword string) (string, string, error) {
	const op = "auth.pendingConfirmation"
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if existing.EmailConfirmed || existing.ConfirmationToken == "" {
		return "", "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}
	if err := password.CompareHash(existing.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}
	s.log.Info("resending confirmation for pending account", slog.String("uid", existing.UID))
	return existing.UID, existing.ConfirmationToken, nil
}

// Login проверяет пароль и возвращает профиль и токен сессии.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.UserProfile, string, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		metrics.AuthEvents.WithLabelValues("login", metrics.ResultBlocked).Inc()
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		metrics.AuthEvents.WithLabelValues("login", metrics.ResultBlocked).Inc()
		if errors.Is(err, password.ErrMismatch) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.EmailConfirmed {
		return nil, "", fmt.Errorf("%s: %w", op, ErrEmailNotConfirmed)
	}

	token, err := s.signIn(ctx, user.UID, user.Email, "")
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	profile, err := s.profiles.Get(ctx, user.UID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.AuthEvents.WithLabelValues("login", metrics.ResultOK).Inc()
	return profile, token, nil
}

func (s *Service) signIn(ctx context.Context, uid, email, displayName string) (string, error) {
	token, err := s.tokens.GenerateToken(uid, email)
	if err != nil {
		return "", err
	}
	err = s.events.Publish(ctx, session.Event{
		Kind:        session.SignedIn,
		UserUID:     uid,
		Email:       email,
		DisplayName: displayName,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout отзывает токен сессии.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	err = s.events.Publish(ctx, session.Event{
		Kind:      session.SignedOut,
		UserUID:   claims.UserUID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: expires,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.AuthEvents.WithLabelValues("logout", metrics.ResultOK).Inc()
	return nil
}

// Authenticate проверяет подпись, срок и отзыв токена.
func (s *Service) Authenticate(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "auth.Authenticate"
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	return claims, nil
}

// CurrentSession возвращает профиль владельца токена или ErrNoSession.
func (s *Service) CurrentSession(ctx context.Context, token string) (*models.UserProfile, error) {
	const op = "auth.CurrentSession"
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile, err := s.profiles.Get(ctx, claims.UserUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// ConfirmEmail подтверждает e-mail по токену из письма.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	const op = "auth.ConfirmEmail"
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidConfirmationToken)
	}
	uid, err := s.users.ConfirmEmail(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrInvalidConfirmationToken)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("email confirmed", slog.String("uid", uid))
	metrics.AuthEvents.WithLabelValues("confirm", metrics.ResultOK).Inc()
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
