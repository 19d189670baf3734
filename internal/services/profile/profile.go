// Package profile читает и создаёт профили пользователей с кэшированием в Redis.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/contrato-facil/internal/lib/sl"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// DefaultDisplayName имя профиля, созданного без имени пользователя.
const DefaultDisplayName = "Novo Usuário"

// Repository хранилище профилей.
type Repository interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, p models.UserProfile) error
}

// Cache кэш профилей.
type Cache interface {
	Profile(ctx context.Context, uid string) (*models.UserProfile, error)
	StoreProfile(ctx context.Context, p *models.UserProfile) error
	InvalidateProfile(ctx context.Context, uid string) error
}

// Service сервис профилей. Ошибки кэша только логируются.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewService создает Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Get возвращает профиль. Отсутствующий профиль возвращается как storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	const op = "profile.Get"
	if p, err := s.cache.Profile(ctx, uid); err != nil {
		s.log.Warn("profile cache read failed", slog.String("uid", uid), sl.Err(err))
	} else if p != nil {
		return p, nil
	}

	p, err := s.repo.GetProfile(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.StoreProfile(ctx, p); err != nil {
		s.log.Warn("profile cache write failed", slog.String("uid", uid), sl.Err(err))
	}
	return p, nil
}

// Ensure возвращает профиль пользователя, создавая его на бесплатном тарифе, если профиля нет.
func (s *Service) Ensure(ctx context.Context, uid, email, displayName string) (*models.UserProfile, error) {
	const op = "profile.Ensure"
	p, err := s.Get(ctx, uid)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if displayName == "" {
		displayName = DefaultDisplayName
	}
	created := models.UserProfile{
		UID:                uid,
		Email:              email,
		DisplayName:        displayName,
		PlanType:           models.PlanFree,
		SubscriptionStatus: models.SubscriptionActive,
	}
	if err := s.repo.CreateProfile(ctx, created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile created", slog.String("uid", uid))
	return s.Get(ctx, uid)
}

// Invalidate удаляет профиль из кэша после изменения в хранилище.
func (s *Service) Invalidate(ctx context.Context, uid string) {
	if err := s.cache.InvalidateProfile(ctx, uid); err != nil {
		s.log.Warn("profile cache invalidation failed", slog.String("uid", uid), sl.Err(err))
	}
}
