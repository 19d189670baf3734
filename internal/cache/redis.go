// Package cache хранит профили пользователей и отозванные токены в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/contrato-facil/internal/config"
	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

const (
	profilePrefix = "profile:"
	revokedPrefix = "revoked:"
)

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db         *redis.Client
	profileTTL time.Duration
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db, profileTTL: cfg.ProfileTTL}, nil
}

// Close закрывает соединение.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Get читает JSON-значение по ключу. false означает промах.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	const op = "cache.Invalidate"
	if err := c.Db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Profile возвращает профиль из кэша; nil без ошибки означает промах.
func (c *Cache) Profile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var p models.UserProfile
	found, err := c.Get(ctx, profilePrefix+uid, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// StoreProfile кладёт профиль в кэш на ProfileTTL.
func (c *Cache) StoreProfile(ctx context.Context, p *models.UserProfile) error {
	return c.Set(ctx, profilePrefix+p.UID, p, c.profileTTL)
}

// InvalidateProfile удаляет профиль из кэша.
func (c *Cache) InvalidateProfile(ctx context.Context, uid string) error {
	return c.Invalidate(ctx, profilePrefix+uid)
}

// InvalidateProfiles удаляет из кэша все профили и возвращает число удалённых ключей.
func (c *Cache) InvalidateProfiles(ctx context.Context) (int64, error) {
	const op = "cache.InvalidateProfiles"
	var deleted int64
	iter := c.Db.Scan(ctx, 0, profilePrefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.Db.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += n
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("%s: %w", op, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("%s: %w", op, err)
	}
	return deleted, nil
}

// Revoke помечает идентификатор токена отозванным до истечения срока токена.
func (c *Cache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.Revoke"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (c *Cache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsRevoked"
	n, err := c.Db.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
