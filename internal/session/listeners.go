package session

import (
	"context"
	"time"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

// ProfileEnsurer создаёт профиль, если его нет.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, uid, email, displayName string) (*models.UserProfile, error)
}

// ProfileInvalidator сбрасывает закэшированный профиль.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, uid string)
}

// TokenRevoker отзывает токен до истечения его срока.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// EnsureProfile обработчик SignedIn: гарантирует наличие профиля у вошедшего пользователя.
func EnsureProfile(profiles ProfileEnsurer) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) error {
		_, err := profiles.Ensure(ctx, e.UserUID, e.Email, e.DisplayName)
		return err
	})
}

// RevokeToken обработчик SignedOut: отзывает токен сессии.
func RevokeToken(revoker TokenRevoker, now func() time.Time) Listener {
	if now == nil {
		now = time.Now
	}
	return ListenerFunc(func(ctx context.Context, e Event) error {
		if e.TokenID == "" {
			return nil
		}
		return revoker.Revoke(ctx, e.TokenID, e.ExpiresAt.Sub(now()))
	})
}

// DropProfile обработчик SignedOut: удаляет профиль из кэша.
func DropProfile(profiles ProfileInvalidator) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) error {
		profiles.Invalidate(ctx, e.UserUID)
		return nil
	})
}
