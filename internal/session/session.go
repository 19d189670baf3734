// Package session рассылает события входа и выхода пользователя подписанным обработчикам.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Kind тип события сессии.
type Kind int

// Типы событий.
const (
	SignedIn Kind = iota + 1
	SignedOut
)

func (k Kind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Event переход состояния сессии пользователя.
type Event struct {
	Kind        Kind
	UserUID     string
	Email       string
	DisplayName string
	TokenID     string
	ExpiresAt   time.Time
}

// Listener обработчик событий сессии.
type Listener interface {
	HandleSession(ctx context.Context, e Event) error
}

// ListenerFunc адаптер функции к Listener.
type ListenerFunc func(ctx context.Context, e Event) error

// HandleSession вызывает f.
func (f ListenerFunc) HandleSession(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Holder единая точка рассылки событий сессии.
type Holder struct {
	mu        sync.RWMutex
	listeners map[Kind][]Listener
}

// NewHolder создаёт Holder без подписчиков.
func NewHolder() *Holder {
	return &Holder{listeners: make(map[Kind][]Listener)}
}

// Subscribe подписывает l на события типа kind.
func (h *Holder) Subscribe(kind Kind, l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[kind] = append(h.listeners[kind], l)
}

// Publish вызывает подписчиков в порядке подписки. Ошибка подписчика не прерывает
// рассылку: все ошибки возвращаются вместе.
func (h *Holder) Publish(ctx context.Context, e Event) error {
	const op = "session.Publish"
	h.mu.RLock()
	listeners := append([]Listener(nil), h.listeners[e.Kind]...)
	h.mu.RUnlock()

	var errs []error
	for _, l := range listeners {
		if err := l.HandleSession(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %s: %w", op, e.Kind, err)
	}
	return nil
}
