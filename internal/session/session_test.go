package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
)

type MockEnsurer struct {
	mock.Mock
}

func (m *MockEnsurer) Ensure(ctx context.Context, uid, email, displayName string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

type invalidatorStub struct {
	uids []string
}

func (s *invalidatorStub) Invalidate(_ context.Context, uid string) {
	s.uids = append(s.uids, uid)
}

func TestHolder_PublishOrderAndKinds(t *testing.T) {
	h := NewHolder()
	var calls []string
	record := func(name string) Listener {
		return ListenerFunc(func(_ context.Context, e Event) error {
			calls = append(calls, name+":"+e.Kind.String())
			return nil
		})
	}
	h.Subscribe(SignedIn, record("first"))
	h.Subscribe(SignedIn, record("second"))
	h.Subscribe(SignedOut, record("out"))

	require.NoError(t, h.Publish(context.Background(), Event{Kind: SignedIn, UserUID: "u1"}))
	require.NoError(t, h.Publish(context.Background(), Event{Kind: SignedOut, UserUID: "u1"}))

	assert.Equal(t, []string{"first:signed_in", "second:signed_in", "out:signed_out"}, calls)
}

func TestHolder_PublishCollectsErrors(t *testing.T) {
	h := NewHolder()
	errA, errB := errors.New("a failed"), errors.New("b failed")
	called := 0
	h.Subscribe(SignedOut, ListenerFunc(func(context.Context, Event) error { called++; return errA }))
	h.Subscribe(SignedOut, ListenerFunc(func(context.Context, Event) error { called++; return errB }))

	err := h.Publish(context.Background(), Event{Kind: SignedOut})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 2, called)
}

func TestHolder_NoListeners(t *testing.T) {
	assert.NoError(t, NewHolder().Publish(context.Background(), Event{Kind: SignedIn}))
}

func TestEnsureProfile(t *testing.T) {
	ensurer := new(MockEnsurer)
	ensurer.On("Ensure", mock.Anything, "u1", "ana@example.com", "Ana").
		Return(&models.UserProfile{UID: "u1"}, nil).Once()

	err := EnsureProfile(ensurer).HandleSession(context.Background(), Event{
		Kind: SignedIn, UserUID: "u1", Email: "ana@example.com", DisplayName: "Ana",
	})
	require.NoError(t, err)
	ensurer.AssertExpectations(t)
}

func TestRevokeToken(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("revokes for remaining lifetime", func(t *testing.T) {
		revoker := new(MockRevoker)
		revoker.On("Revoke", mock.Anything, "jti-1", 30*time.Minute).Return(nil).Once()

		err := RevokeToken(revoker, clock).HandleSession(context.Background(), Event{
			Kind: SignedOut, TokenID: "jti-1", ExpiresAt: now.Add(30 * time.Minute),
		})
		require.NoError(t, err)
		revoker.AssertExpectations(t)
	})

	t.Run("no token id", func(t *testing.T) {
		revoker := new(MockRevoker)
		err := RevokeToken(revoker, clock).HandleSession(context.Background(), Event{Kind: SignedOut})
		require.NoError(t, err)
		revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDropProfile(t *testing.T) {
	inv := &invalidatorStub{}
	require.NoError(t, DropProfile(inv).HandleSession(context.Background(), Event{Kind: SignedOut, UserUID: "u1"}))
	assert.Equal(t, []string{"u1"}, inv.uids)
}
