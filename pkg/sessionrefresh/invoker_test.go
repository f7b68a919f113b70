package sessionrefresh_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/sessionrefresh"
)

// stubProvider records calls and plays back canned responses.
type stubProvider struct {
	identity *sessionrefresh.Identity
	err      error
	delay    time.Duration
	calls    int
}

func (s *stubProvider) ValidateOrRefresh(ctx context.Context, _ []cookiestore.Pair) (*sessionrefresh.Identity, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.identity, s.err
}

func sessionPairs(t *testing.T) []cookiestore.Pair {
	t.Helper()
	return []cookiestore.Pair{
		{Name: "sb-access-token", Value: `{"access_token":"` + testJWT(t, "user-1") + `"}`},
	}
}

func TestInvokerRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated", func(t *testing.T) {
		provider := &stubProvider{identity: &sessionrefresh.Identity{UserID: "user-1"}}
		invoker := sessionrefresh.NewInvoker(provider)

		res := invoker.Refresh(ctx, sessionPairs(t))
		assert.True(t, res.RefreshSucceeded)
		assert.Equal(t, "user-1", res.UserID)
		assert.True(t, res.Authenticated())
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("no active session is success", func(t *testing.T) {
		provider := &stubProvider{}
		invoker := sessionrefresh.NewInvoker(provider)

		res := invoker.Refresh(ctx, sessionPairs(t))
		assert.True(t, res.RefreshSucceeded)
		assert.Empty(t, res.UserID)
		assert.False(t, res.Authenticated())
	})

	t.Run("provider error degrades to unauthenticated", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("provider down")}
		invoker := sessionrefresh.NewInvoker(provider)

		res := invoker.Refresh(ctx, sessionPairs(t))
		assert.False(t, res.RefreshSucceeded)
		assert.Empty(t, res.UserID)
		assert.Contains(t, res.ErrorMessage, "provider down")
	})

	t.Run("timeout degrades to unauthenticated", func(t *testing.T) {
		provider := &stubProvider{
			identity: &sessionrefresh.Identity{UserID: "user-1"},
			delay:    time.Second,
		}
		invoker := sessionrefresh.NewInvoker(provider, sessionrefresh.WithTimeout(20*time.Millisecond))

		start := time.Now()
		res := invoker.Refresh(ctx, sessionPairs(t))
		require.Less(t, time.Since(start), 500*time.Millisecond)
		assert.False(t, res.RefreshSucceeded)
		assert.NotEmpty(t, res.ErrorMessage)
	})

	t.Run("anonymous fast path skips provider", func(t *testing.T) {
		provider := &stubProvider{}
		invoker := sessionrefresh.NewInvoker(provider)

		res := invoker.Refresh(ctx, []cookiestore.Pair{{Name: "theme", Value: "dark"}})
		assert.True(t, res.RefreshSucceeded)
		assert.Empty(t, res.UserID)
		assert.Zero(t, provider.calls)
	})

	t.Run("empty set skips provider", func(t *testing.T) {
		provider := &stubProvider{}
		invoker := sessionrefresh.NewInvoker(provider)

		res := invoker.Refresh(ctx, nil)
		assert.True(t, res.RefreshSucceeded)
		assert.Zero(t, provider.calls)
	})
}
