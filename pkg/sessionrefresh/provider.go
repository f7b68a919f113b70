package sessionrefresh

import (
	"context"

	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
)

// Identity is the authenticated principal reported by the auth provider.
type Identity struct {
	UserID string
	Email  string
}

// Provider validates or refreshes a session from a sanitized cookie set.
// Returning (nil, nil) means no active session: an anonymous request is
// success, not a failure.
type Provider interface {
	ValidateOrRefresh(ctx context.Context, cookies []cookiestore.Pair) (*Identity, error)
}
