package sessionrefresh

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/sessiontoken"
)

const defaultTimeout = 3 * time.Second

// Result is the per-request refresh outcome. When RefreshSucceeded is false
// UserID is always empty: the request continues unauthenticated instead of
// failing. Results are never cached across requests.
type Result struct {
	UserID           string
	RefreshSucceeded bool
	ErrorMessage     string
}

// Authenticated reports whether the refresh produced a user identity.
func (r Result) Authenticated() bool {
	return r.RefreshSucceeded && r.UserID != ""
}

// Invoker wraps a Provider with the timeout and degradation contract: the
// provider call is bounded, and any failure becomes an unauthenticated
// result rather than an error.
type Invoker struct {
	provider Provider
	timeout  time.Duration
	log      *slog.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithTimeout bounds the provider call. Non-positive values keep the default.
func WithTimeout(d time.Duration) InvokerOption {
	return func(i *Invoker) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithLogger sets the invoker's logger.
func WithLogger(log *slog.Logger) InvokerOption {
	return func(i *Invoker) {
		if log != nil {
			i.log = log
		}
	}
}

// NewInvoker creates an invoker around the given provider.
func NewInvoker(provider Provider, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		provider: provider,
		timeout:  defaultTimeout,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Refresh asks the provider to validate or refresh the session carried by
// the sanitized set. It never returns an error: provider failure or timeout
// degrades to RefreshSucceeded=false and the request proceeds anonymous.
// A set with no session material short-circuits to anonymous success
// without a provider call.
func (i *Invoker) Refresh(ctx context.Context, sanitized []cookiestore.Pair) Result {
	token, ok := sessionMaterial(sanitized)
	if !ok {
		return Result{RefreshSucceeded: true}
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	identity, err := i.provider.ValidateOrRefresh(ctx, sanitized)
	if err != nil {
		attrs := []any{slog.Any("error", err)}
		if claims, perr := sessiontoken.Peek(token); perr == nil && claims.Subject != "" {
			attrs = append(attrs, slog.String("subject", claims.Subject))
		}
		i.log.WarnContext(ctx, "session refresh failed, continuing unauthenticated", attrs...)
		return Result{RefreshSucceeded: false, ErrorMessage: err.Error()}
	}

	if identity == nil {
		return Result{RefreshSucceeded: true}
	}
	return Result{UserID: identity.UserID, RefreshSucceeded: true}
}

// sessionMaterial reports whether any pair in the set carries an access
// token worth presenting to the provider.
func sessionMaterial(pairs []cookiestore.Pair) (string, bool) {
	for _, p := range pairs {
		if tok, ok := sessiontoken.FromPayload(p.Value); ok {
			return tok, true
		}
	}
	return "", false
}
