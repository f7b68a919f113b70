package gateway

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/sessiongate/pkg/cookiecodec"
	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/locale"
	"github.com/dmitrymomot/sessiongate/pkg/sessionrefresh"
	"github.com/dmitrymomot/sessiongate/pkg/sessionrepair"
)

// Gateway is the session consistency interceptor: every matched request is
// repaired, refreshed and locale-routed before any downstream handler runs.
// All collaborators are injected; the gateway holds no state between
// requests.
type Gateway struct {
	store        cookiestore.Store
	pass         *sessionrepair.Pass
	invoker      *sessionrefresh.Invoker
	locales      *locale.Negotiator
	bypassPaths  []string
	localeExempt []string
	log          *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithBypassPaths sets path prefixes excluded from cookie mutation entirely.
// The OAuth callback manages its own session exchange and must not have its
// cookies rewritten mid-flow. Defaults to "/auth/callback".
func WithBypassPaths(prefixes ...string) Option {
	return func(g *Gateway) {
		g.bypassPaths = nil
		for _, p := range prefixes {
			if p != "" {
				g.bypassPaths = append(g.bypassPaths, p)
			}
		}
	}
}

// WithLocaleExemptPaths sets path prefixes that still get the repair and
// refresh passes but are never redirected to a locale-prefixed path.
// Defaults to "/auth" and "/healthz".
func WithLocaleExemptPaths(prefixes ...string) Option {
	return func(g *Gateway) {
		g.localeExempt = nil
		for _, p := range prefixes {
			if p != "" {
				g.localeExempt = append(g.localeExempt, p)
			}
		}
	}
}

// WithLogger sets the gateway logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// New wires a gateway from its collaborators.
func New(store cookiestore.Store, pass *sessionrepair.Pass, invoker *sessionrefresh.Invoker, negotiator *locale.Negotiator, opts ...Option) *Gateway {
	g := &Gateway{
		store:        store,
		pass:         pass,
		invoker:      invoker,
		locales:      negotiator,
		bypassPaths:  []string{"/auth/callback"},
		localeExempt: []string{"/auth", "/healthz"},
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromConfig builds the full dependency graph from configuration: codec with
// the configured marker table, HTTP cookie store, repair pass, refresh
// invoker around the given provider and the locale negotiator.
func FromConfig(cfg Config, provider sessionrefresh.Provider, opts ...Option) (*Gateway, error) {
	codecOpts, err := cfg.codecOptions()
	if err != nil {
		return nil, err
	}
	codec := cookiecodec.New(codecOpts...)

	store := cookiestore.NewHTTPStore(cookiestore.WithAuthPrefixes(cfg.AuthCookiePrefixes...))

	negotiator, err := locale.NewNegotiator(cfg.SupportedLocales, cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}

	base := New(store, nil, nil, negotiator, opts...)

	var expireOpts []cookiestore.Option
	if !cfg.SecureCookies {
		expireOpts = append(expireOpts, cookiestore.WithSecure(false))
	}
	base.pass = sessionrepair.New(codec,
		sessionrepair.WithLogger(base.log),
		sessionrepair.WithExpireOptions(expireOpts...),
	)
	base.invoker = sessionrefresh.NewInvoker(provider,
		sessionrefresh.WithLogger(base.log),
		sessionrefresh.WithTimeout(cfg.RefreshTimeout),
	)

	if len(cfg.BypassPaths) > 0 {
		WithBypassPaths(cfg.BypassPaths...)(base)
	}
	if len(cfg.LocaleExemptPaths) > 0 {
		WithLocaleExemptPaths(cfg.LocaleExemptPaths...)(base)
	}
	// explicit options win over config values
	for _, opt := range opts {
		opt(base)
	}

	return base, nil
}

func (g *Gateway) bypassed(path string) bool {
	return hasPrefixIn(path, g.bypassPaths)
}

func (g *Gateway) localeExempted(path string) bool {
	return hasPrefixIn(path, g.localeExempt)
}

func hasPrefixIn(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
