package gateway

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/locale"
)

// Middleware returns the session consistency interceptor. Per request:
// bypass check, repair pass, cookie-header rewrite, refresh invocation,
// locale negotiation, then either a locale redirect or the downstream
// handler, with expiry directives attached to whichever response goes out.
// Nothing in this layer ever answers 5xx: if the interceptor itself fails,
// the original unmodified request proceeds downstream.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.bypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		req, redirect, ok := g.intercept(w, r)
		if !ok {
			// availability over session hygiene
			next.ServeHTTP(w, r)
			return
		}

		if redirect != "" {
			http.Redirect(w, req, redirect, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// intercept runs the repair pass, refresh invocation and locale negotiation.
// ok=false means the interceptor panicked and the caller must fall back to
// the original request.
func (g *Gateway) intercept(w http.ResponseWriter, r *http.Request) (req *http.Request, redirect string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.ErrorContext(r.Context(), "session gateway recovered, forwarding request untouched",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path),
			)
			req, redirect, ok = nil, "", false
		}
	}()

	result := g.pass.Run(g.store.ReadAll(r))

	// downstream handlers must never observe a pre-repair cookie set
	req = r.Clone(r.Context())
	req.Header.Del("Cookie")
	if h := cookiestore.Header(result.Sanitized); h != "" {
		req.Header.Set("Cookie", h)
	}

	refresh := g.invoker.Refresh(req.Context(), result.Sanitized)

	decision := g.locales.Negotiate(req)
	if g.localeExempted(req.URL.Path) {
		decision.RedirectPath = ""
	}

	ctx := locale.WithLocale(req.Context(), decision.Locale)
	req = req.WithContext(withRefresh(ctx, refresh))

	// expiry directives ride on whatever response goes out, redirects included
	g.store.WriteAll(w, result.Expiries)

	return req, decision.RedirectPath, true
}
