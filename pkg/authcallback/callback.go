// Package authcallback implements the authorization-code leg of the login
// flow: a state-planting entry handler and the callback that exchanges the
// code for a token and hands it to a SessionIssuer.
package authcallback

import (
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/sessiongate/pkg/logger"
)

// stateCookie carries the CSRF state between Begin and Handler. It is scoped
// to /auth so it never enters the session cookie namespace the middleware
// inspects.
const stateCookie = "auth-state"

// stateTTL bounds how long a pending authorization may take.
const stateTTL = 10 * 60

// SessionIssuer turns an exchanged token into session cookies on the
// response. Implementations decide the cookie layout; the handler only
// guarantees the token is valid when Issue is called.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, r *http.Request, token *oauth2.Token) error
}

// Begin starts the authorization-code flow: it plants the state cookie and
// redirects the client to the provider's consent page.
func Begin(cfg *oauth2.Config, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/auth",
			MaxAge:   stateTTL,
			Secure:   secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, cfg.AuthCodeURL(state), http.StatusFound)
	}
}

// Handler completes the flow. Every failure redirects to the root with an
// auth_error query parameter instead of surfacing a server error, so a stale
// or replayed callback degrades to an anonymous landing page.
func Handler(cfg *oauth2.Config, issuer SessionIssuer, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		clearState := &http.Cookie{
			Name:     stateCookie,
			Value:    "",
			Path:     "/auth",
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}

		fail := func(code string, err error) {
			log.WarnContext(r.Context(), "auth callback failed",
				slog.String("reason", code), logger.Error(err))
			http.SetCookie(w, clearState)
			http.Redirect(w, r, "/?auth_error="+url.QueryEscape(code), http.StatusFound)
		}

		cookie, err := r.Cookie(stateCookie)
		if err != nil {
			fail("missing_state", err)
			return
		}
		state := r.URL.Query().Get("state")
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
			fail("invalid_state", nil)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			fail("missing_code", nil)
			return
		}

		token, err := cfg.Exchange(r.Context(), code)
		if err != nil {
			fail("exchange_failed", err)
			return
		}

		if err := issuer.Issue(w, r, token); err != nil {
			fail("session_failed", err)
			return
		}
		http.SetCookie(w, clearState)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
