package authcallback_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/sessiongate/pkg/authcallback"
)

type fakeIssuer struct {
	called bool
	token  *oauth2.Token
	err    error
}

func (f *fakeIssuer) Issue(w http.ResponseWriter, _ *http.Request, token *oauth2.Token) error {
	f.called = true
	f.token = token
	if f.err != nil {
		return f.err
	}
	http.SetCookie(w, &http.Cookie{Name: "sb-session", Value: "issued", Path: "/"})
	return nil
}

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-abc","token_type":"bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://gateway.test/auth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://provider.test/authorize",
			TokenURL: tokenURL,
		},
	}
}

func TestBegin(t *testing.T) {
	cfg := oauthConfig("http://provider.test/token")
	rec := httptest.NewRecorder()
	authcallback.Begin(cfg, true)(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	require.Equal(t, http.StatusFound, rec.Code)

	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth-state" {
			state = c
		}
	}
	require.NotNil(t, state, "state cookie must be set")
	assert.NotEmpty(t, state.Value)
	assert.Equal(t, "/auth", state.Path)
	assert.True(t, state.HttpOnly)
	assert.True(t, state.Secure)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "provider.test", loc.Host)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
	assert.Equal(t, "client", loc.Query().Get("client_id"))
}

func TestHandler(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("exchanges code and issues session", func(t *testing.T) {
		cfg := oauthConfig(tokenServer(t).URL)
		issuer := &fakeIssuer{}

		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good&state=st-1", nil)
		req.AddCookie(&http.Cookie{Name: "auth-state", Value: "st-1"})
		rec := httptest.NewRecorder()
		authcallback.Handler(cfg, issuer, discard)(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		require.True(t, issuer.called)
		assert.Equal(t, "tok-abc", issuer.token.AccessToken)

		cleared := false
		for _, c := range rec.Result().Cookies() {
			if c.Name == "auth-state" && c.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared, "state cookie must be expired after use")
	})

	t.Run("rejects mismatched state", func(t *testing.T) {
		cfg := oauthConfig("http://provider.test/token")
		issuer := &fakeIssuer{}

		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good&state=forged", nil)
		req.AddCookie(&http.Cookie{Name: "auth-state", Value: "st-1"})
		rec := httptest.NewRecorder()
		authcallback.Handler(cfg, issuer, discard)(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?auth_error=invalid_state", rec.Header().Get("Location"))
		assert.False(t, issuer.called)
	})

	t.Run("rejects missing state cookie", func(t *testing.T) {
		cfg := oauthConfig("http://provider.test/token")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good&state=st-1", nil)
		authcallback.Handler(cfg, &fakeIssuer{}, discard)(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?auth_error=missing_state", rec.Header().Get("Location"))
	})

	t.Run("degrades when exchange fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		}))
		t.Cleanup(srv.Close)
		cfg := oauthConfig(srv.URL)

		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=stale&state=st-1", nil)
		req.AddCookie(&http.Cookie{Name: "auth-state", Value: "st-1"})
		rec := httptest.NewRecorder()
		authcallback.Handler(cfg, &fakeIssuer{}, discard)(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?auth_error=exchange_failed", rec.Header().Get("Location"))
	})

	t.Run("degrades when issuer fails", func(t *testing.T) {
		cfg := oauthConfig(tokenServer(t).URL)
		issuer := &fakeIssuer{err: errors.New("cookie jar full")}

		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=good&state=st-1", nil)
		req.AddCookie(&http.Cookie{Name: "auth-state", Value: "st-1"})
		rec := httptest.NewRecorder()
		authcallback.Handler(cfg, issuer, discard)(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?auth_error=session_failed", rec.Header().Get("Location"))
	})
}
