// Command sessiongate runs the session consistency gateway as a standalone
// HTTP service: the repairing middleware in front of a small demo surface
// (login, callback, health, whoami).
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/sessiongate/gateway"
	"github.com/dmitrymomot/sessiongate/pkg/authcallback"
	"github.com/dmitrymomot/sessiongate/pkg/config"
	"github.com/dmitrymomot/sessiongate/pkg/httpserver"
	"github.com/dmitrymomot/sessiongate/pkg/locale"
	"github.com/dmitrymomot/sessiongate/pkg/logger"
	"github.com/dmitrymomot/sessiongate/pkg/requestid"
	"github.com/dmitrymomot/sessiongate/pkg/sessionrefresh"
)

type appConfig struct {
	Gateway  gateway.Config
	Provider sessionrefresh.Config
	OAuth    oauthSettings

	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json"`
	ConfigFile string `env:"SESSIONGATE_CONFIG"`
}

type oauthSettings struct {
	ClientID     string `env:"OAUTH_CLIENT_ID"`
	ClientSecret string `env:"OAUTH_CLIENT_SECRET"`
	AuthURL      string `env:"OAUTH_AUTH_URL"`
	TokenURL     string `env:"OAUTH_TOKEN_URL"`
	RedirectURL  string `env:"OAUTH_REDIRECT_URL"`
}

func (s oauthSettings) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  s.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.AuthURL,
			TokenURL: s.TokenURL,
		},
	}
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := logger.New(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithLevel(level),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
		logger.WithAttr(logger.Component("sessiongate")),
	)

	if cfg.ConfigFile != "" {
		if err := cfg.Gateway.ApplyFile(cfg.ConfigFile); err != nil {
			fatal(log, "load config file", err)
		}
	}

	provider, err := sessionrefresh.NewClient(cfg.Provider)
	if err != nil {
		fatal(log, "build auth provider client", err)
	}

	gw, err := gateway.FromConfig(cfg.Gateway, provider, gateway.WithLogger(log))
	if err != nil {
		fatal(log, "build gateway", err)
	}

	ctx := context.Background()
	oauthCfg := cfg.OAuth.oauth2Config()
	issuer := cookieIssuer{secure: cfg.Gateway.SecureCookies}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(gw.Middleware)

	r.Get("/auth/login", authcallback.Begin(oauthCfg, cfg.Gateway.SecureCookies))
	r.Get("/auth/callback", authcallback.Handler(oauthCfg, issuer, log))
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/{locale}/whoami", whoami)

	srv := httpserver.New(
		httpserver.WithAddr(cfg.HTTPAddr),
		httpserver.WithLogger(log),
	)
	if err := srv.Run(ctx, r); err != nil {
		fatal(log, "server stopped", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Error(err))
	os.Exit(1)
}

// whoami reports what the middleware established for this request. It is the
// smallest possible downstream consumer of the gateway's context values.
func whoami(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"locale":        locale.FromContext(r.Context()),
		"authenticated": false,
	}
	if res, ok := gateway.RefreshResult(r.Context()); ok {
		resp["refresh_succeeded"] = res.RefreshSucceeded
		if res.Authenticated() {
			resp["authenticated"] = true
			resp["user_id"] = res.UserID
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// sessionTTL is how long the issued session cookie lives. Refresh past the
// access token's own expiry is the auth provider's job, not the cookie's.
const sessionTTL = 30 * 24 * 60 * 60

// cookieIssuer writes the exchanged token as a single auth cookie. The value
// is a percent-encoded JSON document, the same shape the repair pass accepts
// as a healthy session payload.
type cookieIssuer struct {
	secure bool
}

func (ci cookieIssuer) Issue(w http.ResponseWriter, _ *http.Request, token *oauth2.Token) error {
	doc, err := json.Marshal(map[string]string{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "sb-session",
		Value:    url.QueryEscape(string(doc)),
		Path:     "/",
		MaxAge:   sessionTTL,
		Secure:   ci.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
