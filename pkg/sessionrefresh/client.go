package sessionrefresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/sessiontoken"
)

// maxResponseBody bounds how much of the provider response is read.
const maxResponseBody = 1 << 20

// Config holds the auth provider connection settings.
type Config struct {
	BaseURL string        `env:"AUTH_PROVIDER_URL,required" yaml:"base_url"`
	APIKey  string        `env:"AUTH_PROVIDER_KEY" yaml:"api_key"`
	Timeout time.Duration `env:"AUTH_REFRESH_TIMEOUT" envDefault:"3s" yaml:"timeout"`
}

// Client is the HTTP Provider implementation. It presents the sanitized
// cookie set to the provider's user endpoint and maps the response to the
// Provider contract.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a provider client from config.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ValidateOrRefresh calls GET {base}/auth/v1/user with the sanitized set in
// the Cookie header. 200 yields an identity, 401/403 means no active session
// (anonymous, not an error), anything else is a provider failure.
func (c *Client) ValidateOrRefresh(ctx context.Context, cookies []cookiestore.Pair) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, errors.Join(ErrProviderUnreachable, err)
	}

	if h := cookiestore.Header(cookies); h != "" {
		req.Header.Set("Cookie", h)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer := accessToken(cookies); bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var u userResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&u); err != nil {
			return nil, errors.Join(ErrInvalidResponse, err)
		}
		if u.ID == "" {
			return nil, nil
		}
		return &Identity{UserID: u.ID, Email: u.Email}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}

// accessToken finds the first cookie whose payload carries an access token.
func accessToken(cookies []cookiestore.Pair) string {
	for _, p := range cookies {
		if tok, ok := sessiontoken.FromPayload(p.Value); ok {
			return tok
		}
	}
	return ""
}
