package sessiontoken

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates a value that is not a parseable JWT.
var ErrMalformedToken = errors.New("sessiontoken.malformed")

// Claims is the subset of access-token claims the gateway inspects.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed. Tokens without an
// exp claim never report expired.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// sessionDocument is the provider's stored-session shape: the cookie payload
// is a JSON object whose access_token field carries the JWT.
type sessionDocument struct {
	AccessToken string `json:"access_token"`
}

// FromPayload extracts an access token from a session cookie payload.
// The payload is either the bare JWT or a JSON session document with an
// access_token field, possibly percent-encoded the way browser-side cookie
// writers store JSON values. Returns false for anything else.
func FromPayload(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", false
	}

	// %7B is an escaped "{": the document was percent-encoded for transport
	if strings.HasPrefix(payload, "%7B") || strings.HasPrefix(payload, "%7b") {
		if unescaped, err := url.QueryUnescape(payload); err == nil {
			payload = unescaped
		}
	}

	if strings.HasPrefix(payload, "{") {
		var doc sessionDocument
		if err := json.Unmarshal([]byte(payload), &doc); err != nil || doc.AccessToken == "" {
			return "", false
		}
		return doc.AccessToken, true
	}

	if strings.Count(payload, ".") == 2 {
		return payload, true
	}

	return "", false
}

// Peek reads claims without verifying the signature. Verification belongs to
// the auth provider; the gateway only needs the subject and expiry for its
// anonymous fast path and log fields.
func Peek(token string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &rc); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}

	claims := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, nil
}
