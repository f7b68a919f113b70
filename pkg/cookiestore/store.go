package cookiestore

import (
	"net/http"
	"strings"
)

// Store is the narrow transport contract: read every cookie on an inbound
// request and apply an ordered set of mutations to an outbound response.
// Implementations never read back what they wrote.
type Store interface {
	ReadAll(r *http.Request) []Entry
	WriteAll(w http.ResponseWriter, mutations []Mutation)
}

// defaultAuthPrefixes match the auth provider's cookie naming scheme.
var defaultAuthPrefixes = []string{"sb-"}

// HTTPStore implements Store over net/http request and response types.
type HTTPStore struct {
	authPrefixes []string
}

// NewHTTPStore creates a store. Without options, cookies whose names start
// with "sb-" are flagged auth-related.
func NewHTTPStore(opts ...StoreOption) *HTTPStore {
	s := &HTTPStore{}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.authPrefixes) == 0 {
		s.authPrefixes = defaultAuthPrefixes
	}
	return s
}

// StoreOption configures an HTTPStore.
type StoreOption func(*HTTPStore)

// WithAuthPrefixes sets the cookie-name prefixes treated as auth-related.
func WithAuthPrefixes(prefixes ...string) StoreOption {
	return func(s *HTTPStore) {
		for _, p := range prefixes {
			if p != "" {
				s.authPrefixes = append(s.authPrefixes, p)
			}
		}
	}
}

// ReadAll produces one Entry per request cookie, in transport order.
// Duplicate names are preserved as separate entries; last-one-wins semantics
// belong to the transport, not this adapter.
func (s *HTTPStore) ReadAll(r *http.Request) []Entry {
	cookies := r.Cookies()
	entries := make([]Entry, 0, len(cookies))
	for _, c := range cookies {
		entries = append(entries, Entry{
			Name:        c.Name,
			RawValue:    c.Value,
			AuthRelated: s.isAuthRelated(c.Name),
		})
	}
	return entries
}

// WriteAll applies mutations to the response in order, append-only.
func (s *HTTPStore) WriteAll(w http.ResponseWriter, mutations []Mutation) {
	for _, m := range mutations {
		http.SetCookie(w, &http.Cookie{
			Name:     m.Name,
			Value:    m.Value,
			Path:     m.Options.Path,
			Domain:   m.Options.Domain,
			MaxAge:   m.Options.MaxAge,
			Expires:  m.Options.Expires,
			Secure:   m.Options.Secure,
			HttpOnly: m.Options.HttpOnly,
			SameSite: m.Options.SameSite,
		})
	}
}

func (s *HTTPStore) isAuthRelated(name string) bool {
	for _, p := range s.authPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
