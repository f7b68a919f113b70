package locale

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrNoSupportedLocales is returned when a negotiator is built without locales.
	ErrNoSupportedLocales = errors.New("locale.no_supported_locales")
	// ErrInvalidLocale is returned for locale codes that are not valid BCP 47 tags.
	ErrInvalidLocale = errors.New("locale.invalid_code")
	// ErrUnsupportedDefault is returned when the default is not in the supported set.
	ErrUnsupportedDefault = errors.New("locale.unsupported_default")
)

// Decision is the outcome of locale negotiation for one request. A non-empty
// RedirectPath means the path lacked a locale prefix and the client should be
// redirected there. The decision depends only on the path and headers, never
// on cookies: routing and auth are orthogonal.
type Decision struct {
	Locale       string
	RedirectPath string
}

// Negotiator resolves a request's locale from its path prefix, falling back
// to Accept-Language negotiation for prefixless paths.
type Negotiator struct {
	supported  []string
	defaultLoc string
	matcher    language.Matcher
}

// NewNegotiator builds a negotiator from supported locale codes and a
// default. The default must be one of the supported codes; it is also the
// matcher's fallback for unmatched Accept-Language headers.
func NewNegotiator(supported []string, defaultLocale string) (*Negotiator, error) {
	if len(supported) == 0 {
		return nil, ErrNoSupportedLocales
	}

	norm := make([]string, 0, len(supported))
	for _, s := range supported {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, err := language.Parse(s); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, s)
		}
		if !slices.Contains(norm, s) {
			norm = append(norm, s)
		}
	}
	if len(norm) == 0 {
		return nil, ErrNoSupportedLocales
	}

	defaultLocale = strings.ToLower(strings.TrimSpace(defaultLocale))
	if !slices.Contains(norm, defaultLocale) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDefault, defaultLocale)
	}

	// The matcher falls back to its first tag, so the default leads.
	ordered := make([]string, 0, len(norm))
	ordered = append(ordered, defaultLocale)
	for _, s := range norm {
		if s != defaultLocale {
			ordered = append(ordered, s)
		}
	}

	tags := make([]language.Tag, len(ordered))
	for i, s := range ordered {
		tags[i] = language.Make(s)
	}

	return &Negotiator{
		supported:  ordered,
		defaultLoc: defaultLocale,
		matcher:    language.NewMatcher(tags),
	}, nil
}

// Default returns the default locale code.
func (n *Negotiator) Default() string {
	return n.defaultLoc
}

// FromPath reports the locale prefix of p, if any, plus the remaining path.
func (n *Negotiator) FromPath(p string) (loc, rest string, ok bool) {
	seg, tail, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	seg = strings.ToLower(seg)
	if !slices.Contains(n.supported, seg) {
		return "", p, false
	}
	return seg, "/" + tail, true
}

// Negotiate decides the request's locale. A prefixed path resolves directly;
// a prefixless path is matched against Accept-Language and yields a redirect
// to the locale-prefixed equivalent.
func (n *Negotiator) Negotiate(r *http.Request) Decision {
	if loc, _, ok := n.FromPath(r.URL.Path); ok {
		return Decision{Locale: loc}
	}

	loc := n.match(r.Header.Get("Accept-Language"))

	p := r.URL.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	redirect := "/" + loc
	if p != "/" {
		redirect += p
	}
	if q := r.URL.RawQuery; q != "" {
		redirect += "?" + q
	}

	return Decision{Locale: loc, RedirectPath: redirect}
}

func (n *Negotiator) match(header string) string {
	if header == "" {
		return n.defaultLoc
	}
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return n.defaultLoc
	}
	_, idx, conf := n.matcher.Match(prefs...)
	if conf == language.No {
		return n.defaultLoc
	}
	return n.supported[idx]
}
