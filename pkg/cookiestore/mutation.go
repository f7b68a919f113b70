package cookiestore

import (
	"net/http"
	"time"
)

// Options are the Set-Cookie attributes carried by a Mutation.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option mutates Options.
type Option func(*Options)

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithSecure toggles the Secure flag.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithHTTPOnly toggles the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

// WithSameSite sets the SameSite mode.
func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

// Mutation is one cookie change to apply to a response: a value to set, or a
// discard when built by Expire.
type Mutation struct {
	Name    string
	Value   string
	Options Options
}

// Expire builds the discard mutation for a cookie: empty value, epoch
// expiry, path "/", SameSite=Lax and Secure. Options override the defaults
// (development environments drop Secure, for example).
func Expire(name string, opts ...Option) Mutation {
	options := Options{
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return Mutation{Name: name, Options: options}
}
