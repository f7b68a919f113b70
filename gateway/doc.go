// Package gateway implements the session consistency gateway: HTTP
// middleware that guarantees every request presents a well-formed, decodable
// session to downstream handlers.
//
// Per request the gateway runs a cookie repair pass (healthy values pass
// through, marker-corrupted values are decoded, undecodable values are
// expired on the response), rewrites the request's Cookie header to the
// sanitized set, asks the external auth provider to validate or refresh the
// session, and negotiates the path locale, issuing a locale redirect when
// the path carries no prefix. Expiry directives are attached to whatever
// response goes out, redirect or pass-through.
//
// Failure never propagates: a panic anywhere in the interceptor forwards the
// original request untouched, and a provider outage degrades the request to
// anonymous. A user with corrupted session cookies is at worst silently
// logged out, never shown an error page.
//
// The configured OAuth callback path bypasses cookie mutation entirely; that
// endpoint manages its own session exchange.
package gateway
