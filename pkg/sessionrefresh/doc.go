// Package sessionrefresh asks the external auth provider to validate or
// refresh the session carried by a sanitized cookie set.
//
// The provider is an opaque network dependency behind the Provider
// interface; Client is its HTTP implementation. Invoker enforces the
// failure-tolerance contract: the call is bounded by a timeout, and every
// failure mode degrades to an unauthenticated Result instead of an error.
// No request is ever aborted because the auth provider was down.
package sessionrefresh
