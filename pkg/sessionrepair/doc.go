// Package sessionrepair classifies and repairs a request's cookie set before
// it reaches session validation.
//
// Each cookie ends in exactly one of three terminal states: healthy (passed
// through unchanged), repaired (a corruption marker was stripped and the
// payload decoded) or expire (undecodable, dropped from the sanitized set
// and queued for client-side expiry). The resilience contract is isolation
// per entry: one bad cookie must not deny service to an otherwise valid
// session.
package sessionrepair
