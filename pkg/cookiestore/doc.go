// Package cookiestore abstracts cookie transport for the session gateway.
//
// The Store interface has exactly two operations: ReadAll turns a request's
// cookies into Entry values in transport order, WriteAll applies Mutation
// values to a response append-only. HTTPStore is the net/http adapter;
// framework-specific adapters can satisfy the same interface at the edge.
//
// Expire builds the discard mutation used when a corrupted cookie cannot be
// repaired: empty value, Expires at the Unix epoch, Path=/, SameSite=Lax and
// the Secure flag.
package cookiestore
