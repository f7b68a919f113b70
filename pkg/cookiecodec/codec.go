package cookiecodec

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"
)

// Encoding identifies the transport encoding announced by a marker prefix
// on a cookie value.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingBase64
	EncodingBase64URL
)

// String returns the textual name used in configuration and logs.
func (e Encoding) String() string {
	switch e {
	case EncodingBase64:
		return "base64"
	case EncodingBase64URL:
		return "base64url"
	default:
		return "none"
	}
}

// Marker binds a textual prefix to the encoding it announces. A value like
// "base64-eyJ..." carries the marker "base64-" followed by the actual payload.
type Marker struct {
	Prefix   string
	Encoding Encoding
}

// DecodeResult is the outcome of a decode attempt. Failure is reported
// through OK, never as an error or a panic, so callers can make discard
// decisions deterministically.
type DecodeResult struct {
	OK      bool
	Value   string
	WasJSON bool
}

// Codec detects and reverses encoding-prefix corruption on cookie values.
// The marker table is configuration: the upstream defect that produces these
// prefixes may change format between library versions.
type Codec struct {
	markers []Marker
}

// New creates a codec. Without options the codec recognizes the two markers
// observed in the wild: "base64-" and "base64url-".
func New(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.markers) == 0 {
		c.markers = []Marker{
			{Prefix: "base64url-", Encoding: EncodingBase64URL},
			{Prefix: "base64-", Encoding: EncodingBase64},
		}
	}
	// Longest prefix wins so "base64url-" is never shadowed by "base64-".
	sort.SliceStable(c.markers, func(i, j int) bool {
		return len(c.markers[i].Prefix) > len(c.markers[j].Prefix)
	})
	return c
}

// Detect reports the encoding announced by a marker prefix on raw.
// Unrecognized values map to EncodingNone. Pure, never fails.
func (c *Codec) Detect(raw string) Encoding {
	for _, m := range c.markers {
		if strings.HasPrefix(raw, m.Prefix) {
			return m.Encoding
		}
	}
	return EncodingNone
}

// AttemptDecode strips the marker for enc and reverses the encoding:
// URL-safe alphabet is normalized back to the standard one, padding is
// restored, and the payload is base64-decoded. A decoded payload that parses
// as JSON is flagged WasJSON and preserved verbatim; a decoded plain string
// is still a valid repair. Any decode failure yields {OK: false}.
func (c *Codec) AttemptDecode(raw string, enc Encoding) DecodeResult {
	if enc == EncodingNone {
		return DecodeResult{OK: true, Value: raw}
	}

	payload := raw
	for _, m := range c.markers {
		if m.Encoding == enc && strings.HasPrefix(raw, m.Prefix) {
			payload = raw[len(m.Prefix):]
			break
		}
	}

	payload = strings.ReplaceAll(payload, "-", "+")
	payload = strings.ReplaceAll(payload, "_", "/")
	payload = strings.TrimRight(payload, "=")
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DecodeResult{}
	}
	if !isSessionText(decoded) {
		return DecodeResult{}
	}

	return DecodeResult{OK: true, Value: string(decoded), WasJSON: json.Valid(decoded)}
}

// isSessionText rejects payloads that could not have been a session value:
// invalid UTF-8 or raw control bytes mean the marker wrapped binary garbage.
func isSessionText(b []byte) bool {
	if len(b) == 0 || !utf8.Valid(b) {
		return false
	}
	for _, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}
