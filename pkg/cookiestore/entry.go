package cookiestore

import (
	"net/url"
	"strings"
)

// Entry is one cookie as received on a request. RawValue is never mutated in
// place; repairs produce new values elsewhere.
type Entry struct {
	Name        string
	RawValue    string
	AuthRelated bool
}

// Pair is a (name, value) element of a sanitized cookie set.
type Pair struct {
	Name  string
	Value string
}

// Header serializes a sanitized set back into Cookie-header form. Values
// containing bytes that are not valid cookie octets (repaired JSON payloads,
// for example) are percent-encoded the way browser-side cookie writers do,
// so downstream cookie parsers do not silently drop them. Values that are
// already valid cookie octets pass through byte-identical.
func Header(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(sanitizeValue(p.Value))
	}
	return b.String()
}

func sanitizeValue(v string) string {
	for i := 0; i < len(v); i++ {
		if !validCookieValueByte(v[i]) {
			return url.QueryEscape(v)
		}
	}
	return v
}

// validCookieValueByte mirrors RFC 6265 cookie-octet: printable US-ASCII
// excluding DQUOTE, comma, semicolon and backslash.
func validCookieValueByte(b byte) bool {
	return 0x20 < b && b < 0x7f && b != '"' && b != ',' && b != ';' && b != '\\'
}
