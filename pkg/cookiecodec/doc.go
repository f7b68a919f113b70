// Package cookiecodec detects and reverses a known encoding corruption on
// HTTP cookie values.
//
// Certain auth client versions persist session cookies with a textual
// encoding marker ("base64-", "base64url-") prepended to the payload. Naive
// parsers then fail on the whole value. This package provides a pure codec
// that recognizes those markers and recovers the original payload.
//
// # Usage
//
//	codec := cookiecodec.New()
//
//	enc := codec.Detect(raw)
//	if enc != cookiecodec.EncodingNone {
//	    res := codec.AttemptDecode(raw, enc)
//	    if res.OK {
//	        // res.Value is the repaired payload
//	    }
//	}
//
// The marker table is configurable via WithMarker since the upstream root
// cause may change its format in future versions.
//
// Decoding never panics and never returns an error type; failure is a tagged
// result so callers decide what to do with undecodable values.
package cookiecodec
