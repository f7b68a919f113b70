package cookiecodec

import (
	"errors"
	"fmt"
)

// ErrUnknownEncoding is returned by ParseEncoding for unrecognized names.
var ErrUnknownEncoding = errors.New("cookiecodec.unknown_encoding")

// ParseEncoding maps a configuration string to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "base64":
		return EncodingBase64, nil
	case "base64url":
		return EncodingBase64URL, nil
	default:
		return EncodingNone, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}
