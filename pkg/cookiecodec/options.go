package cookiecodec

// Option configures a Codec.
type Option func(*Codec)

// WithMarker registers a corruption marker. Supplying any marker replaces
// the default table; empty prefixes and EncodingNone are ignored.
func WithMarker(prefix string, enc Encoding) Option {
	return func(c *Codec) {
		if prefix == "" || enc == EncodingNone {
			return
		}
		c.markers = append(c.markers, Marker{Prefix: prefix, Encoding: enc})
	}
}

// WithMarkers registers a full marker table at once.
func WithMarkers(markers ...Marker) Option {
	return func(c *Codec) {
		for _, m := range markers {
			if m.Prefix == "" || m.Encoding == EncodingNone {
				continue
			}
			c.markers = append(c.markers, m)
		}
	}
}
