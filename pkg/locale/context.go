package locale

import "context"

type contextKey struct{}

// WithLocale stores the negotiated locale in the context.
func WithLocale(ctx context.Context, loc string) context.Context {
	return context.WithValue(ctx, contextKey{}, loc)
}

// FromContext returns the negotiated locale, or "" when none was set.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	loc, _ := ctx.Value(contextKey{}).(string)
	return loc
}
