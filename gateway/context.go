package gateway

import (
	"context"

	"github.com/dmitrymomot/sessiongate/pkg/sessionrefresh"
)

type refreshKey struct{}

func withRefresh(ctx context.Context, res sessionrefresh.Result) context.Context {
	return context.WithValue(ctx, refreshKey{}, res)
}

// RefreshResult returns the request's refresh outcome, if the gateway ran.
func RefreshResult(ctx context.Context) (sessionrefresh.Result, bool) {
	res, ok := ctx.Value(refreshKey{}).(sessionrefresh.Result)
	return res, ok
}

// UserID returns the authenticated user ID, if any.
func UserID(ctx context.Context) (string, bool) {
	res, ok := RefreshResult(ctx)
	if !ok || !res.Authenticated() {
		return "", false
	}
	return res.UserID, true
}
