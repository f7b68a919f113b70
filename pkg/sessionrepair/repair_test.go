package sessionrepair_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessiongate/pkg/cookiecodec"
	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
	"github.com/dmitrymomot/sessiongate/pkg/sessionrepair"
)

func TestRunHealthy(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New())

	entries := []cookiestore.Entry{
		{Name: "theme", RawValue: "dark"},
		{Name: "sb-access-token", RawValue: "plain-token", AuthRelated: true},
	}

	res := pass.Run(entries)

	require.Len(t, res.Sanitized, 2)
	assert.Equal(t, cookiestore.Pair{Name: "theme", Value: "dark"}, res.Sanitized[0])
	assert.Equal(t, cookiestore.Pair{Name: "sb-access-token", Value: "plain-token"}, res.Sanitized[1])
	assert.Empty(t, res.Expiries)

	for _, o := range res.Outcomes {
		assert.Equal(t, sessionrepair.StatusHealthy, o.Status)
		assert.Empty(t, o.RepairedValue)
	}

	t.Run("idempotent on healthy input", func(t *testing.T) {
		again := pass.Run(entries)
		assert.Equal(t, res.Sanitized, again.Sanitized)
	})
}

func TestRunRepaired(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New())

	payload := `{"access_token":"eyJhbGciOiJIUzI1NiJ9.x.y"}`
	raw := "base64-" + base64.StdEncoding.EncodeToString([]byte(payload))

	res := pass.Run([]cookiestore.Entry{
		{Name: "sb-session", RawValue: raw, AuthRelated: true},
	})

	require.Len(t, res.Sanitized, 1)
	assert.Equal(t, payload, res.Sanitized[0].Value)
	assert.Empty(t, res.Expiries)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, sessionrepair.StatusRepaired, res.Outcomes[0].Status)
	assert.Equal(t, payload, res.Outcomes[0].RepairedValue)
}

func TestRunExpire(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New())

	res := pass.Run([]cookiestore.Entry{
		{Name: "sb-session", RawValue: "base64-%%%invalid%%%", AuthRelated: true},
	})

	assert.Empty(t, res.Sanitized)
	require.Len(t, res.Expiries, 1)
	assert.Equal(t, "sb-session", res.Expiries[0].Name)
	assert.Empty(t, res.Expiries[0].Value)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, sessionrepair.StatusExpire, res.Outcomes[0].Status)
	assert.Empty(t, res.Outcomes[0].RepairedValue)
}

// One corrupt cookie must not abort the pass or touch its neighbors.
func TestRunIsolation(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New())

	good := "base64-" + base64.StdEncoding.EncodeToString([]byte(`{"ok":true}`))
	res := pass.Run([]cookiestore.Entry{
		{Name: "healthy", RawValue: "untouched"},
		{Name: "broken", RawValue: "base64-!!!truncated"},
		{Name: "fixable", RawValue: good},
	})

	require.Len(t, res.Sanitized, 2)
	assert.Equal(t, "healthy", res.Sanitized[0].Name)
	assert.Equal(t, "untouched", res.Sanitized[0].Value)
	assert.Equal(t, "fixable", res.Sanitized[1].Name)
	assert.Equal(t, `{"ok":true}`, res.Sanitized[1].Value)

	require.Len(t, res.Expiries, 1)
	assert.Equal(t, "broken", res.Expiries[0].Name)
}

func TestRunExpireOptions(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New(),
		sessionrepair.WithExpireOptions(cookiestore.WithSecure(false)),
	)

	res := pass.Run([]cookiestore.Entry{
		{Name: "bad", RawValue: "base64url-###"},
	})

	require.Len(t, res.Expiries, 1)
	assert.False(t, res.Expiries[0].Options.Secure)
	assert.Equal(t, "/", res.Expiries[0].Options.Path)
}

func TestRunEmpty(t *testing.T) {
	pass := sessionrepair.New(cookiecodec.New())
	res := pass.Run(nil)
	assert.Empty(t, res.Sanitized)
	assert.Empty(t, res.Expiries)
	assert.Empty(t, res.Outcomes)
}
