package oauth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FarhanHaider999/NextStay/internal/oauth"
)

func TestStateRoundTrip(t *testing.T) {
	g := oauth.NewGoogle("client-id", "client-secret", "http://localhost:5000/cb", "state-secret")

	state := g.MakeState("nonce-123")
	require.True(t, g.VerifyState(state))
}

func TestStateTampered(t *testing.T) {
	g := oauth.NewGoogle("client-id", "client-secret", "http://localhost:5000/cb", "state-secret")

	state := g.MakeState("nonce-123")
	i := strings.IndexByte(state, '.')
	require.False(t, g.VerifyState("other-nonce"+state[i:]))
	require.False(t, g.VerifyState("no-signature"))
	require.False(t, g.VerifyState(""))
}

func TestStateDifferentKey(t *testing.T) {
	a := oauth.NewGoogle("id", "sec", "http://localhost/cb", "key-a")
	b := oauth.NewGoogle("id", "sec", "http://localhost/cb", "key-b")
	require.False(t, b.VerifyState(a.MakeState("nonce")))
}

func TestAuthURLCarriesState(t *testing.T) {
	g := oauth.NewGoogle("client-id", "client-secret", "http://localhost:5000/cb", "state-secret")
	u := g.AuthURL("the-state")
	require.Contains(t, u, "accounts.google.com")
	require.Contains(t, u, "state=the-state")
	require.Contains(t, u, "client_id=client-id")
}
