package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FarhanHaider999/NextStay/internal/security"
)

const secret = "test-signing-secret"

func TestSessionRoundTrip(t *testing.T) {
	tok, err := security.MakeSession(secret, "64f000000000000000000001", "john@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := security.ParseSession(secret, tok)
	require.NoError(t, err)
	require.Equal(t, "64f000000000000000000001", claims.UserID)
	require.Equal(t, "john@example.com", claims.Email)
}

func TestSessionExpired(t *testing.T) {
	tok, err := security.MakeSession(secret, "u1", "u@example.com", 0)
	require.NoError(t, err)

	_, err = security.ParseSession(secret, tok)
	require.ErrorIs(t, err, security.ErrInvalidToken)

	tok, err = security.MakeSession(secret, "u1", "u@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = security.ParseSession(secret, tok)
	require.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestSessionWrongSecret(t *testing.T) {
	tok, err := security.MakeSession("other-secret", "u1", "u@example.com", time.Hour)
	require.NoError(t, err)

	_, err = security.ParseSession(secret, tok)
	require.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestSessionMalformed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := security.ParseSession(secret, tok)
		require.ErrorIs(t, err, security.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerificationAndResetTokens(t *testing.T) {
	vt, err := security.NewVerificationToken(secret)
	require.NoError(t, err)
	require.NoError(t, security.CheckToken(secret, vt))

	rt, err := security.NewResetToken(secret)
	require.NoError(t, err)
	require.NoError(t, security.CheckToken(secret, rt))
	require.NotEqual(t, vt, rt)

	require.ErrorIs(t, security.CheckToken("wrong", vt), security.ErrInvalidToken)
	require.ErrorIs(t, security.CheckToken(secret, "junk"), security.ErrInvalidToken)
}

func TestOpaqueTokensAreUnique(t *testing.T) {
	// tokens minted back to back (same second) must never collide, or a
	// reset token requested by one user could match another user's record
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		vt, err := security.NewVerificationToken(secret)
		require.NoError(t, err)
		rt, err := security.NewResetToken(secret)
		require.NoError(t, err)
		require.False(t, seen[vt], "verification token repeated")
		require.False(t, seen[rt], "reset token repeated")
		seen[vt], seen[rt] = true, true
	}
}

func TestOpaqueTokenIsNotASession(t *testing.T) {
	// verification tokens carry no user payload, so they must not pass
	// as session tokens
	vt, err := security.NewVerificationToken(secret)
	require.NoError(t, err)
	_, err = security.ParseSession(secret, vt)
	require.ErrorIs(t, err, security.ErrInvalidToken)
}
