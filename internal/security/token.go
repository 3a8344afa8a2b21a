package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure, or expiry in the past. Callers get no finer
// distinction.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	VerificationTTL = 24 * time.Hour
	ResetTTL        = time.Hour
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// MakeSession issues a signed session token for the given user.
func MakeSession(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// ParseSession verifies signature and expiry and returns the claims.
func ParseSession(secret, token string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// NewVerificationToken issues a 24h token carrying no user payload.
// It is stored on the user record and mailed as an email-ownership proof.
func NewVerificationToken(secret string) (string, error) {
	return makeOpaque(secret, VerificationTTL)
}

// NewResetToken issues a 1h token for the password-reset flow.
func NewResetToken(secret string) (string, error) {
	return makeOpaque(secret, ResetTTL)
}

// makeOpaque mints the token with a random jti so that tokens issued in
// the same second are still distinct across users.
func makeOpaque(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return t.SignedString([]byte(secret))
}

// CheckToken verifies a verification/reset token's signature and expiry.
func CheckToken(secret, token string) error {
	t, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !t.Valid {
		return ErrInvalidToken
	}
	return nil
}
