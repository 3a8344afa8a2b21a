package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"
)

// Google is an explicit OAuth client for the Google sign-in flow. It holds
// its own configuration rather than registering with a framework-global
// strategy registry.
type Google struct {
	cfg      *oauth2.Config
	stateKey []byte
}

func NewGoogle(clientID, clientSecret, redirectURL, stateSecret string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     ggoogle.Endpoint,
		},
		stateKey: []byte(stateSecret),
	}
}

// MakeState signs raw with HMAC-SHA256 so the callback can detect CSRF.
func (g *Google) MakeState(raw string) string {
	mac := hmac.New(sha256.New, g.stateKey)
	mac.Write([]byte(raw))
	return raw + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (g *Google) VerifyState(got string) bool {
	i := strings.IndexByte(got, '.')
	if i < 0 {
		return false
	}
	sig, err := base64.RawURLEncoding.DecodeString(got[i+1:])
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, g.stateKey)
	mac.Write([]byte(got[:i]))
	return hmac.Equal(mac.Sum(nil), sig)
}

func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Profile is the identity Google asserts in the id_token. Accounts linked
// through it are marked verified regardless of the provider's own
// email_verified claim, so that claim is not carried here.
type Profile struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// ExchangeAndVerify trades the authorization code for tokens and extracts
// the profile from the id_token. The token arrived over TLS directly from
// Google's token endpoint, so only the iss/aud claims are checked here
// rather than the JWS signature.
func (g *Google) ExchangeAndVerify(ctx context.Context, code string) (*Profile, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("no id_token in token response")
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(rawIDToken, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	iss, _ := claims["iss"].(string)
	aud, _ := claims["aud"].(string)
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	if iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, errors.New("unexpected id_token issuer")
	}
	if aud != g.cfg.ClientID {
		return nil, errors.New("id_token audience mismatch")
	}
	if sub == "" {
		return nil, errors.New("id_token missing sub")
	}

	return &Profile{
		Sub:     sub,
		Email:   email,
		Name:    name,
		Picture: picture,
	}, nil
}
