package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FarhanHaider999/NextStay/internal/domain"
	"github.com/FarhanHaider999/NextStay/internal/log"
	"github.com/FarhanHaider999/NextStay/internal/oauth"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

var errMissingProviderEmail = errors.New("google profile has no email")

// GoogleStart godoc
// @Summary Begin Google sign-in
// @Tags auth
// @Success 302
// @Router /api/auth/google [get]
func (h *Handler) GoogleStart(c *gin.Context) {
	state := h.Google.MakeState(uuid.NewString())
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

// GoogleCallback completes the OAuth flow. The caller is a browser
// mid-redirect, so every failure becomes a redirect to the client's
// signin page rather than a JSON error.
//
// GoogleCallback godoc
// @Summary Google OAuth callback
// @Tags auth
// @Success 302
// @Router /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	fail := func(reason string, err error) {
		log.L().Warn("google oauth failed", zap.String("reason", reason), zap.Error(err))
		c.Redirect(http.StatusFound, h.ClientURL+"/auth/signin?error=google_auth_failed")
	}

	code := c.Query("code")
	if code == "" {
		fail("missing code", nil)
		return
	}
	if !h.Google.VerifyState(c.Query("state")) {
		fail("bad state", nil)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Google.ExchangeAndVerify(ctx, code)
	if err != nil {
		fail("exchange", err)
		return
	}

	u, err := h.resolveGoogleUser(ctx, profile)
	if err != nil {
		fail("resolve user", err)
		return
	}

	token, err := security.MakeSession(h.JWTSecret, u.ID.Hex(), u.Email, h.SessionTTL)
	if err != nil {
		fail("token", err)
		return
	}

	c.Redirect(http.StatusFound, h.ClientURL+"/auth/callback?token="+url.QueryEscape(token)+"&success=true")
}

// resolveGoogleUser finds or creates the local account for a Google
// profile. Steps short-circuit in order:
//  1. already linked by google id → return unchanged
//  2. no email in the profile → fail
//  3. email matches an existing account → link, set avatar, mark verified
//  4. otherwise create a fresh account with the default role
//
// Step 3 trusts Google's ownership of the email: a password account is
// silently merged with the provider identity.
func (h *Handler) resolveGoogleUser(ctx context.Context, p *oauth.Profile) (*domain.User, error) {
	u, err := h.Store.FindUserByGoogleID(ctx, p.Sub)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	if p.Email == "" {
		return nil, errMissingProviderEmail
	}
	email := normalizeEmail(p.Email)

	u, err = h.Store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		u.GoogleID = p.Sub
		if p.Picture != "" {
			u.Avatar = p.Picture
		}
		u.EmailVerified = true
		if err := h.Store.SaveUser(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}

	nu := &domain.User{
		Name:          p.Name,
		Email:         email,
		GoogleID:      p.Sub,
		Avatar:        p.Picture,
		EmailVerified: true,
		Role:          domain.RoleTenant,
	}
	if err := h.Store.CreateUser(ctx, nu); err != nil {
		return nil, err
	}
	return nu, nil
}
