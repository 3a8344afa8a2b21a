package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FarhanHaider999/NextStay/internal/domain"
	"github.com/FarhanHaider999/NextStay/internal/oauth"
	"github.com/FarhanHaider999/NextStay/internal/repo"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

func linkEnv() (*Handler, *repo.Memory) {
	store := repo.NewMemory()
	return &Handler{Store: store, JWTSecret: "test-secret"}, store
}

func googleProfile() *oauth.Profile {
	return &oauth.Profile{
		Sub:     "google-sub-1",
		Email:   "Jane@Example.com",
		Name:    "Jane Doe",
		Picture: "https://img.example.com/jane.png",
	}
}

func TestResolveGoogleUser_CreatesNewAccount(t *testing.T) {
	ctx := context.Background()
	h, store := linkEnv()

	u, err := h.resolveGoogleUser(ctx, googleProfile())
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", u.Email)
	require.Equal(t, "google-sub-1", u.GoogleID)
	require.Equal(t, "Jane Doe", u.Name)
	require.Equal(t, "https://img.example.com/jane.png", u.Avatar)
	require.True(t, u.EmailVerified)
	require.Equal(t, domain.RoleTenant, u.Role)
	require.Empty(t, u.PasswordHash)

	saved, err := store.FindUserByGoogleID(ctx, "google-sub-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestResolveGoogleUser_SecondSignInReturnsSameAccount(t *testing.T) {
	ctx := context.Background()
	h, _ := linkEnv()

	first, err := h.resolveGoogleUser(ctx, googleProfile())
	require.NoError(t, err)

	// even a changed profile email must not matter once the sub is linked
	p := googleProfile()
	p.Email = "changed@example.com"
	second, err := h.resolveGoogleUser(ctx, p)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Email, second.Email)
}

func TestResolveGoogleUser_LinksExistingPasswordAccount(t *testing.T) {
	ctx := context.Background()
	h, store := linkEnv()

	hash, err := security.HashPassword("StrongP@ss1")
	require.NoError(t, err)
	existing := &domain.User{
		Name:         "Jane",
		Email:        "jane@example.com",
		PasswordHash: hash,
		Role:         domain.RoleManager,
	}
	require.NoError(t, store.CreateUser(ctx, existing))

	u, err := h.resolveGoogleUser(ctx, googleProfile())
	require.NoError(t, err)
	require.Equal(t, existing.ID, u.ID, "must link, not duplicate")
	require.Equal(t, "google-sub-1", u.GoogleID)
	require.True(t, u.EmailVerified)
	require.Equal(t, "https://img.example.com/jane.png", u.Avatar)
	require.Equal(t, domain.RoleManager, u.Role, "linking must not change the role")
	require.Equal(t, hash, u.PasswordHash, "linking must keep the local password")
}

func TestResolveGoogleUser_MissingEmail(t *testing.T) {
	ctx := context.Background()
	h, _ := linkEnv()

	p := googleProfile()
	p.Email = ""
	_, err := h.resolveGoogleUser(ctx, p)
	require.ErrorIs(t, err, errMissingProviderEmail)
}
