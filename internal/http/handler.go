package http

import (
	"context"
	"strings"
	"time"

	"github.com/FarhanHaider999/NextStay/internal/config"
	"github.com/FarhanHaider999/NextStay/internal/mail"
	"github.com/FarhanHaider999/NextStay/internal/oauth"
	"github.com/FarhanHaider999/NextStay/internal/queue"
	"github.com/FarhanHaider999/NextStay/internal/repo"
)

// Pinger is what Healthz needs from the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Store      repo.UserStore
	Health     Pinger
	JWTSecret  string
	SessionTTL time.Duration
	Google     *oauth.Google
	Events     queue.Publisher
	Mail       mail.Sender
	ClientURL  string
	AdminEmail string
}

func NewHandler(store repo.UserStore, cfg config.Config, g *oauth.Google, pub queue.Publisher, sender mail.Sender) *Handler {
	return &Handler{
		Store:      store,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: time.Duration(cfg.SessionTTLDays) * 24 * time.Hour,
		Google:     g,
		Events:     pub,
		Mail:       sender,
		ClientURL:  cfg.ClientURL,
		AdminEmail: cfg.AdminEmail,
	}
}

// normalizeEmail is applied before every comparison or store access.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
