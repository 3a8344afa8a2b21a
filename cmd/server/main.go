package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FarhanHaider999/NextStay/internal/config"
	api "github.com/FarhanHaider999/NextStay/internal/http"
	"github.com/FarhanHaider999/NextStay/internal/log"
	"github.com/FarhanHaider999/NextStay/internal/mail"
	"github.com/FarhanHaider999/NextStay/internal/metrics"
	"github.com/FarhanHaider999/NextStay/internal/oauth"
	"github.com/FarhanHaider999/NextStay/internal/queue"
	"github.com/FarhanHaider999/NextStay/internal/repo"
)

// @title NextStay Auth API
// @version 1.0
// @description Authentication service for the NextStay rental-listing application.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	if _, err := log.Init(cfg.Production()); err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.L().Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureUserIndexes(ctx); err != nil {
		log.L().Fatal("user indexes", zap.Error(err))
	}

	var pub queue.Publisher
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.L().Fatal("rabbit connect", zap.Error(err))
		}
	} else {
		log.L().Warn("RABBIT_URL not set, events disabled")
		pub = queue.NewNoop()
	}
	defer pub.Close()

	var sender mail.Sender
	if cfg.MailConfigured() {
		sender = mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.ClientURL)
	} else {
		// Validate already rejected this in production
		log.L().Warn("mail transport not configured, logging emails instead")
		sender = mail.LogSender{}
	}

	google := oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL, cfg.JWTSecret)

	h := api.NewHandler(store, cfg, google, pub, sender)
	h.Health = store
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	log.L().Info("auth service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.L().Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		log.L().Error("server error", zap.Error(err))
	}
}
