package config

import (
	"errors"
	"os"
	"strconv"
)

// devJWTSecret is substituted when JWT_SECRET is unset outside production.
// Validate rejects it for production deployments.
const devJWTSecret = "fallback-secret-change-in-production"

type Config struct {
	Env  string
	Port string

	MongoURI string
	MongoDB  string

	JWTSecret      string
	SessionTTLDays int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	ClientURL  string
	AdminEmail string

	RabbitURL      string
	RabbitExchange string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "development"),
		Port: getenv("APP_PORT", "5000"),

		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "nextstay"),

		JWTSecret:      getenv("JWT_SECRET", devJWTSecret),
		SessionTTLDays: atoi(getenv("JWT_EXPIRES_DAYS", "7")),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  getenv("GOOGLE_CALLBACK_URL", "http://localhost:5000/api/auth/google/callback"),

		ClientURL:  getenv("CLIENT_URL", "http://localhost:3000"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),

		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "auth.events"),

		SMTPHost:     os.Getenv("EMAIL_SERVER_HOST"),
		SMTPPort:     atoi(getenv("EMAIL_SERVER_PORT", "587")),
		SMTPUser:     os.Getenv("EMAIL_SERVER_USER"),
		SMTPPassword: os.Getenv("EMAIL_SERVER_PASSWORD"),
		MailFrom:     os.Getenv("EMAIL_FROM"),
	}
}

// Validate enforces the settings that must not be defaulted in production:
// a real signing secret and a complete mail transport.
func (c Config) Validate() error {
	if c.Production() {
		if c.JWTSecret == "" || c.JWTSecret == devJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if !c.MailConfigured() {
			return errors.New("email server environment variables are not set")
		}
	}
	if c.SessionTTLDays <= 0 {
		return errors.New("JWT_EXPIRES_DAYS must be a positive integer")
	}
	return nil
}

func (c Config) Production() bool { return c.Env == "production" }

// MailConfigured reports whether every SMTP setting is present.
func (c Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPUser != "" && c.SMTPPassword != "" && c.MailFrom != ""
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
