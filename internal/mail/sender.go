// Package mail delivers verification and password-reset emails over SMTP.
// Delivery is a side effect of registration and reset flows; a failure is
// logged and never rolls back the record change that preceded it.
package mail

import (
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/FarhanHaider999/NextStay/internal/log"
)

type Sender interface {
	SendVerification(to, token string) error
	SendPasswordReset(to, token string) error
}

// SMTP sends through a plain-auth SMTP relay, the transport the client
// application's mail provider expects.
type SMTP struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	ClientURL string
}

func NewSMTP(host string, port int, user, password, from, clientURL string) *SMTP {
	return &SMTP{Host: host, Port: port, User: user, Password: password, From: from, ClientURL: clientURL}
}

func (s *SMTP) SendVerification(to, token string) error {
	link := s.ClientURL + "/auth/verify-email?token=" + url.QueryEscape(token)
	return s.send(to, "Verify Your Email - NextStay",
		fmt.Sprintf("Please verify your email: %s", link))
}

func (s *SMTP) SendPasswordReset(to, token string) error {
	link := s.ClientURL + "/auth/reset-password?token=" + url.QueryEscape(token)
	return s.send(to, "Reset Your Password - NextStay",
		fmt.Sprintf("Reset your password: %s", link))
}

func (s *SMTP) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: NextStay <" + s.From + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogSender stands in for SMTP in development and tests: it only logs
// what would have been sent.
type LogSender struct{}

func (LogSender) SendVerification(to, token string) error {
	log.L().Info("mail (dev): verification", zap.String("to", to), zap.String("token", token))
	return nil
}

func (LogSender) SendPasswordReset(to, token string) error {
	log.L().Info("mail (dev): password reset", zap.String("to", to), zap.String("token", token))
	return nil
}
