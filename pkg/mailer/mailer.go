package mailer

import (
	"context"
	"fmt"
	"quickshow/pkg/logger"

	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	Body    string // HTML
}

// Sender delivers one email per call. Implementations report failure per
// message; batch fan-out and partial-failure accounting belong to callers.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log.WithComponent("mailer"),
	}
}

func (s *smtpSender) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("email recipient cannot be empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.Body)

	// gomail has no context support; honor cancellation around the dial.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("Failed to send email", "to", email.To, "subject", email.Subject, "error", err)
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}

	s.log.Debug("Email sent", "to", email.To, "subject", email.Subject)
	return nil
}
