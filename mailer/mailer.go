// Package mailer sends report e-mails over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"salesdash/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("smtp is not configured")

// Message is one outgoing e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP sends through a gomail dialer.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP returns nil when credentials are missing. Gmail addresses without an
// explicit host use smtp.gmail.com:587.
func NewSMTP(cfg config.MailConfig) *SMTP {
	if !cfg.Enabled() {
		return nil
	}
	host, port := resolveHost(cfg)
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTP{
		dialer: gomail.NewDialer(host, port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func resolveHost(cfg config.MailConfig) (string, int) {
	host, port := cfg.Host, cfg.Port
	if host == "" && strings.HasSuffix(strings.ToLower(cfg.Username), "@gmail.com") {
		return "smtp.gmail.com", 587
	}
	if port == 0 {
		port = 587
	}
	return host, port
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
