package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/markethub/backend/internal/infrastructure/config"
)

// SMTPSender implements EmailSender over plain SMTP with AUTH PLAIN.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates a new SMTP sender from configuration
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.Username == "" {
		return nil, errors.New("smtp: username is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("smtp: password is required")
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}, nil
}

// SendEmail sends a single HTML email
func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(
		"From: " + s.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
