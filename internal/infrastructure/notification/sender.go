package notification

import (
	"context"
)

// EmailSender sends transactional email to marketplace participants.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// NoopSender discards email. Used when SMTP is disabled in configuration
// and in tests.
type NoopSender struct{}

// SendEmail implements EmailSender
func (NoopSender) SendEmail(_ context.Context, _, _, _ string) error {
	return nil
}

var _ EmailSender = NoopSender{}
