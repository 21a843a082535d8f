// Package email delivers offer emails over SMTP.
package email

import "context"

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Sender delivers offer emails.
type Sender interface {
	SendOfferEmail(ctx context.Context, toEmail, subject, body string, attachments ...Attachment) error
}

// NoopSender is used when SMTP is not configured. Sends succeed silently so
// development environments work without a mail server.
type NoopSender struct{}

// SendOfferEmail implements Sender.
func (NoopSender) SendOfferEmail(context.Context, string, string, string, ...Attachment) error {
	return nil
}
