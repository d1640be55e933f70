package ports

import "context"

// EmailSender envío de correos HTML.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender envío de SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
