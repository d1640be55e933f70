package notify

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

var (
	_ ports.EmailSender = (*LogSender)(nil)
	_ ports.SMSSender   = (*LogSender)(nil)
)

// LogSender solo registra el mensaje. Se usa cuando SMTP/SMS no están configurados (desarrollo).
type LogSender struct {
	log *logger.Logger
}

// NewLogSender constructor.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Msg("email (sin SMTP configurado)")
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.log.Info().Str("to", to).Int("len", len(body)).Msg("sms (sin proveedor configurado)")
	return nil
}
