package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/config"
)

var _ ports.SMSSender = (*TwilioSender)(nil)

// TwilioSender envía SMS con la API REST de Twilio (o compatible).
type TwilioSender struct {
	cfg        config.SMSConfig
	httpClient *http.Client
}

// NewTwilioSender constructor.
func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	return &TwilioSender{cfg: cfg, httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// SendSMS POST form a /Accounts/{sid}/Messages.json con basic auth.
func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" {
		return fmt.Errorf("sms: credenciales no configuradas")
	}
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: crear request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("sms: proveedor (%d): %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("sms: HTTP %d", resp.StatusCode)
	}
	return nil
}
