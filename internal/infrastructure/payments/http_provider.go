package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/config"
)

var (
	_ ports.PaymentProvider = (*HTTPProvider)(nil)
	_ ports.PaymentProvider = (*ManualProvider)(nil)
)

// HTTPProvider crea cargos en la pasarela vía REST (POST {ProviderURL}/charges, Bearer key).
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider constructor.
func NewHTTPProvider(cfg config.BillingConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:     cfg.ProviderKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

type chargeRequest struct {
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	Email       string            `json:"email"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type chargeResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Charge solicita el cargo; la idempotencia va por el ID de la factura.
func (p *HTTPProvider) Charge(ctx context.Context, req ports.ChargeRequest) (string, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:      req.Amount.StringFixed(2),
		Currency:    strings.ToLower(req.Currency),
		Email:       req.Email,
		Description: req.Description,
		Metadata:    map[string]string{"company_id": req.CompanyID, "invoice_id": req.InvoiceID},
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payments: crear request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.InvoiceID)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payments: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var out chargeResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("payments: %s", out.Error)
		}
		return "", fmt.Errorf("payments: HTTP %d", resp.StatusCode)
	}
	if out.ID == "" {
		return "", fmt.Errorf("payments: respuesta sin id de cargo")
	}
	return out.ID, nil
}

// ManualProvider sin pasarela: genera un id local y la factura queda open
// hasta que un webhook (o un operador) la marque pagada.
type ManualProvider struct{}

// NewManualProvider constructor.
func NewManualProvider() *ManualProvider { return &ManualProvider{} }

func (ManualProvider) Charge(_ context.Context, _ ports.ChargeRequest) (string, error) {
	return "manual_" + uuid.NewString(), nil
}
