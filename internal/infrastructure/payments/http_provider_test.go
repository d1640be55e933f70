package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/config"
)

func TestHTTPProvider_Charge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "inv-1", r.Header.Get("Idempotency-Key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "99.00", body["amount"])
		assert.Equal(t, "usd", body["currency"])
		_, _ = w.Write([]byte(`{"id":"ch_123"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(config.BillingConfig{ProviderURL: srv.URL + "/", ProviderKey: "sk_test"})
	id, err := p.Charge(context.Background(), ports.ChargeRequest{
		CompanyID: "c1", InvoiceID: "inv-1", Amount: decimal.NewFromInt(99), Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_123", id)
}

func TestHTTPProvider_ChargeRechazado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"card_declined"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(config.BillingConfig{ProviderURL: srv.URL}).Charge(context.Background(), ports.ChargeRequest{InvoiceID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_declined")
}

func TestManualProvider(t *testing.T) {
	id, err := NewManualProvider().Charge(context.Background(), ports.ChargeRequest{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "manual_"))
}
