package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest cargo de un periodo de suscripción.
type ChargeRequest struct {
	CompanyID   string
	InvoiceID   string
	Email       string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// PaymentProvider pasarela de pagos. Charge devuelve el id externo del cargo;
// la confirmación llega después por webhook (invoice.paid / invoice.payment_failed).
type PaymentProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (externalID string, err error)
}
