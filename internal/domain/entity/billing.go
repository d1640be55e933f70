package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura de suscripción.
const (
	InvoiceStatusOpen = "open"
	InvoiceStatusPaid = "paid"
	InvoiceStatusVoid = "void"
)

// BillingInvoice cargo de un periodo de suscripción.
type BillingInvoice struct {
	ID          string
	CompanyID   string
	PlanID      string
	Amount      decimal.Decimal
	Currency    string
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	ExternalID  string // id del cargo en el proveedor de pagos
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// Estados de comisión.
const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// DefaultCommissionRate 10% de cada factura pagada de una empresa referida.
var DefaultCommissionRate = decimal.NewFromFloat(0.10)

// SalesCommission comisión de un sales_staff por una factura pagada.
type SalesCommission struct {
	ID          string
	SalesUserID string
	CompanyID   string
	InvoiceID   string
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Status      string
	PaidAt      *time.Time
	CreatedAt   time.Time
}
