package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanResponse plan público.
type PlanResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	PriceMonthly        decimal.Decimal `json:"price_monthly" swaggertype:"string"`
	MaxTechnicians      int             `json:"max_technicians"`
	MaxCheckInsPerMonth int             `json:"max_check_ins_per_month"`
	Features            []string        `json:"features"`
}

// SubscriptionResponse suscripción de la empresa actual.
type SubscriptionResponse struct {
	Plan             PlanResponse `json:"plan"`
	Status           string       `json:"status"`
	TrialEndsAt      *time.Time   `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time   `json:"current_period_end,omitempty"`
}

// ChangePlanRequest cambio de plan (genera factura y cargo).
type ChangePlanRequest struct {
	PlanID string `json:"plan_id" validate:"required,oneof=starter pro agency"`
}

// InvoiceResponse factura de suscripción.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	PlanID      string          `json:"plan_id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	ExternalID  string          `json:"external_id,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// Tipos de evento del webhook de pagos.
const (
	BillingEventInvoicePaid          = "invoice.paid"
	BillingEventInvoicePaymentFailed = "invoice.payment_failed"
	BillingEventSubscriptionCanceled = "subscription.canceled"
)

// BillingWebhookEvent evento del proveedor de pagos. La factura se identifica por
// invoice_id (metadata que enviamos al cobrar) o por external_id.
type BillingWebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		InvoiceID  string `json:"invoice_id"`
		ExternalID string `json:"external_id"`
		CompanyID  string `json:"company_id"`
	} `json:"data"`
}

// CommissionResponse comisión de ventas.
type CommissionResponse struct {
	ID          string          `json:"id"`
	SalesUserID string          `json:"sales_user_id"`
	CompanyID   string          `json:"company_id"`
	InvoiceID   string          `json:"invoice_id"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CommissionListResponse listado paginado.
type CommissionListResponse struct {
	Items []CommissionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
