package repository

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// BillingRepository facturas de suscripción y comisiones de ventas.
type BillingRepository interface {
	CreateInvoice(ctx context.Context, inv *entity.BillingInvoice) error
	GetInvoice(ctx context.Context, id string) (*entity.BillingInvoice, error)
	GetInvoiceByExternalID(ctx context.Context, externalID string) (*entity.BillingInvoice, error)
	UpdateInvoice(ctx context.Context, inv *entity.BillingInvoice) error
	ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]*entity.BillingInvoice, error)

	CreateCommission(ctx context.Context, c *entity.SalesCommission) error
	GetCommission(ctx context.Context, id string) (*entity.SalesCommission, error)
	CommissionExistsForInvoice(ctx context.Context, invoiceID string) (bool, error)
	ListCommissions(ctx context.Context, salesUserID, status string, limit, offset int) ([]*entity.SalesCommission, error)
	MarkCommissionPaid(ctx context.Context, id string) error
}
