package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.BillingRepository = (*BillingRepo)(nil)

const invoiceColumns = `id, company_id, plan_id, amount, currency, status, period_start, period_end, external_id, paid_at, created_at`

const commissionColumns = `id, sales_user_id, company_id, invoice_id, rate, amount, status, paid_at, created_at`

// BillingRepo facturas de suscripción y comisiones. Montos NUMERIC <-> decimal vía pgx-shopspring-decimal.
type BillingRepo struct {
	q Querier
}

// NewBillingRepository constructor; acepta pool o tx.
func NewBillingRepository(q Querier) *BillingRepo {
	return &BillingRepo{q: q}
}

func scanInvoice(row rowScanner) (*entity.BillingInvoice, error) {
	var inv entity.BillingInvoice
	var ext *string
	if err := row.Scan(&inv.ID, &inv.CompanyID, &inv.PlanID, &inv.Amount, &inv.Currency, &inv.Status,
		&inv.PeriodStart, &inv.PeriodEnd, &ext, &inv.PaidAt, &inv.CreatedAt); err != nil {
		return nil, err
	}
	if ext != nil {
		inv.ExternalID = *ext
	}
	return &inv, nil
}

// CreateInvoice inserta la factura. external_id repetido -> domain.ErrDuplicate.
func (r *BillingRepo) CreateInvoice(ctx context.Context, inv *entity.BillingInvoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO billing_invoices (id, company_id, plan_id, amount, currency, status, period_start, period_end,
			external_id, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		inv.ID, inv.CompanyID, inv.PlanID, inv.Amount, inv.Currency, inv.Status, inv.PeriodStart, inv.PeriodEnd,
		nullString(inv.ExternalID), inv.PaidAt, inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *BillingRepo) getInvoice(ctx context.Context, where string, arg any) (*entity.BillingInvoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM billing_invoices WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetInvoice factura por ID (el caso de uso valida el tenant).
func (r *BillingRepo) GetInvoice(ctx context.Context, id string) (*entity.BillingInvoice, error) {
	return r.getInvoice(ctx, "id = $1", id)
}

// GetInvoiceByExternalID factura por id del proveedor de pagos (webhooks).
func (r *BillingRepo) GetInvoiceByExternalID(ctx context.Context, externalID string) (*entity.BillingInvoice, error) {
	return r.getInvoice(ctx, "external_id = $1", externalID)
}

// UpdateInvoice actualiza estado, id externo y fecha de pago.
func (r *BillingRepo) UpdateInvoice(ctx context.Context, inv *entity.BillingInvoice) error {
	cmd, err := r.q.Exec(ctx, `UPDATE billing_invoices SET status = $2, external_id = $3, paid_at = $4 WHERE id = $1`,
		inv.ID, inv.Status, nullString(inv.ExternalID), inv.PaidAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListInvoices facturas de la empresa, más recientes primero.
func (r *BillingRepo) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]*entity.BillingInvoice, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM billing_invoices WHERE company_id = $1
		ORDER BY period_start DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanCommission(row rowScanner) (*entity.SalesCommission, error) {
	var c entity.SalesCommission
	if err := row.Scan(&c.ID, &c.SalesUserID, &c.CompanyID, &c.InvoiceID, &c.Rate, &c.Amount, &c.Status,
		&c.PaidAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCommission inserta la comisión. Una por factura: repetida -> domain.ErrDuplicate.
func (r *BillingRepo) CreateCommission(ctx context.Context, c *entity.SalesCommission) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_commissions (id, sales_user_id, company_id, invoice_id, rate, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.SalesUserID, c.CompanyID, c.InvoiceID, c.Rate, c.Amount, c.Status, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert commission: %w", err)
	}
	return nil
}

// GetCommission comisión por ID.
func (r *BillingRepo) GetCommission(ctx context.Context, id string) (*entity.SalesCommission, error) {
	c, err := scanCommission(r.q.QueryRow(ctx, `SELECT `+commissionColumns+` FROM sales_commissions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission: %w", err)
	}
	return c, nil
}

// CommissionExistsForInvoice evita duplicar comisiones si el webhook llega dos veces.
func (r *BillingRepo) CommissionExistsForInvoice(ctx context.Context, invoiceID string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales_commissions WHERE invoice_id = $1)`,
		invoiceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check commission: %w", err)
	}
	return exists, nil
}

// ListCommissions comisiones; salesUserID y status vacíos = sin filtro.
func (r *BillingRepo) ListCommissions(ctx context.Context, salesUserID, status string, limit, offset int) ([]*entity.SalesCommission, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+commissionColumns+` FROM sales_commissions
		WHERE ($1 = '' OR sales_user_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, salesUserID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesCommission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// MarkCommissionPaid pending -> paid. Si ya estaba pagada -> domain.ErrConflict.
func (r *BillingRepo) MarkCommissionPaid(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales_commissions SET status = 'paid', paid_at = now()
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("pay commission: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
