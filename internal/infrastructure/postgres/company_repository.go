package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, slug, email, phone, website, industry, plan_id, subscription_status,
	trial_ends_at, current_period_end, sales_rep_id, status, wp_api_key_hash, created_at, updated_at, deleted_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Email, &c.Phone, &c.Website, &c.Industry, &c.PlanID,
		&c.SubscriptionStatus, &c.TrialEndsAt, &c.CurrentPeriodEnd, &c.SalesRepID, &c.Status,
		&c.WPAPIKeyHash, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. Slug duplicado -> domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, slug, email, phone, website, industry, plan_id, subscription_status,
			trial_ends_at, current_period_end, sales_rep_id, status, wp_api_key_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Email, c.Phone, c.Website, c.Industry, c.PlanID, c.SubscriptionStatus,
		c.TrialEndsAt, c.CurrentPeriodEnd, c.SalesRepID, c.Status, c.WPAPIKeyHash, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) getOne(ctx context.Context, where string, arg any) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + where + ` AND deleted_at IS NULL`
	c, err := scanCompany(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, "id = $1", id)
}

// SlugExists informa si el slug está tomado, incluidas empresas eliminadas.
func (r *CompanyRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company slug: %w", err)
	}
	return exists, nil
}

// GetBySlug obtiene una empresa por slug (feed público).
func (r *CompanyRepo) GetBySlug(ctx context.Context, slug string) (*entity.Company, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

// GetByAPIKeyHash resuelve la empresa dueña de una API key del plugin.
func (r *CompanyRepo) GetByAPIKeyHash(ctx context.Context, hash string) (*entity.Company, error) {
	if hash == "" {
		return nil, nil
	}
	return r.getOne(ctx, "wp_api_key_hash = $1", hash)
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, slug = $3, email = $4, phone = $5, website = $6, industry = $7,
			plan_id = $8, subscription_status = $9, trial_ends_at = $10, current_period_end = $11,
			sales_rep_id = $12, status = $13, wp_api_key_hash = $14, updated_at = $15
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Email, c.Phone, c.Website, c.Industry,
		c.PlanID, c.SubscriptionStatus, c.TrialEndsAt, c.CurrentPeriodEnd,
		c.SalesRepID, c.Status, c.WPAPIKeyHash, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CompanyRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	limit, offset = clampPage(limit, offset)
	return r.list(ctx, `SELECT `+companyColumns+` FROM companies WHERE deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListBySalesRep empresas referidas por un sales_staff.
func (r *CompanyRepo) ListBySalesRep(ctx context.Context, salesUserID string) ([]*entity.Company, error) {
	return r.list(ctx, `SELECT `+companyColumns+` FROM companies WHERE sales_rep_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`, salesUserID)
}

// ListDueForRenewal empresas activas cuyo periodo (o prueba) venció antes de now.
func (r *CompanyRepo) ListDueForRenewal(ctx context.Context, now time.Time) ([]*entity.Company, error) {
	return r.list(ctx, `SELECT `+companyColumns+` FROM companies
		WHERE deleted_at IS NULL AND status = 'active'
		  AND ((subscription_status = 'active' AND current_period_end <= $1)
		    OR (subscription_status = 'trialing' AND trial_ends_at <= $1))
		ORDER BY created_at LIMIT 200`, now)
}

// Count total de empresas no eliminadas.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM companies WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// SoftDelete marca la empresa como eliminada.
func (r *CompanyRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE companies SET deleted_at = now(), status = 'inactive', updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
