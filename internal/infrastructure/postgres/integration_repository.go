package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.IntegrationRepository = (*IntegrationRepo)(nil)

// IntegrationRepo configuración de WordPress y CRMs.
type IntegrationRepo struct {
	q Querier
}

// NewIntegrationRepository constructor.
func NewIntegrationRepository(q Querier) *IntegrationRepo {
	return &IntegrationRepo{q: q}
}

// GetWordPress configuración WP de la empresa; (nil, nil) si no está configurada.
func (r *IntegrationRepo) GetWordPress(ctx context.Context, companyID string) (*entity.WordPressIntegration, error) {
	var wp entity.WordPressIntegration
	err := r.q.QueryRow(ctx, `
		SELECT company_id, site_url, username, app_password, auto_publish, created_at, updated_at
		FROM wordpress_integrations WHERE company_id = $1`, companyID).Scan(
		&wp.CompanyID, &wp.SiteURL, &wp.Username, &wp.AppPassword, &wp.AutoPublish, &wp.CreatedAt, &wp.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wordpress integration: %w", err)
	}
	return &wp, nil
}

// UpsertWordPress crea o reemplaza la configuración WP.
func (r *IntegrationRepo) UpsertWordPress(ctx context.Context, wp *entity.WordPressIntegration) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO wordpress_integrations (company_id, site_url, username, app_password, auto_publish, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id) DO UPDATE SET site_url = EXCLUDED.site_url, username = EXCLUDED.username,
			app_password = EXCLUDED.app_password, auto_publish = EXCLUDED.auto_publish, updated_at = EXCLUDED.updated_at`,
		wp.CompanyID, wp.SiteURL, wp.Username, wp.AppPassword, wp.AutoPublish, wp.CreatedAt, wp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert wordpress integration: %w", err)
	}
	return nil
}

const crmColumns = `id, company_id, provider, config, active, last_event_at, created_at, updated_at`

func scanCRM(row rowScanner) (*entity.CRMIntegration, error) {
	var c entity.CRMIntegration
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Provider, &c.Config, &c.Active, &c.LastEventAt,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCRM integraciones CRM de la empresa.
func (r *IntegrationRepo) ListCRM(ctx context.Context, companyID string) ([]*entity.CRMIntegration, error) {
	rows, err := r.q.Query(ctx, `SELECT `+crmColumns+` FROM crm_integrations WHERE company_id = $1 ORDER BY provider`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list crm integrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.CRMIntegration
	for rows.Next() {
		c, err := scanCRM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crm integration: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetCRM integración de un proveedor.
func (r *IntegrationRepo) GetCRM(ctx context.Context, companyID, provider string) (*entity.CRMIntegration, error) {
	c, err := scanCRM(r.q.QueryRow(ctx, `SELECT `+crmColumns+` FROM crm_integrations
		WHERE company_id = $1 AND provider = $2`, companyID, provider))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get crm integration: %w", err)
	}
	return c, nil
}

// UpsertCRM crea o actualiza la integración (única por empresa y proveedor).
func (r *IntegrationRepo) UpsertCRM(ctx context.Context, c *entity.CRMIntegration) error {
	if len(c.Config) == 0 {
		c.Config = []byte(`{}`)
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO crm_integrations (id, company_id, provider, config, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, provider) DO UPDATE SET config = EXCLUDED.config, active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		c.ID, c.CompanyID, c.Provider, c.Config, c.Active, c.CreatedAt, c.UpdatedAt).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert crm integration: %w", err)
	}
	return nil
}

// DeleteCRM elimina la integración.
func (r *IntegrationRepo) DeleteCRM(ctx context.Context, companyID, provider string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM crm_integrations WHERE company_id = $1 AND provider = $2`, companyID, provider)
	if err != nil {
		return fmt.Errorf("delete crm integration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchCRMEvent registra la hora del último webhook recibido.
func (r *IntegrationRepo) TouchCRMEvent(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE crm_integrations SET last_event_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch crm event: %w", err)
	}
	return nil
}
