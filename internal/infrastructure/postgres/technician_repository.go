package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.TechnicianRepository = (*TechnicianRepo)(nil)

const technicianColumns = `id, company_id, user_id, name, email, phone, specialty, location, active, created_at, updated_at, deleted_at`

// TechnicianRepo técnicos de campo; todas las consultas van acotadas por company_id.
type TechnicianRepo struct {
	q Querier
}

// NewTechnicianRepository constructor.
func NewTechnicianRepository(q Querier) *TechnicianRepo {
	return &TechnicianRepo{q: q}
}

func scanTechnician(row rowScanner) (*entity.Technician, error) {
	var t entity.Technician
	if err := row.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.Name, &t.Email, &t.Phone, &t.Specialty,
		&t.Location, &t.Active, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta un técnico.
func (r *TechnicianRepo) Create(ctx context.Context, t *entity.Technician) error {
	query := `
		INSERT INTO technicians (id, company_id, user_id, name, email, phone, specialty, location, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.UserID, t.Name, t.Email, t.Phone,
		t.Specialty, t.Location, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario ya está vinculado a otro técnico", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert technician: %w", err)
	}
	return nil
}

// GetByID técnico de la empresa; (nil, nil) si no existe o es de otro tenant.
func (r *TechnicianRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	t, err := scanTechnician(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return t, nil
}

// GetByUserID técnico enlazado a una cuenta de login.
func (r *TechnicianRepo) GetByUserID(ctx context.Context, userID string) (*entity.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE user_id = $1 AND deleted_at IS NULL LIMIT 1`
	t, err := scanTechnician(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician by user: %w", err)
	}
	return t, nil
}

// GetByEmail técnico activo de la empresa con ese e-mail (sin distinguir mayúsculas).
func (r *TechnicianRepo) GetByEmail(ctx context.Context, companyID, email string) (*entity.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE company_id = $1 AND lower(email) = lower($2) AND active = true AND deleted_at IS NULL
		ORDER BY created_at LIMIT 1`
	t, err := scanTechnician(r.q.QueryRow(ctx, query, companyID, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician by email: %w", err)
	}
	return t, nil
}

// Update actualiza datos del técnico.
func (r *TechnicianRepo) Update(ctx context.Context, t *entity.Technician) error {
	query := `
		UPDATE technicians SET user_id = $3, name = $4, email = $5, phone = $6, specialty = $7,
			location = $8, active = $9, updated_at = $10
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.UserID, t.Name, t.Email, t.Phone,
		t.Specialty, t.Location, t.Active, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario ya está vinculado a otro técnico", domain.ErrDuplicate)
		}
		return fmt.Errorf("update technician: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List técnicos de la empresa ordenados por nombre.
func (r *TechnicianRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Technician, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE company_id = $1 AND deleted_at IS NULL ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()
	var list []*entity.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CountActive técnicos activos; es lo que limita el plan.
func (r *TechnicianRepo) CountActive(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM technicians WHERE company_id = $1 AND active = true AND deleted_at IS NULL`,
		companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count technicians: %w", err)
	}
	return n, nil
}

// SoftDelete desactiva y marca eliminado al técnico.
func (r *TechnicianRepo) SoftDelete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE technicians SET deleted_at = now(), active = false, updated_at = now()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats visitas y reseñas del técnico.
func (r *TechnicianRepo) Stats(ctx context.Context, companyID, id string) (*repository.TechnicianStats, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM check_ins WHERE technician_id = $1 AND company_id = $2 AND deleted_at IS NULL),
			(SELECT count(*) FROM check_ins WHERE technician_id = $1 AND company_id = $2 AND deleted_at IS NULL
				AND created_at >= date_trunc('month', now())),
			(SELECT count(*) FROM review_requests WHERE technician_id = $1 AND company_id = $2),
			(SELECT count(*) FROM review_responses WHERE technician_id = $1 AND company_id = $2),
			(SELECT COALESCE(avg(rating), 0)::float8 FROM review_responses WHERE technician_id = $1 AND company_id = $2)`
	var s repository.TechnicianStats
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&s.CheckIns, &s.CheckInsThisMonth, &s.ReviewsRequested, &s.ReviewsCompleted, &s.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("technician stats: %w", err)
	}
	return &s, nil
}
