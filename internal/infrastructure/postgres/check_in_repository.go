package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.CheckInRepository = (*CheckInRepo)(nil)

const checkInColumns = `id, company_id, technician_id, job_type, notes, customer_name, customer_email, customer_phone,
	address, city, state, zip, latitude, longitude, photos, created_at, updated_at, deleted_at`

// CheckInRepo visitas de servicio.
type CheckInRepo struct {
	q Querier
}

// NewCheckInRepository constructor.
func NewCheckInRepository(q Querier) *CheckInRepo {
	return &CheckInRepo{q: q}
}

func scanCheckIn(row rowScanner) (*entity.CheckIn, error) {
	var c entity.CheckIn
	if err := row.Scan(&c.ID, &c.CompanyID, &c.TechnicianID, &c.JobType, &c.Notes, &c.CustomerName,
		&c.CustomerEmail, &c.CustomerPhone, &c.Address, &c.City, &c.State, &c.Zip,
		&c.Latitude, &c.Longitude, &c.Photos, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta la visita.
func (r *CheckInRepo) Create(ctx context.Context, c *entity.CheckIn) error {
	if c.Photos == nil {
		c.Photos = []string{}
	}
	query := `
		INSERT INTO check_ins (id, company_id, technician_id, job_type, notes, customer_name, customer_email,
			customer_phone, address, city, state, zip, latitude, longitude, photos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.TechnicianID, c.JobType, c.Notes, c.CustomerName,
		c.CustomerEmail, c.CustomerPhone, c.Address, c.City, c.State, c.Zip, c.Latitude, c.Longitude,
		c.Photos, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}
	return nil
}

// GetByID visita de la empresa; (nil, nil) si no existe.
func (r *CheckInRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	c, err := scanCheckIn(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get check-in: %w", err)
	}
	return c, nil
}

// Update actualiza los campos editables (no técnico ni fotos).
func (r *CheckInRepo) Update(ctx context.Context, c *entity.CheckIn) error {
	query := `
		UPDATE check_ins SET job_type = $3, notes = $4, customer_name = $5, customer_email = $6,
			customer_phone = $7, address = $8, city = $9, state = $10, zip = $11, latitude = $12,
			longitude = $13, updated_at = $14
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.JobType, c.Notes, c.CustomerName, c.CustomerEmail,
		c.CustomerPhone, c.Address, c.City, c.State, c.Zip, c.Latitude, c.Longitude, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update check-in: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddPhoto agrega la key de una foto subida al arreglo de la visita.
func (r *CheckInRepo) AddPhoto(ctx context.Context, companyID, id, objectKey string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE check_ins SET photos = array_append(photos, $3), updated_at = now()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID, objectKey)
	if err != nil {
		return fmt.Errorf("add check-in photo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List visitas filtradas, más recientes primero. CompanyID vacío solo lo usa super_admin.
func (r *CheckInRepo) List(ctx context.Context, f entity.CheckInFilter) ([]*entity.CheckIn, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	conds := []string{"deleted_at IS NULL"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CompanyID != "" {
		add("company_id = $%d", f.CompanyID)
	}
	if f.TechnicianID != "" {
		add("technician_id = $%d", f.TechnicianID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM check_ins WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		checkInColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()
	var list []*entity.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountSince visitas creadas por la empresa desde since (uso del mes para el límite del plan).
// Cuenta también las eliminadas: borrar una visita no devuelve cupo.
func (r *CheckInRepo) CountSince(ctx context.Context, companyID string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM check_ins WHERE company_id = $1 AND created_at >= $2`,
		companyID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// SoftDelete marca la visita como eliminada.
func (r *CheckInRepo) SoftDelete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE check_ins SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete check-in: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
