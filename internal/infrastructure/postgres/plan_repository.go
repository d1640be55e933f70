package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

const planColumns = `id, name, price_monthly, max_technicians, max_check_ins_per_month, features, active, created_at, updated_at`

// PlanRepo lectura de planes sembrados por la migración.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository constructor.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

func scanPlan(row rowScanner) (*entity.SubscriptionPlan, error) {
	var p entity.SubscriptionPlan
	if err := row.Scan(&p.ID, &p.Name, &p.PriceMonthly, &p.MaxTechnicians, &p.MaxCheckInsPerMonth,
		&p.Features, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un plan por código (starter, pro, agency).
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// ListActive planes a la venta, del más barato al más caro.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM plans WHERE active = true ORDER BY price_monthly`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
