package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados read-only para los dashboards.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository constructor.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// PlatformTotals métricas de toda la plataforma.
func (r *DashboardRepo) PlatformTotals(ctx context.Context, monthStart time.Time) (*repository.PlatformTotals, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM companies WHERE deleted_at IS NULL),
			(SELECT count(*) FROM companies WHERE deleted_at IS NULL AND subscription_status IN ('active', 'trialing')),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM technicians WHERE deleted_at IS NULL),
			(SELECT count(*) FROM check_ins WHERE deleted_at IS NULL),
			(SELECT count(*) FROM check_ins WHERE deleted_at IS NULL AND created_at >= $1),
			(SELECT count(*) FROM review_requests),
			(SELECT count(*) FROM review_requests WHERE status = 'completed'),
			(SELECT COALESCE(sum(amount), 0) FROM billing_invoices WHERE status = 'paid' AND paid_at >= $1)`
	var t repository.PlatformTotals
	if err := r.q.QueryRow(ctx, query, monthStart).Scan(&t.Companies, &t.ActiveCompanies, &t.Users, &t.Technicians,
		&t.CheckIns, &t.CheckInsThisMonth, &t.ReviewRequests, &t.ReviewsCompleted, &t.MonthlyRevenue); err != nil {
		return nil, fmt.Errorf("platform totals: %w", err)
	}
	return &t, nil
}

// CompanyTotals métricas de una empresa.
func (r *DashboardRepo) CompanyTotals(ctx context.Context, companyID string, monthStart time.Time) (*repository.CompanyTotals, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM technicians WHERE company_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM check_ins WHERE company_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM check_ins WHERE company_id = $1 AND deleted_at IS NULL AND created_at >= $2),
			(SELECT count(*) FROM blog_posts WHERE company_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM blog_posts WHERE company_id = $1 AND deleted_at IS NULL AND status = 'published'),
			(SELECT count(*) FROM review_requests WHERE company_id = $1),
			(SELECT count(*) FROM review_requests WHERE company_id = $1 AND status = 'completed'),
			(SELECT COALESCE(avg(rating), 0)::float8 FROM review_responses WHERE company_id = $1)`
	var t repository.CompanyTotals
	if err := r.q.QueryRow(ctx, query, companyID, monthStart).Scan(&t.Technicians, &t.CheckIns, &t.CheckInsThisMonth,
		&t.BlogPosts, &t.PublishedPosts, &t.ReviewRequests, &t.ReviewsCompleted, &t.AverageRating); err != nil {
		return nil, fmt.Errorf("company totals: %w", err)
	}
	return &t, nil
}

// TopTechnicians ranking por visitas desde since.
func (r *DashboardRepo) TopTechnicians(ctx context.Context, companyID string, since time.Time, limit int) ([]repository.TechnicianRank, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.q.Query(ctx, `
		SELECT t.id, t.name,
			count(DISTINCT c.id) AS check_ins,
			COALESCE((SELECT avg(rating) FROM review_responses rs WHERE rs.technician_id = t.id), 0)::float8
		FROM technicians t
		LEFT JOIN check_ins c ON c.technician_id = t.id AND c.deleted_at IS NULL AND c.created_at >= $2
		WHERE t.company_id = $1 AND t.deleted_at IS NULL
		GROUP BY t.id, t.name
		ORDER BY check_ins DESC, t.name
		LIMIT $3`, companyID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top technicians: %w", err)
	}
	defer rows.Close()
	var out []repository.TechnicianRank
	for rows.Next() {
		var tr repository.TechnicianRank
		if err := rows.Scan(&tr.TechnicianID, &tr.Name, &tr.CheckIns, &tr.AverageRating); err != nil {
			return nil, fmt.Errorf("scan technician rank: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// SalesTotals métricas del vendedor: empresas referidas y comisiones.
func (r *DashboardRepo) SalesTotals(ctx context.Context, salesUserID string) (*repository.SalesTotals, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM companies WHERE sales_rep_id = $1 AND deleted_at IS NULL),
			(SELECT count(*) FROM companies WHERE sales_rep_id = $1 AND deleted_at IS NULL AND subscription_status = 'active'),
			(SELECT COALESCE(sum(amount), 0) FROM sales_commissions WHERE sales_user_id = $1 AND status = 'pending'),
			(SELECT COALESCE(sum(amount), 0) FROM sales_commissions WHERE sales_user_id = $1 AND status = 'paid')`
	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, salesUserID).Scan(&t.ReferredCompanies, &t.ActiveSubscriptions,
		&t.PendingCommissions, &t.PaidCommissions); err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	return &t, nil
}
