package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PlatformTotals métricas globales (super admin).
type PlatformTotals struct {
	Companies         int
	ActiveCompanies   int
	Users             int
	Technicians       int
	CheckIns          int
	CheckInsThisMonth int
	ReviewRequests    int
	ReviewsCompleted  int
	MonthlyRevenue    decimal.Decimal // facturas pagadas del mes en curso
}

// CompanyTotals métricas de una empresa.
type CompanyTotals struct {
	Technicians       int
	CheckIns          int
	CheckInsThisMonth int
	BlogPosts         int
	PublishedPosts    int
	ReviewRequests    int
	ReviewsCompleted  int
	AverageRating     float64
}

// TechnicianRank fila del ranking de técnicos por visitas.
type TechnicianRank struct {
	TechnicianID  string
	Name          string
	CheckIns      int
	AverageRating float64
}

// SalesTotals métricas de un sales_staff.
type SalesTotals struct {
	ReferredCompanies   int
	ActiveSubscriptions int
	PendingCommissions  decimal.Decimal
	PaidCommissions     decimal.Decimal
}

// DashboardRepository consultas read-only para los dashboards por rol.
type DashboardRepository interface {
	PlatformTotals(ctx context.Context, monthStart time.Time) (*PlatformTotals, error)
	CompanyTotals(ctx context.Context, companyID string, monthStart time.Time) (*CompanyTotals, error)
	TopTechnicians(ctx context.Context, companyID string, since time.Time, limit int) ([]TechnicianRank, error)
	SalesTotals(ctx context.Context, salesUserID string) (*SalesTotals, error)
}
