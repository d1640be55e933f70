package dto

import "github.com/shopspring/decimal"

// AdminDashboardDTO métricas de plataforma (super_admin).
type AdminDashboardDTO struct {
	Companies         int             `json:"companies"`
	ActiveCompanies   int             `json:"active_companies"`
	Users             int             `json:"users"`
	UsersByRole       map[string]int  `json:"users_by_role"`
	Technicians       int             `json:"technicians"`
	CheckIns          int             `json:"check_ins"`
	CheckInsThisMonth int             `json:"check_ins_this_month"`
	ReviewRequests    int             `json:"review_requests"`
	ReviewsCompleted  int             `json:"reviews_completed"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue" swaggertype:"string"`
}

// TechnicianRankDTO fila del ranking de técnicos del mes.
type TechnicianRankDTO struct {
	TechnicianID  string  `json:"technician_id"`
	Name          string  `json:"name"`
	CheckIns      int     `json:"check_ins"`
	AverageRating float64 `json:"average_rating"`
}

// CompanyDashboardDTO métricas de la empresa (company_admin).
type CompanyDashboardDTO struct {
	Technicians       int                 `json:"technicians"`
	CheckIns          int                 `json:"check_ins"`
	CheckInsThisMonth int                 `json:"check_ins_this_month"`
	BlogPosts         int                 `json:"blog_posts"`
	PublishedPosts    int                 `json:"published_posts"`
	ReviewRequests    int                 `json:"review_requests"`
	ReviewsCompleted  int                 `json:"reviews_completed"`
	AverageRating     float64             `json:"average_rating"`
	TopTechnicians    []TechnicianRankDTO `json:"top_technicians"`
	Usage             UsageResponse       `json:"usage"`
}

// TechnicianDashboardDTO métricas propias del técnico.
type TechnicianDashboardDTO struct {
	Technician     TechnicianResponse      `json:"technician"`
	Stats          TechnicianStatsResponse `json:"stats"`
	RecentCheckIns []CheckInResponse       `json:"recent_check_ins"`
}

// SalesDashboardDTO métricas del sales_staff.
type SalesDashboardDTO struct {
	ReferredCompanies   int             `json:"referred_companies"`
	ActiveSubscriptions int             `json:"active_subscriptions"`
	PendingCommissions  decimal.Decimal `json:"pending_commissions" swaggertype:"string"`
	PaidCommissions     decimal.Decimal `json:"paid_commissions" swaggertype:"string"`
}
