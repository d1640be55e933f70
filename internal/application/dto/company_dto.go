package dto

import "time"

// CreateCompanyRequest alta de empresa por super_admin.
type CreateCompanyRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	Slug       string  `json:"slug" validate:"omitempty,max=80"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Phone      string  `json:"phone" validate:"omitempty,max=50"`
	Website    string  `json:"website" validate:"omitempty,url"`
	Industry   string  `json:"industry" validate:"omitempty,max=100"`
	PlanID     string  `json:"plan_id" validate:"omitempty,oneof=starter pro agency"`
	SalesRepID *string `json:"sales_rep_id" validate:"omitempty,uuid"`
}

// UpdateCompanyRequest campos opcionales. PlanID y Status solo los aplica super_admin.
type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
	Industry *string `json:"industry"`
	PlanID   *string `json:"plan_id"`
	Status   *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// AssignSalesRepRequest asigna (o quita con null) el sales_staff de una empresa.
type AssignSalesRepRequest struct {
	SalesRepID *string `json:"sales_rep_id"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Website            string     `json:"website"`
	Industry           string     `json:"industry"`
	PlanID             string     `json:"plan_id"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	SalesRepID         *string    `json:"sales_rep_id,omitempty"`
	Status             string     `json:"status"`
	HasAPIKey          bool       `json:"has_api_key"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CompanySummary datos mínimos para /auth/me.
type CompanySummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	PlanID             string `json:"plan_id"`
	SubscriptionStatus string `json:"subscription_status"`
	Status             string `json:"status"`
}

// CompanyListResponse listado paginado.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UsageItem consumo frente al límite del plan. Limit 0 = ilimitado.
type UsageItem struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Unlimited bool `json:"unlimited"`
}

// UsageResponse consumo del plan actual.
type UsageResponse struct {
	PlanID            string    `json:"plan_id"`
	Technicians       UsageItem `json:"technicians"`
	CheckInsThisMonth UsageItem `json:"check_ins_this_month"`
}
