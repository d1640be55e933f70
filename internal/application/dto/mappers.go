package dto

import "github.com/jhoicas/rankitpro-api/internal/domain/entity"

// Conversión entidad -> respuesta. Compartida por todos los casos de uso.

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func NewCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Slug:               c.Slug,
		Email:              c.Email,
		Phone:              c.Phone,
		Website:            c.Website,
		Industry:           c.Industry,
		PlanID:             c.PlanID,
		SubscriptionStatus: c.SubscriptionStatus,
		TrialEndsAt:        c.TrialEndsAt,
		CurrentPeriodEnd:   c.CurrentPeriodEnd,
		SalesRepID:         c.SalesRepID,
		Status:             c.Status,
		HasAPIKey:          c.WPAPIKeyHash != "",
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func NewCompanySummary(c *entity.Company) *CompanySummary {
	if c == nil {
		return nil
	}
	return &CompanySummary{
		ID:                 c.ID,
		Name:               c.Name,
		Slug:               c.Slug,
		PlanID:             c.PlanID,
		SubscriptionStatus: c.SubscriptionStatus,
		Status:             c.Status,
	}
}

func NewTechnicianResponse(t *entity.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:        t.ID,
		CompanyID: t.CompanyID,
		UserID:    t.UserID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		Specialty: t.Specialty,
		Location:  t.Location,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func NewCheckInResponse(c *entity.CheckIn) CheckInResponse {
	photos := c.Photos
	if photos == nil {
		photos = []string{}
	}
	return CheckInResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		TechnicianID:  c.TechnicianID,
		JobType:       c.JobType,
		Notes:         c.Notes,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		Photos:        photos,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func NewReviewRequestResponse(r *entity.ReviewRequest) ReviewRequestResponse {
	return ReviewRequestResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		TechnicianID:   r.TechnicianID,
		CheckInID:      r.CheckInID,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		Method:         r.Method,
		Status:         r.Status,
		Attempts:       r.Attempts,
		LastError:      r.LastError,
		SentAt:         r.SentAt,
		ReminderSentAt: r.ReminderSentAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewBlogPostResponse(p *entity.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		CheckInID:       p.CheckInID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Status:          p.Status,
		WordPressPostID: p.WordPressPostID,
		PublishedAt:     p.PublishedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewPlanResponse(p *entity.SubscriptionPlan) PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PlanResponse{
		ID:                  p.ID,
		Name:                p.Name,
		PriceMonthly:        p.PriceMonthly,
		MaxTechnicians:      p.MaxTechnicians,
		MaxCheckInsPerMonth: p.MaxCheckInsPerMonth,
		Features:            features,
	}
}

func NewInvoiceResponse(inv *entity.BillingInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		CompanyID:   inv.CompanyID,
		PlanID:      inv.PlanID,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
		Status:      inv.Status,
		PeriodStart: inv.PeriodStart,
		PeriodEnd:   inv.PeriodEnd,
		ExternalID:  inv.ExternalID,
		PaidAt:      inv.PaidAt,
		CreatedAt:   inv.CreatedAt,
	}
}

func NewCommissionResponse(c *entity.SalesCommission) CommissionResponse {
	return CommissionResponse{
		ID:          c.ID,
		SalesUserID: c.SalesUserID,
		CompanyID:   c.CompanyID,
		InvoiceID:   c.InvoiceID,
		Rate:        c.Rate,
		Amount:      c.Amount,
		Status:      c.Status,
		PaidAt:      c.PaidAt,
		CreatedAt:   c.CreatedAt,
	}
}
