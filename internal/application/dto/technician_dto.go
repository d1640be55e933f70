package dto

import "time"

// CreateTechnicianRequest alta de técnico.
type CreateTechnicianRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"omitempty,max=50"`
	Specialty string  `json:"specialty" validate:"omitempty,max=100"`
	Location  string  `json:"location" validate:"omitempty,max=200"`
	UserID    *string `json:"user_id" validate:"omitempty,uuid"`
}

// UpdateTechnicianRequest campos opcionales.
type UpdateTechnicianRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Specialty *string `json:"specialty"`
	Location  *string `json:"location"`
	Active    *bool   `json:"active"`
}

// TechnicianResponse salida de un técnico.
type TechnicianResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TechnicianListResponse listado paginado.
type TechnicianListResponse struct {
	Items []TechnicianResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// TechnicianStatsResponse métricas de un técnico.
type TechnicianStatsResponse struct {
	TechnicianID      string  `json:"technician_id"`
	CheckIns          int     `json:"check_ins"`
	CheckInsThisMonth int     `json:"check_ins_this_month"`
	ReviewsRequested  int     `json:"reviews_requested"`
	ReviewsCompleted  int     `json:"reviews_completed"`
	AverageRating     float64 `json:"average_rating"`
}

// ImportRowError fila rechazada en la importación.
type ImportRowError struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportTechniciansResponse resultado de la importación XLSX.
type ImportTechniciansResponse struct {
	Created  []TechnicianResponse `json:"created"`
	Rejected []ImportRowError     `json:"rejected"`
}
