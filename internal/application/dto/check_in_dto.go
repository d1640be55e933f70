package dto

import "time"

// CreateCheckInRequest registro de una visita. TechnicianID lo ignora un técnico
// (se usa su propio registro).
type CreateCheckInRequest struct {
	TechnicianID      string   `json:"technician_id" validate:"omitempty,uuid"`
	JobType           string   `json:"job_type" validate:"required,max=120"`
	Notes             string   `json:"notes"`
	CustomerName      string   `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail     string   `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone     string   `json:"customer_phone" validate:"omitempty,max=50"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Zip               string   `json:"zip"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	SendReviewRequest bool     `json:"send_review_request"`
	ReviewMethod      string   `json:"review_method" validate:"omitempty,oneof=email sms"`
	GenerateBlogPost  bool     `json:"generate_blog_post"`
}

// UpdateCheckInRequest campos opcionales.
type UpdateCheckInRequest struct {
	JobType       *string  `json:"job_type"`
	Notes         *string  `json:"notes"`
	CustomerName  *string  `json:"customer_name"`
	CustomerEmail *string  `json:"customer_email"`
	CustomerPhone *string  `json:"customer_phone"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Zip           *string  `json:"zip"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// CheckInQuery filtros del listado (from/to en formato YYYY-MM-DD o RFC3339).
type CheckInQuery struct {
	TechnicianID string `query:"technician_id"`
	From         string `query:"from"`
	To           string `query:"to"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}

// CheckInResponse salida de una visita.
type CheckInResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	TechnicianID    string    `json:"technician_id"`
	JobType         string    `json:"job_type"`
	Notes           string    `json:"notes"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Zip             string    `json:"zip"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Photos          []string  `json:"photos"`
	ReviewRequestID *string   `json:"review_request_id,omitempty"`
	BlogPostID      *string   `json:"blog_post_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CheckInListResponse listado paginado.
type CheckInListResponse struct {
	Items []CheckInResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PhotoUploadResponse claves de la foto y su miniatura, con URL firmada de la original.
type PhotoUploadResponse struct {
	Key          string `json:"key"`
	ThumbnailKey string `json:"thumbnail_key"`
	URL          string `json:"url"`
}
