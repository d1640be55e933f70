package dto

import "time"

// CreateReviewRequestRequest solicitud manual de reseña. Method por defecto: email si hay
// correo, si no sms.
type CreateReviewRequestRequest struct {
	TechnicianID  string  `json:"technician_id" validate:"omitempty,uuid"`
	CheckInID     *string `json:"check_in_id" validate:"omitempty,uuid"`
	CustomerName  string  `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string  `json:"customer_phone" validate:"omitempty,max=50"`
	Method        string  `json:"method" validate:"omitempty,oneof=email sms"`
}

// ReviewRequestResponse salida de una solicitud (sin token).
type ReviewRequestResponse struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id"`
	TechnicianID   string     `json:"technician_id"`
	CheckInID      *string    `json:"check_in_id,omitempty"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email,omitempty"`
	CustomerPhone  string     `json:"customer_phone,omitempty"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	LastError      string     `json:"last_error,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ReviewRequestListResponse listado paginado.
type ReviewRequestListResponse struct {
	Items []ReviewRequestResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReviewStatsResponse conteos por estado y promedio.
type ReviewStatsResponse struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Sent          int     `json:"sent"`
	Failed        int     `json:"failed"`
	Completed     int     `json:"completed"`
	AverageRating float64 `json:"average_rating"`
}

// PublicReviewResponse lo que ve el cliente al abrir el enlace.
type PublicReviewResponse struct {
	CompanyName    string `json:"company_name"`
	TechnicianName string `json:"technician_name"`
	CustomerName   string `json:"customer_name"`
	Completed      bool   `json:"completed"`
}

// SubmitReviewRequest respuesta del cliente.
type SubmitReviewRequest struct {
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback      string `json:"feedback" validate:"omitempty,max=5000"`
	PublicConsent bool   `json:"public_consent"`
}

// ReviewItemResponse reseña publicada (plugin WordPress).
type ReviewItemResponse struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technician_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}
