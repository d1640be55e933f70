package entity

import "time"

// Canales de envío de una solicitud de reseña.
const (
	ReviewMethodEmail = "email"
	ReviewMethodSMS   = "sms"
)

// Estados de una solicitud de reseña.
const (
	ReviewStatusPending   = "pending"
	ReviewStatusSent      = "sent"
	ReviewStatusFailed    = "failed"
	ReviewStatusCompleted = "completed"
)

// MaxReviewAttempts intentos de entrega antes de dejar la solicitud en failed.
const MaxReviewAttempts = 3

// ReviewRequest mensaje saliente (email/SMS) pidiendo al cliente que deje una reseña.
type ReviewRequest struct {
	ID             string
	CompanyID      string
	TechnicianID   string
	CheckInID      *string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Method         string
	Status         string
	Token          string // token público del enlace de respuesta
	Attempts       int
	LastError      string
	SentAt         *time.Time
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReviewResponse respuesta del cliente a una solicitud.
type ReviewResponse struct {
	ID              string
	ReviewRequestID string
	CompanyID       string
	TechnicianID    string
	Rating          int
	Feedback        string
	PublicConsent   bool
	CustomerName    string // desnormalizado desde la solicitud para el plugin
	CreatedAt       time.Time
}

// ReviewStats conteos por estado y promedio de calificación.
type ReviewStats struct {
	Total         int
	Pending       int
	Sent          int
	Failed        int
	Completed     int
	AverageRating float64
}
