package entity

import "time"

// Estados de la empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Estados de la suscripción de la empresa.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// TrialDays duración del periodo de prueba al registrarse.
const TrialDays = 14

// Company representa una organización/tenant del sistema: dueña de técnicos, visitas y plan.
type Company struct {
	ID                 string
	Name               string
	Slug               string // único; se usa en el feed público
	Email              string
	Phone              string
	Website            string
	Industry           string
	PlanID             string
	SubscriptionStatus string
	TrialEndsAt        *time.Time
	CurrentPeriodEnd   *time.Time
	SalesRepID         *string // usuario sales_staff que refirió la empresa
	Status             string
	WPAPIKeyHash       string // SHA-256 hex de la API key del plugin; vacío = sin key
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// IsActive informa si la empresa puede operar (login, check-ins, plugin).
func (c *Company) IsActive() bool {
	return c != nil && c.Status == CompanyStatusActive && c.DeletedAt == nil
}
