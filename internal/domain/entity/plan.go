package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de plan sembrados por la migración inicial.
const (
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanAgency  = "agency"
)

// SubscriptionPlan plan de suscripción con sus límites de uso.
// Un límite en 0 significa ilimitado.
type SubscriptionPlan struct {
	ID                  string
	Name                string
	PriceMonthly        decimal.Decimal
	MaxTechnicians      int
	MaxCheckInsPerMonth int
	Features            []string
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AllowsTechnicians informa si cabe un técnico más dado el número actual.
func (p *SubscriptionPlan) AllowsTechnicians(current int) bool {
	return p.MaxTechnicians == 0 || current < p.MaxTechnicians
}

// AllowsCheckIns informa si cabe una visita más en el mes dado el número actual.
func (p *SubscriptionPlan) AllowsCheckIns(current int) bool {
	return p.MaxCheckInsPerMonth == 0 || current < p.MaxCheckInsPerMonth
}
