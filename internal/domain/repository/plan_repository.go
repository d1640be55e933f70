package repository

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// PlanRepository lectura de planes de suscripción.
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error)
	ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error)
}
