package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// monthStart primer instante del mes de t (UTC).
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// companyPlan carga la empresa activa y su plan.
func companyPlan(ctx context.Context, companies repository.CompanyRepository, plans repository.PlanRepository, companyID string) (*entity.Company, *entity.SubscriptionPlan, error) {
	company, err := companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	plan, err := plans.GetByID(ctx, company.PlanID)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, fmt.Errorf("plan %s de la empresa %s no existe", company.PlanID, company.ID)
	}
	return company, plan, nil
}

func setIfNotNil(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func pageOf(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
