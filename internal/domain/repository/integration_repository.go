package repository

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// IntegrationRepository configuración de WordPress y CRMs por empresa.
type IntegrationRepository interface {
	GetWordPress(ctx context.Context, companyID string) (*entity.WordPressIntegration, error)
	UpsertWordPress(ctx context.Context, wp *entity.WordPressIntegration) error
	ListCRM(ctx context.Context, companyID string) ([]*entity.CRMIntegration, error)
	GetCRM(ctx context.Context, companyID, provider string) (*entity.CRMIntegration, error)
	UpsertCRM(ctx context.Context, c *entity.CRMIntegration) error
	DeleteCRM(ctx context.Context, companyID, provider string) error
	TouchCRMEvent(ctx context.Context, id string) error
}
