package repository

import (
	"context"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// CheckInRepository persistencia de visitas.
type CheckInRepository interface {
	Create(ctx context.Context, c *entity.CheckIn) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CheckIn, error)
	Update(ctx context.Context, c *entity.CheckIn) error
	AddPhoto(ctx context.Context, companyID, id, objectKey string) error
	List(ctx context.Context, f entity.CheckInFilter) ([]*entity.CheckIn, error)
	CountSince(ctx context.Context, companyID string, since time.Time) (int, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}
