package repository

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// TechnicianStats métricas de un técnico.
type TechnicianStats struct {
	CheckIns          int
	CheckInsThisMonth int
	ReviewsRequested  int
	ReviewsCompleted  int
	AverageRating     float64
}

// TechnicianRepository persistencia de técnicos (siempre acotada por company_id).
type TechnicianRepository interface {
	Create(ctx context.Context, t *entity.Technician) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Technician, error)
	GetByEmail(ctx context.Context, companyID, email string) (*entity.Technician, error)
	Update(ctx context.Context, t *entity.Technician) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Technician, error)
	CountActive(ctx context.Context, companyID string) (int, error)
	SoftDelete(ctx context.Context, companyID, id string) error
	Stats(ctx context.Context, companyID, id string) (*TechnicianStats, error)
}
