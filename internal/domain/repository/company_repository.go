package repository

import (
	"context"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get devuelven (nil, nil) si no existe
// o está eliminada (soft delete).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Company, error)
	// SlugExists incluye empresas eliminadas: el índice único de slug también las cubre.
	SlugExists(ctx context.Context, slug string) (bool, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	ListBySalesRep(ctx context.Context, salesUserID string) ([]*entity.Company, error)
	ListDueForRenewal(ctx context.Context, now time.Time) ([]*entity.Company, error)
	Count(ctx context.Context) (int, error)
	SoftDelete(ctx context.Context, id string) error
}
