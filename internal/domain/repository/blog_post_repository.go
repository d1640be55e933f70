package repository

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// BlogPostRepository persistencia de posts.
type BlogPostRepository interface {
	Create(ctx context.Context, p *entity.BlogPost) error
	GetByID(ctx context.Context, companyID, id string) (*entity.BlogPost, error)
	Update(ctx context.Context, p *entity.BlogPost) error
	List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.BlogPost, error)
	SlugExists(ctx context.Context, companyID, slug string) (bool, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}
