package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.BlogPostRepository = (*BlogPostRepo)(nil)

const blogPostColumns = `id, company_id, check_in_id, title, slug, content, status, wordpress_post_id,
	published_at, created_at, updated_at, deleted_at`

// BlogPostRepo posts de blog por empresa.
type BlogPostRepo struct {
	q Querier
}

// NewBlogPostRepository constructor.
func NewBlogPostRepository(q Querier) *BlogPostRepo {
	return &BlogPostRepo{q: q}
}

func scanBlogPost(row rowScanner) (*entity.BlogPost, error) {
	var p entity.BlogPost
	if err := row.Scan(&p.ID, &p.CompanyID, &p.CheckInID, &p.Title, &p.Slug, &p.Content, &p.Status,
		&p.WordPressPostID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta un post. Slug repetido en la empresa -> domain.ErrDuplicate.
func (r *BlogPostRepo) Create(ctx context.Context, p *entity.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, company_id, check_in_id, title, slug, content, status, wordpress_post_id,
			published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, p.ID, p.CompanyID, p.CheckInID, p.Title, p.Slug, p.Content, p.Status,
		p.WordPressPostID, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

// GetByID post de la empresa.
func (r *BlogPostRepo) GetByID(ctx context.Context, companyID, id string) (*entity.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	p, err := scanBlogPost(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return p, nil
}

// Update actualiza contenido, estado y datos de publicación.
func (r *BlogPostRepo) Update(ctx context.Context, p *entity.BlogPost) error {
	query := `
		UPDATE blog_posts SET title = $3, slug = $4, content = $5, status = $6, wordpress_post_id = $7,
			published_at = $8, updated_at = $9
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.CompanyID, p.Title, p.Slug, p.Content, p.Status,
		p.WordPressPostID, p.PublishedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List posts de la empresa; status vacío = todos.
func (r *BlogPostRepo) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.BlogPost, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+blogPostColumns+` FROM blog_posts
		WHERE company_id = $1 AND deleted_at IS NULL AND ($2 = '' OR status = $2)
		ORDER BY COALESCE(published_at, created_at) DESC LIMIT $3 OFFSET $4`, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SlugExists informa si el slug ya está tomado en la empresa (incluye eliminados: el índice es único).
func (r *BlogPostRepo) SlugExists(ctx context.Context, companyID, slug string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE company_id = $1 AND slug = $2)`,
		companyID, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blog slug: %w", err)
	}
	return exists, nil
}

// SoftDelete marca el post como eliminado.
func (r *BlogPostRepo) SoftDelete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE blog_posts SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
