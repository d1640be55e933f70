package dto

import "time"

// CreateBlogPostRequest post escrito a mano.
type CreateBlogPostRequest struct {
	Title     string  `json:"title" validate:"required,max=300"`
	Content   string  `json:"content" validate:"required"`
	Slug      string  `json:"slug" validate:"omitempty,max=80"`
	CheckInID *string `json:"check_in_id" validate:"omitempty,uuid"`
}

// UpdateBlogPostRequest campos opcionales.
type UpdateBlogPostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Slug    *string `json:"slug"`
}

// GenerateBlogPostRequest borrador a partir de una visita.
type GenerateBlogPostRequest struct {
	CheckInID string `json:"check_in_id" validate:"required,uuid"`
}

// BlogPostResponse salida de un post.
type BlogPostResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	CheckInID       *string    `json:"check_in_id,omitempty"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Status          string     `json:"status"`
	WordPressPostID *int64     `json:"wordpress_post_id,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BlogPostListResponse listado paginado.
type BlogPostListResponse struct {
	Items []BlogPostResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
