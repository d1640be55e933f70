package entity

import "time"

// Estados de un post.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// BlogPost artículo generado (o escrito) a partir de una visita.
type BlogPost struct {
	ID              string
	CompanyID       string
	CheckInID       *string
	Title           string
	Slug            string
	Content         string
	Status          string
	WordPressPostID *int64
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}
