package ports

import "context"

// WordPressSite credenciales del sitio destino.
type WordPressSite struct {
	SiteURL     string
	Username    string
	AppPassword string
}

// WordPressPublisher publica posts vía REST API de WordPress.
type WordPressPublisher interface {
	// PublishPost crea el post (o lo actualiza si existingID != nil) y devuelve su ID en WP.
	PublishPost(ctx context.Context, site WordPressSite, title, content, slug string, existingID *int64) (int64, error)
}
