package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStorage almacenamiento de archivos (fotos de visitas, plugin WP).
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ImageProcessor genera miniaturas JPEG de las fotos subidas.
type ImageProcessor interface {
	Thumbnail(data []byte, maxWidth int) ([]byte, error)
}
