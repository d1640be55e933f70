package ports

import "context"

// ReviewQueue cola de solicitudes de reseña pendientes de envío. El mensaje es el ID de la solicitud.
type ReviewQueue interface {
	Publish(ctx context.Context, reviewRequestID string) error
	// Consume bloquea hasta que ctx se cancele, llamando handler por cada mensaje.
	Consume(ctx context.Context, handler func(ctx context.Context, reviewRequestID string) error) error
	Close() error
}
