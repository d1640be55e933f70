package queue

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

var _ ports.ReviewQueue = (*InMemoryQueue)(nil)

// InMemoryQueue cola en proceso para desarrollo (un solo binario con API y worker).
type InMemoryQueue struct {
	jobs chan string
	log  *logger.Logger
}

// NewInMemoryQueue crea la cola con el buffer indicado.
func NewInMemoryQueue(size int, log *logger.Logger) *InMemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &InMemoryQueue{jobs: make(chan string, size), log: log}
}

// Publish no bloquea: con el buffer lleno devuelve error y la solicitud queda para el job de despacho.
func (q *InMemoryQueue) Publish(_ context.Context, reviewRequestID string) error {
	select {
	case q.jobs <- reviewRequestID:
		return nil
	default:
		return fmt.Errorf("queue: buffer lleno")
	}
}

// Consume procesa en serie hasta que ctx se cancele.
func (q *InMemoryQueue) Consume(ctx context.Context, handler func(ctx context.Context, reviewRequestID string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case id := <-q.jobs:
			if err := handler(ctx, id); err != nil {
				q.log.Error().Err(err).Str("review_request_id", id).Msg("error procesando solicitud de reseña")
			}
		}
	}
}

// Close no hace nada; la cola muere con el proceso.
func (q *InMemoryQueue) Close() error { return nil }
