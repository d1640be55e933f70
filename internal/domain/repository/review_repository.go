package repository

import (
	"context"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// ReviewRepository persistencia de solicitudes y respuestas de reseña.
type ReviewRepository interface {
	CreateRequest(ctx context.Context, r *entity.ReviewRequest) error
	GetRequest(ctx context.Context, companyID, id string) (*entity.ReviewRequest, error)
	// GetRequestByID sin filtro de tenant; solo para el worker de envío.
	GetRequestByID(ctx context.Context, id string) (*entity.ReviewRequest, error)
	GetRequestByToken(ctx context.Context, token string) (*entity.ReviewRequest, error)
	ListRequests(ctx context.Context, companyID, technicianID string, limit, offset int) ([]*entity.ReviewRequest, error)
	UpdateDelivery(ctx context.Context, r *entity.ReviewRequest) error
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	ListPendingDispatch(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]*entity.ReviewRequest, error)
	ListAwaitingReminder(ctx context.Context, sentBefore time.Time, limit int) ([]*entity.ReviewRequest, error)
	// CompleteWithResponse marca completed y guarda la respuesta en una sola operación.
	// Devuelve domain.ErrAlreadyCompleted si la solicitud ya estaba respondida.
	CompleteWithResponse(ctx context.Context, resp *entity.ReviewResponse) error
	ListResponses(ctx context.Context, companyID string, onlyPublic bool, limit int) ([]*entity.ReviewResponse, error)
	Stats(ctx context.Context, companyID string) (*entity.ReviewStats, error)
}
