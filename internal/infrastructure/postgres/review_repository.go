package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

const reviewRequestColumns = `id, company_id, technician_id, check_in_id, customer_name, customer_email, customer_phone,
	method, status, token, attempts, last_error, sent_at, reminder_sent_at, created_at, updated_at`

// ReviewRepo solicitudes y respuestas de reseña.
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository constructor.
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

func scanReviewRequest(row rowScanner) (*entity.ReviewRequest, error) {
	var r entity.ReviewRequest
	if err := row.Scan(&r.ID, &r.CompanyID, &r.TechnicianID, &r.CheckInID, &r.CustomerName, &r.CustomerEmail,
		&r.CustomerPhone, &r.Method, &r.Status, &r.Token, &r.Attempts, &r.LastError, &r.SentAt,
		&r.ReminderSentAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRequest inserta la solicitud en estado pending.
func (r *ReviewRepo) CreateRequest(ctx context.Context, rr *entity.ReviewRequest) error {
	query := `
		INSERT INTO review_requests (id, company_id, technician_id, check_in_id, customer_name, customer_email,
			customer_phone, method, status, token, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, rr.ID, rr.CompanyID, rr.TechnicianID, rr.CheckInID, rr.CustomerName,
		rr.CustomerEmail, rr.CustomerPhone, rr.Method, rr.Status, rr.Token, rr.Attempts, rr.CreatedAt, rr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert review request: %w", err)
	}
	return nil
}

func (r *ReviewRepo) getRequest(ctx context.Context, where string, args ...any) (*entity.ReviewRequest, error) {
	rr, err := scanReviewRequest(r.q.QueryRow(ctx, `SELECT `+reviewRequestColumns+` FROM review_requests WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review request: %w", err)
	}
	return rr, nil
}

// GetRequest solicitud de la empresa.
func (r *ReviewRepo) GetRequest(ctx context.Context, companyID, id string) (*entity.ReviewRequest, error) {
	return r.getRequest(ctx, "id = $1 AND company_id = $2", id, companyID)
}

// GetRequestByID solicitud sin filtro de tenant (worker).
func (r *ReviewRepo) GetRequestByID(ctx context.Context, id string) (*entity.ReviewRequest, error) {
	return r.getRequest(ctx, "id = $1", id)
}

// GetRequestByToken solicitud por el token del enlace público.
func (r *ReviewRepo) GetRequestByToken(ctx context.Context, token string) (*entity.ReviewRequest, error) {
	return r.getRequest(ctx, "token = $1", token)
}

func (r *ReviewRepo) listRequests(ctx context.Context, query string, args ...any) ([]*entity.ReviewRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReviewRequest
	for rows.Next() {
		rr, err := scanReviewRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review request: %w", err)
		}
		list = append(list, rr)
	}
	return list, rows.Err()
}

// ListRequests solicitudes de la empresa; technicianID vacío = todos.
func (r *ReviewRepo) ListRequests(ctx context.Context, companyID, technicianID string, limit, offset int) ([]*entity.ReviewRequest, error) {
	limit, offset = clampPage(limit, offset)
	return r.listRequests(ctx, `SELECT `+reviewRequestColumns+` FROM review_requests
		WHERE company_id = $1 AND ($2 = '' OR technician_id::text = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, companyID, technicianID, limit, offset)
}

// UpdateDelivery guarda el resultado de un intento de envío.
func (r *ReviewRepo) UpdateDelivery(ctx context.Context, rr *entity.ReviewRequest) error {
	_, err := r.q.Exec(ctx, `
		UPDATE review_requests SET status = $2, attempts = $3, last_error = $4, sent_at = $5, updated_at = $6
		WHERE id = $1 AND status <> 'completed'`,
		rr.ID, rr.Status, rr.Attempts, rr.LastError, rr.SentAt, rr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review delivery: %w", err)
	}
	return nil
}

// MarkReminderSent registra el recordatorio; solo se envía uno por solicitud.
func (r *ReviewRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE review_requests SET reminder_sent_at = $2, updated_at = $2
		WHERE id = $1 AND reminder_sent_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// ListPendingDispatch pending creadas antes de olderThan con intentos disponibles.
func (r *ReviewRepo) ListPendingDispatch(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]*entity.ReviewRequest, error) {
	return r.listRequests(ctx, `SELECT `+reviewRequestColumns+` FROM review_requests
		WHERE status = 'pending' AND created_at <= $1 AND attempts < $2
		ORDER BY created_at LIMIT $3`, olderThan, maxAttempts, limit)
}

// ListAwaitingReminder enviadas antes de sentBefore, sin respuesta ni recordatorio.
func (r *ReviewRepo) ListAwaitingReminder(ctx context.Context, sentBefore time.Time, limit int) ([]*entity.ReviewRequest, error) {
	return r.listRequests(ctx, `SELECT `+reviewRequestColumns+` FROM review_requests
		WHERE status = 'sent' AND sent_at <= $1 AND reminder_sent_at IS NULL
		ORDER BY sent_at LIMIT $2`, sentBefore, limit)
}

// CompleteWithResponse pasa la solicitud a completed e inserta la respuesta en una sola sentencia.
// Si la solicitud ya estaba completed no se inserta nada y devuelve domain.ErrAlreadyCompleted.
func (r *ReviewRepo) CompleteWithResponse(ctx context.Context, resp *entity.ReviewResponse) error {
	const query = `
		WITH req AS (
			UPDATE review_requests SET status = 'completed', updated_at = now()
			WHERE id = $1 AND status <> 'completed'
			RETURNING id, company_id, technician_id
		)
		INSERT INTO review_responses (id, review_request_id, company_id, technician_id, rating, feedback, public_consent, created_at)
		SELECT $2, req.id, req.company_id, req.technician_id, $3, $4, $5, $6 FROM req
		RETURNING company_id, technician_id`
	err := r.q.QueryRow(ctx, query, resp.ReviewRequestID, resp.ID, resp.Rating, resp.Feedback,
		resp.PublicConsent, resp.CreatedAt).Scan(&resp.CompanyID, &resp.TechnicianID)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrAlreadyCompleted
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyCompleted
		}
		return fmt.Errorf("complete review: %w", err)
	}
	return nil
}

// ListResponses respuestas más recientes; onlyPublic filtra las que el cliente autorizó publicar.
func (r *ReviewRepo) ListResponses(ctx context.Context, companyID string, onlyPublic bool, limit int) ([]*entity.ReviewResponse, error) {
	limit, _ = clampPage(limit, 0)
	rows, err := r.q.Query(ctx, `
		SELECT rs.id, rs.review_request_id, rs.company_id, rs.technician_id, rs.rating, rs.feedback,
			rs.public_consent, rq.customer_name, rs.created_at
		FROM review_responses rs
		JOIN review_requests rq ON rq.id = rs.review_request_id
		WHERE rs.company_id = $1 AND ($2 = false OR rs.public_consent = true)
		ORDER BY rs.created_at DESC LIMIT $3`, companyID, onlyPublic, limit)
	if err != nil {
		return nil, fmt.Errorf("list review responses: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReviewResponse
	for rows.Next() {
		var x entity.ReviewResponse
		if err := rows.Scan(&x.ID, &x.ReviewRequestID, &x.CompanyID, &x.TechnicianID, &x.Rating, &x.Feedback,
			&x.PublicConsent, &x.CustomerName, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review response: %w", err)
		}
		list = append(list, &x)
	}
	return list, rows.Err()
}

// Stats conteo por estado y calificación promedio de la empresa.
func (r *ReviewRepo) Stats(ctx context.Context, companyID string) (*entity.ReviewStats, error) {
	const query = `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'sent'),
			count(*) FILTER (WHERE status = 'failed'),
			count(*) FILTER (WHERE status = 'completed'),
			(SELECT COALESCE(avg(rating), 0)::float8 FROM review_responses WHERE company_id = $1)
		FROM review_requests WHERE company_id = $1`
	var s entity.ReviewStats
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&s.Total, &s.Pending, &s.Sent, &s.Failed,
		&s.Completed, &s.AverageRating); err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	return &s, nil
}
