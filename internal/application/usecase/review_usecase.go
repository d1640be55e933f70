package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

const (
	dispatchDelay  = time.Minute
	reminderAfter  = 72 * time.Hour
	jobBatchSize   = 100
	maxFeedbackLen = 5000
)

// Plantillas de mensajes. Variables: {customer_name}, {company_name}, {technician_name}, {review_url}.
const (
	reviewEmailSubject = "How did {technician_name} do? Review {company_name}"
	reviewEmailBody    = `<p>Hi {customer_name},</p>
<p>Thank you for choosing {company_name}. {technician_name} recently completed a visit for you and we would love to hear how it went.</p>
<p><a href="{review_url}">Leave a quick review</a></p>
<p>It only takes a minute.</p>`
	reviewSMSBody = "Hi {customer_name}, thanks for choosing {company_name}! How did {technician_name} do? Leave a quick review: {review_url}"

	reminderEmailSubject = "Reminder: share your experience with {company_name}"
	reminderEmailBody    = `<p>Hi {customer_name},</p>
<p>We haven't heard back yet. If you have a minute, tell us how {technician_name} did.</p>
<p><a href="{review_url}">Leave a review</a></p>`
	reminderSMSBody = "Hi {customer_name}, a quick reminder from {company_name}: how did {technician_name} do? {review_url}"
)

// RenderTemplate reemplaza las variables {clave} por sus valores.
func RenderTemplate(tpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// ReviewUseCase solicitudes de reseña: alta, envío por cola, reintentos, recordatorios
// y la respuesta pública del cliente.
type ReviewUseCase struct {
	repo        repository.ReviewRepository
	companies   repository.CompanyRepository
	technicians repository.TechnicianRepository
	queue       ports.ReviewQueue
	email       ports.EmailSender
	sms         ports.SMSSender
	publicURL   string
	log         *logger.Logger
	now         func() time.Time
}

// NewReviewUseCase construye el caso de uso. publicURL es la URL del frontend donde
// vive la página /review/{token}.
func NewReviewUseCase(
	repo repository.ReviewRepository,
	companies repository.CompanyRepository,
	technicians repository.TechnicianRepository,
	queue ports.ReviewQueue,
	email ports.EmailSender,
	sms ports.SMSSender,
	publicURL string,
	log *logger.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		repo:        repo,
		companies:   companies,
		technicians: technicians,
		queue:       queue,
		email:       email,
		sms:         sms,
		publicURL:   strings.TrimRight(publicURL, "/"),
		log:         log,
		now:         time.Now,
	}
}

// Create registra la solicitud y la encola. Un técnico solo crea solicitudes propias.
func (uc *ReviewUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateReviewRequestRequest) (*dto.ReviewRequestResponse, error) {
	techID := in.TechnicianID
	if p.IsTechnician() {
		own, err := uc.technicians.GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if own == nil || own.CompanyID != p.CompanyID {
			return nil, domain.ErrForbidden
		}
		techID = own.ID
	}
	if techID == "" {
		return nil, fmt.Errorf("%w: technician_id es obligatorio", domain.ErrInvalidInput)
	}
	tech, err := uc.technicians.GetByID(ctx, p.CompanyID, techID)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, domain.ErrNotFound
	}
	r, err := uc.request(ctx, p.CompanyID, tech.ID, in)
	if err != nil {
		return nil, err
	}
	out := dto.NewReviewRequestResponse(r)
	return &out, nil
}

// CreateForCheckIn solicitud automática tras una visita.
func (uc *ReviewUseCase) CreateForCheckIn(ctx context.Context, c *entity.CheckIn, method string) (*entity.ReviewRequest, error) {
	checkInID := c.ID
	return uc.request(ctx, c.CompanyID, c.TechnicianID, dto.CreateReviewRequestRequest{
		CheckInID:     &checkInID,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		Method:        method,
	})
}

func (uc *ReviewUseCase) request(ctx context.Context, companyID, technicianID string, in dto.CreateReviewRequestRequest) (*entity.ReviewRequest, error) {
	email := dto.NormalizeEmail(in.CustomerEmail)
	phone := strings.TrimSpace(in.CustomerPhone)
	method := in.Method
	if method == "" {
		method = entity.ReviewMethodEmail
		if email == "" {
			method = entity.ReviewMethodSMS
		}
	}
	switch method {
	case entity.ReviewMethodEmail:
		if !dto.ValidEmail(email) {
			return nil, fmt.Errorf("%w: el cliente no tiene un email válido", domain.ErrInvalidInput)
		}
	case entity.ReviewMethodSMS:
		if phone == "" {
			return nil, fmt.Errorf("%w: el cliente no tiene teléfono", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: method debe ser email o sms", domain.ErrInvalidInput)
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = "there"
	}

	token, err := newReviewToken()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	r := &entity.ReviewRequest{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		TechnicianID:  technicianID,
		CheckInID:     in.CheckInID,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Method:        method,
		Status:        entity.ReviewStatusPending,
		Token:         token,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}
	uc.enqueue(ctx, r.ID)
	return r, nil
}

// enqueue publica en la cola. Si falla, el job review-dispatch la reintenta.
func (uc *ReviewUseCase) enqueue(ctx context.Context, id string) {
	if err := uc.queue.Publish(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("review_request_id", id).Msg("no se pudo encolar la solicitud de reseña")
	}
}

// Get solicitud de la empresa.
func (uc *ReviewUseCase) Get(ctx context.Context, companyID, id string) (*dto.ReviewRequestResponse, error) {
	r, err := uc.repo.GetRequest(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewReviewRequestResponse(r)
	return &out, nil
}

// List solicitudes; un técnico solo ve las suyas.
func (uc *ReviewUseCase) List(ctx context.Context, p entity.Principal, technicianID string, limit, offset int) (*dto.ReviewRequestListResponse, error) {
	if technicianID != "" && !dto.ValidID(technicianID) {
		return nil, fmt.Errorf("%w: technician_id inválido", domain.ErrInvalidInput)
	}
	if p.IsTechnician() {
		own, err := uc.technicians.GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if own == nil {
			return nil, domain.ErrForbidden
		}
		technicianID = own.ID
	}
	limit, offset = pageOf(limit, offset)
	list, err := uc.repo.ListRequests(ctx, p.CompanyID, technicianID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReviewRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.NewReviewRequestResponse(r))
	}
	return &dto.ReviewRequestListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Resend reinicia intentos y vuelve a encolar. Una solicitud respondida no se reenvía.
func (uc *ReviewUseCase) Resend(ctx context.Context, companyID, id string) (*dto.ReviewRequestResponse, error) {
	r, err := uc.repo.GetRequest(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if r.Status == entity.ReviewStatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}
	r.Status = entity.ReviewStatusPending
	r.Attempts = 0
	r.LastError = ""
	r.UpdatedAt = uc.now()
	if err := uc.repo.UpdateDelivery(ctx, r); err != nil {
		return nil, err
	}
	uc.enqueue(ctx, r.ID)
	out := dto.NewReviewRequestResponse(r)
	return &out, nil
}

// Stats conteos por estado y promedio.
func (uc *ReviewUseCase) Stats(ctx context.Context, companyID string) (*dto.ReviewStatsResponse, error) {
	s, err := uc.repo.Stats(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.ReviewStatsResponse{
		Total:         s.Total,
		Pending:       s.Pending,
		Sent:          s.Sent,
		Failed:        s.Failed,
		Completed:     s.Completed,
		AverageRating: s.AverageRating,
	}, nil
}

// Deliver envía una solicitud pendiente (lo llama el worker por cada mensaje de la cola).
// Mensajes de solicitudes inexistentes o ya procesadas se descartan sin error.
// Tras MaxReviewAttempts fallos la solicitud queda en failed.
func (uc *ReviewUseCase) Deliver(ctx context.Context, id string) error {
	r, err := uc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil || r.Status != entity.ReviewStatusPending {
		return nil
	}

	vars, err := uc.templateVars(ctx, r)
	if err == nil {
		err = uc.send(ctx, r, vars, reviewEmailSubject, reviewEmailBody, reviewSMSBody)
	}

	now := uc.now()
	r.Attempts++
	r.UpdatedAt = now
	if err != nil {
		r.LastError = truncate(err.Error(), 500)
		if r.Attempts >= entity.MaxReviewAttempts {
			r.Status = entity.ReviewStatusFailed
		}
	} else {
		r.Status = entity.ReviewStatusSent
		r.SentAt = &now
		r.LastError = ""
	}
	if uerr := uc.repo.UpdateDelivery(ctx, r); uerr != nil {
		return errors.Join(err, uerr)
	}
	return err
}

// DispatchPending re-publica las solicitudes pendientes que siguen sin enviarse.
func (uc *ReviewUseCase) DispatchPending(ctx context.Context) error {
	list, err := uc.repo.ListPendingDispatch(ctx, uc.now().Add(-dispatchDelay), entity.MaxReviewAttempts, jobBatchSize)
	if err != nil {
		return err
	}
	for _, r := range list {
		if err := uc.queue.Publish(ctx, r.ID); err != nil {
			return fmt.Errorf("review-dispatch: publicar %s: %w", r.ID, err)
		}
	}
	if len(list) > 0 {
		uc.log.Info().Int("count", len(list)).Msg("solicitudes de reseña re-encoladas")
	}
	return nil
}

// SendReminders envía un único recordatorio a las solicitudes enviadas hace más de 3 días sin respuesta.
func (uc *ReviewUseCase) SendReminders(ctx context.Context) error {
	list, err := uc.repo.ListAwaitingReminder(ctx, uc.now().Add(-reminderAfter), jobBatchSize)
	if err != nil {
		return err
	}
	sent := 0
	for _, r := range list {
		vars, err := uc.templateVars(ctx, r)
		if err == nil {
			err = uc.send(ctx, r, vars, reminderEmailSubject, reminderEmailBody, reminderSMSBody)
		}
		if err != nil {
			uc.log.Warn().Err(err).Str("review_request_id", r.ID).Msg("recordatorio no enviado")
			continue
		}
		if err := uc.repo.MarkReminderSent(ctx, r.ID, uc.now()); err != nil {
			return err
		}
		sent++
	}
	if sent > 0 {
		uc.log.Info().Int("count", sent).Msg("recordatorios de reseña enviados")
	}
	return nil
}

// GetPublic datos para la página pública de reseña.
func (uc *ReviewUseCase) GetPublic(ctx context.Context, token string) (*dto.PublicReviewResponse, error) {
	r, err := uc.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	vars, err := uc.templateVars(ctx, r)
	if err != nil {
		return nil, err
	}
	return &dto.PublicReviewResponse{
		CompanyName:    vars["company_name"],
		TechnicianName: vars["technician_name"],
		CustomerName:   r.CustomerName,
		Completed:      r.Status == entity.ReviewStatusCompleted,
	}, nil
}

// Submit registra la respuesta del cliente. domain.ErrAlreadyCompleted si ya respondió.
func (uc *ReviewUseCase) Submit(ctx context.Context, token string, in dto.SubmitReviewRequest) error {
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating debe estar entre 1 y 5", domain.ErrInvalidInput)
	}
	r, err := uc.byToken(ctx, token)
	if err != nil {
		return err
	}
	if r.Status == entity.ReviewStatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	return uc.repo.CompleteWithResponse(ctx, &entity.ReviewResponse{
		ID:              uuid.New().String(),
		ReviewRequestID: r.ID,
		CompanyID:       r.CompanyID,
		TechnicianID:    r.TechnicianID,
		Rating:          in.Rating,
		Feedback:        truncate(strings.TrimSpace(in.Feedback), maxFeedbackLen),
		PublicConsent:   in.PublicConsent,
		CreatedAt:       uc.now(),
	})
}

// PublicReviews reseñas con consentimiento público (plugin WordPress).
func (uc *ReviewUseCase) PublicReviews(ctx context.Context, companyID string, limit int) ([]dto.ReviewItemResponse, error) {
	limit, _ = pageOf(limit, 0)
	list, err := uc.repo.ListResponses(ctx, companyID, true, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReviewItemResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReviewItemResponse{
			ID:           r.ID,
			TechnicianID: r.TechnicianID,
			CustomerName: r.CustomerName,
			Rating:       r.Rating,
			Feedback:     r.Feedback,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

func (uc *ReviewUseCase) byToken(ctx context.Context, token string) (*entity.ReviewRequest, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	r, err := uc.repo.GetRequestByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (uc *ReviewUseCase) templateVars(ctx context.Context, r *entity.ReviewRequest) (map[string]string, error) {
	company, err := uc.companies.GetByID(ctx, r.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("empresa %s no encontrada: %w", r.CompanyID, domain.ErrNotFound)
	}
	techName := "our technician"
	tech, err := uc.technicians.GetByID(ctx, r.CompanyID, r.TechnicianID)
	if err != nil {
		return nil, err
	}
	if tech != nil {
		techName = tech.Name
	}
	return map[string]string{
		"customer_name":   r.CustomerName,
		"company_name":    company.Name,
		"technician_name": techName,
		"review_url":      uc.publicURL + "/review/" + r.Token,
	}, nil
}

func (uc *ReviewUseCase) send(ctx context.Context, r *entity.ReviewRequest, vars map[string]string, subject, emailBody, smsBody string) error {
	switch r.Method {
	case entity.ReviewMethodSMS:
		return uc.sms.SendSMS(ctx, r.CustomerPhone, RenderTemplate(smsBody, vars))
	default:
		escaped := make(map[string]string, len(vars))
		for k, v := range vars {
			escaped[k] = html.EscapeString(v)
		}
		return uc.email.SendEmail(ctx, r.CustomerEmail, RenderTemplate(subject, vars), RenderTemplate(emailBody, escaped))
	}
}

// newReviewToken 32 bytes aleatorios en hex.
func newReviewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
