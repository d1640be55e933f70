package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path"
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
	// MaxPhotoBytes tamaño máximo de una foto subida.
	MaxPhotoBytes  = 10 << 20
	thumbnailWidth = 320
	photoURLExpiry = time.Hour
	exportPageSize = 100
	exportMaxRows  = 5000
	dateOnlyLayout = "2006-01-02"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ReviewRequester lo cumple ReviewUseCase.
type ReviewRequester interface {
	CreateForCheckIn(ctx context.Context, c *entity.CheckIn, method string) (*entity.ReviewRequest, error)
}

// BlogDrafter lo cumple BlogUseCase.
type BlogDrafter interface {
	GenerateFromCheckIn(ctx context.Context, c *entity.CheckIn) (*entity.BlogPost, error)
}

// CheckInUseCase visitas de técnicos: alta con límite mensual del plan, fotos,
// exportación y disparo opcional de reseña y borrador de blog.
type CheckInUseCase struct {
	repo        repository.CheckInRepository
	technicians repository.TechnicianRepository
	companies   repository.CompanyRepository
	plans       repository.PlanRepository
	reviews     ReviewRequester
	blog        BlogDrafter
	storage     ports.ObjectStorage
	images      ports.ImageProcessor
	codec       ports.SpreadsheetCodec
	log         *logger.Logger
	now         func() time.Time
}

// NewCheckInUseCase construye el caso de uso.
func NewCheckInUseCase(
	repo repository.CheckInRepository,
	technicians repository.TechnicianRepository,
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	reviews ReviewRequester,
	blog BlogDrafter,
	storage ports.ObjectStorage,
	images ports.ImageProcessor,
	codec ports.SpreadsheetCodec,
	log *logger.Logger,
) *CheckInUseCase {
	return &CheckInUseCase{
		repo:        repo,
		technicians: technicians,
		companies:   companies,
		plans:       plans,
		reviews:     reviews,
		blog:        blog,
		storage:     storage,
		images:      images,
		codec:       codec,
		log:         log,
		now:         time.Now,
	}
}

// Create registra una visita. domain.ErrPlanLimitReached si se agotó el cupo del mes.
func (uc *CheckInUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateCheckInRequest) (*dto.CheckInResponse, error) {
	jobType := strings.TrimSpace(in.JobType)
	if jobType == "" {
		return nil, fmt.Errorf("%w: job_type es obligatorio", domain.ErrInvalidInput)
	}
	email := dto.NormalizeEmail(in.CustomerEmail)
	if email != "" && !dto.ValidEmail(email) {
		return nil, fmt.Errorf("%w: customer_email inválido", domain.ErrInvalidInput)
	}
	tech, err := uc.resolveTechnician(ctx, p, in.TechnicianID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkMonthlyLimit(ctx, p.CompanyID); err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.CheckIn{
		ID:            uuid.New().String(),
		CompanyID:     p.CompanyID,
		TechnicianID:  tech.ID,
		JobType:       jobType,
		Notes:         in.Notes,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: email,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		Zip:           in.Zip,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Photos:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCheckInResponse(c)

	if in.SendReviewRequest && (c.CustomerEmail != "" || c.CustomerPhone != "") {
		r, err := uc.reviews.CreateForCheckIn(ctx, c, in.ReviewMethod)
		if err != nil {
			uc.log.Warn().Err(err).Str("check_in_id", c.ID).Msg("no se pudo crear la solicitud de reseña")
		} else {
			out.ReviewRequestID = &r.ID
		}
	}
	if in.GenerateBlogPost {
		post, err := uc.blog.GenerateFromCheckIn(ctx, c)
		if err != nil {
			uc.log.Warn().Err(err).Str("check_in_id", c.ID).Msg("no se pudo generar el borrador de blog")
		} else {
			out.BlogPostID = &post.ID
		}
	}
	return &out, nil
}

// CreateFromWebhook visita creada por un CRM (sin principal de usuario).
func (uc *CheckInUseCase) CreateFromWebhook(ctx context.Context, c *entity.CheckIn, sendReview bool) error {
	if err := uc.checkMonthlyLimit(ctx, c.CompanyID); err != nil {
		return err
	}
	if c.Photos == nil {
		c.Photos = []string{}
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return err
	}
	if sendReview && (c.CustomerEmail != "" || c.CustomerPhone != "") {
		if _, err := uc.reviews.CreateForCheckIn(ctx, c, ""); err != nil {
			uc.log.Warn().Err(err).Str("check_in_id", c.ID).Msg("no se pudo crear la solicitud de reseña")
		}
	}
	return nil
}

// Get visita visible para el caller.
func (uc *CheckInUseCase) Get(ctx context.Context, p entity.Principal, id string) (*dto.CheckInResponse, error) {
	c, err := uc.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCheckInResponse(c)
	return &out, nil
}

// List visitas con filtros; un técnico solo ve las suyas.
func (uc *CheckInUseCase) List(ctx context.Context, p entity.Principal, q dto.CheckInQuery) (*dto.CheckInListResponse, error) {
	f, err := uc.filter(ctx, p, q)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = pageOf(q.Limit, q.Offset)
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CheckInResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewCheckInResponse(c))
	}
	return &dto.CheckInListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// Update edita una visita.
func (uc *CheckInUseCase) Update(ctx context.Context, p entity.Principal, id string, in dto.UpdateCheckInRequest) (*dto.CheckInResponse, error) {
	c, err := uc.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.JobType != nil {
		jt := strings.TrimSpace(*in.JobType)
		if jt == "" {
			return nil, fmt.Errorf("%w: job_type vacío", domain.ErrInvalidInput)
		}
		c.JobType = jt
	}
	if in.CustomerEmail != nil {
		email := dto.NormalizeEmail(*in.CustomerEmail)
		if email != "" && !dto.ValidEmail(email) {
			return nil, fmt.Errorf("%w: customer_email inválido", domain.ErrInvalidInput)
		}
		c.CustomerEmail = email
	}
	setIfNotNil(&c.Notes, in.Notes)
	setIfNotNil(&c.CustomerName, in.CustomerName)
	setIfNotNil(&c.CustomerPhone, in.CustomerPhone)
	setIfNotNil(&c.Address, in.Address)
	setIfNotNil(&c.City, in.City)
	setIfNotNil(&c.State, in.State)
	setIfNotNil(&c.Zip, in.Zip)
	if in.Latitude != nil {
		c.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		c.Longitude = in.Longitude
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCheckInResponse(c)
	return &out, nil
}

// Delete baja lógica.
func (uc *CheckInUseCase) Delete(ctx context.Context, p entity.Principal, id string) error {
	if _, err := uc.visible(ctx, p, id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, p.CompanyID, id)
}

// AddPhoto guarda la foto y una miniatura JPEG de 320px en el bucket.
func (uc *CheckInUseCase) AddPhoto(ctx context.Context, p entity.Principal, id, contentType string, data []byte) (*dto.PhotoUploadResponse, error) {
	c, err := uc.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: formato de imagen no soportado (%s)", domain.ErrInvalidInput, contentType)
	}
	if len(data) == 0 || len(data) > MaxPhotoBytes {
		return nil, fmt.Errorf("%w: la foto debe pesar entre 1 byte y 10 MB", domain.ErrInvalidInput)
	}
	thumb, err := uc.images.Thumbnail(data, thumbnailWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: imagen ilegible: %v", domain.ErrInvalidInput, err)
	}

	name := uuid.New().String()
	dir := path.Join("companies", c.CompanyID, "check-ins", c.ID)
	key := path.Join(dir, name+ext)
	thumbKey := path.Join(dir, name+"_thumb.jpg")

	if err := uc.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}
	if err := uc.storage.Put(ctx, thumbKey, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		return nil, err
	}
	if err := uc.repo.AddPhoto(ctx, c.CompanyID, c.ID, key); err != nil {
		return nil, err
	}
	url, err := uc.storage.PresignedURL(ctx, key, photoURLExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.PhotoUploadResponse{Key: key, ThumbnailKey: thumbKey, URL: url}, nil
}

// Export XLSX de las visitas filtradas (hasta 5000 filas).
func (uc *CheckInUseCase) Export(ctx context.Context, p entity.Principal, q dto.CheckInQuery) ([]byte, error) {
	f, err := uc.filter(ctx, p, q)
	if err != nil {
		return nil, err
	}
	var all []*entity.CheckIn
	for offset := 0; offset < exportMaxRows; offset += exportPageSize {
		f.Limit, f.Offset = exportPageSize, offset
		page, err := uc.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	names := map[string]string{}
	for _, c := range all {
		if _, ok := names[c.TechnicianID]; ok {
			continue
		}
		names[c.TechnicianID] = ""
		if t, err := uc.technicians.GetByID(ctx, p.CompanyID, c.TechnicianID); err == nil && t != nil {
			names[c.TechnicianID] = t.Name
		}
	}
	return uc.codec.ExportCheckIns(all, names)
}

// RecentForCompany últimas visitas publicables (plugin WordPress).
func (uc *CheckInUseCase) RecentForCompany(ctx context.Context, companyID string, limit int) ([]dto.CheckInResponse, error) {
	limit, _ = pageOf(limit, 0)
	list, err := uc.repo.List(ctx, entity.CheckInFilter{CompanyID: companyID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CheckInResponse, 0, len(list))
	for _, c := range list {
		r := dto.NewCheckInResponse(c)
		// datos de contacto del cliente no salen al sitio público
		r.CustomerEmail, r.CustomerPhone, r.Address = "", "", ""
		out = append(out, r)
	}
	return out, nil
}

func (uc *CheckInUseCase) resolveTechnician(ctx context.Context, p entity.Principal, requested string) (*entity.Technician, error) {
	if p.IsTechnician() {
		own, err := uc.ownTechnician(ctx, p)
		if err != nil {
			return nil, err
		}
		if !own.Active {
			return nil, fmt.Errorf("%w: técnico inactivo", domain.ErrForbidden)
		}
		return own, nil
	}
	if requested == "" {
		return nil, fmt.Errorf("%w: technician_id es obligatorio", domain.ErrInvalidInput)
	}
	t, err := uc.technicians.GetByID(ctx, p.CompanyID, requested)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !t.Active {
		return nil, fmt.Errorf("%w: técnico inactivo", domain.ErrInvalidInput)
	}
	return t, nil
}

func (uc *CheckInUseCase) ownTechnician(ctx context.Context, p entity.Principal) (*entity.Technician, error) {
	own, err := uc.technicians.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if own == nil || own.CompanyID != p.CompanyID {
		return nil, fmt.Errorf("%w: el usuario no tiene registro de técnico", domain.ErrForbidden)
	}
	return own, nil
}

func (uc *CheckInUseCase) visible(ctx context.Context, p entity.Principal, id string) (*entity.CheckIn, error) {
	c, err := uc.repo.GetByID(ctx, p.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if p.IsTechnician() {
		own, err := uc.ownTechnician(ctx, p)
		if err != nil {
			return nil, err
		}
		if c.TechnicianID != own.ID {
			return nil, domain.ErrNotFound
		}
	}
	return c, nil
}

func (uc *CheckInUseCase) checkMonthlyLimit(ctx context.Context, companyID string) error {
	_, plan, err := companyPlan(ctx, uc.companies, uc.plans, companyID)
	if err != nil {
		return err
	}
	used, err := uc.repo.CountSince(ctx, companyID, monthStart(uc.now()))
	if err != nil {
		return err
	}
	if !plan.AllowsCheckIns(used) {
		return domain.ErrPlanLimitReached
	}
	return nil
}

func (uc *CheckInUseCase) filter(ctx context.Context, p entity.Principal, q dto.CheckInQuery) (entity.CheckInFilter, error) {
	f := entity.CheckInFilter{CompanyID: p.CompanyID, TechnicianID: q.TechnicianID}
	if f.TechnicianID != "" && !dto.ValidID(f.TechnicianID) {
		return f, fmt.Errorf("%w: technician_id inválido", domain.ErrInvalidInput)
	}
	if p.IsTechnician() {
		own, err := uc.ownTechnician(ctx, p)
		if err != nil {
			return f, err
		}
		f.TechnicianID = own.ID
	}
	var err error
	if f.From, err = parseDateParam(q.From, false); err != nil {
		return f, err
	}
	if f.To, err = parseDateParam(q.To, true); err != nil {
		return f, err
	}
	return f, nil
}

// parseDateParam acepta YYYY-MM-DD o RFC3339. Un "to" de solo fecha incluye el día completo.
func parseDateParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
