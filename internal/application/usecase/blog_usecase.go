package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
	"github.com/jhoicas/rankitpro-api/pkg/slug"
)

// generationTimeout las llamadas al LLM pueden tardar varios segundos.
const generationTimeout = 30 * time.Second

const maxSlugAttempts = 20

// BlogUseCase posts de blog: CRUD, borradores generados desde visitas,
// publicación en WordPress y feed RSS público.
type BlogUseCase struct {
	repo         repository.BlogPostRepository
	checkIns     repository.CheckInRepository
	companies    repository.CompanyRepository
	technicians  repository.TechnicianRepository
	integrations repository.IntegrationRepository
	generator    ports.BlogGenerator
	publisher    ports.WordPressPublisher
	feed         ports.FeedRenderer
	log          *logger.Logger
	now          func() time.Time
}

// NewBlogUseCase construye el caso de uso.
func NewBlogUseCase(
	repo repository.BlogPostRepository,
	checkIns repository.CheckInRepository,
	companies repository.CompanyRepository,
	technicians repository.TechnicianRepository,
	integrations repository.IntegrationRepository,
	generator ports.BlogGenerator,
	publisher ports.WordPressPublisher,
	feed ports.FeedRenderer,
	log *logger.Logger,
) *BlogUseCase {
	return &BlogUseCase{
		repo:         repo,
		checkIns:     checkIns,
		companies:    companies,
		technicians:  technicians,
		integrations: integrations,
		generator:    generator,
		publisher:    publisher,
		feed:         feed,
		log:          log,
		now:          time.Now,
	}
}

// Create post manual en borrador.
func (uc *BlogUseCase) Create(ctx context.Context, companyID string, in dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title y content son obligatorios", domain.ErrInvalidInput)
	}
	if in.CheckInID != nil {
		c, err := uc.checkIns.GetByID(ctx, companyID, *in.CheckInID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
	}
	base := in.Slug
	if base == "" {
		base = title
	}
	post, err := uc.newDraft(ctx, companyID, in.CheckInID, title, in.Content, base)
	if err != nil {
		return nil, err
	}
	out := dto.NewBlogPostResponse(post)
	return &out, nil
}

// Generate redacta un borrador a partir de una visita de la empresa.
func (uc *BlogUseCase) Generate(ctx context.Context, companyID, checkInID string) (*dto.BlogPostResponse, error) {
	c, err := uc.checkIns.GetByID(ctx, companyID, checkInID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	post, err := uc.GenerateFromCheckIn(ctx, c)
	if err != nil {
		return nil, err
	}
	out := dto.NewBlogPostResponse(post)
	return &out, nil
}

// GenerateFromCheckIn borrador desde una visita ya cargada. Si la integración
// WordPress tiene auto_publish se publica en el acto.
func (uc *BlogUseCase) GenerateFromCheckIn(ctx context.Context, c *entity.CheckIn) (*entity.BlogPost, error) {
	company, err := uc.companies.GetByID(ctx, c.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	prompt := ports.BlogPrompt{
		CompanyName: company.Name,
		Industry:    company.Industry,
		JobType:     c.JobType,
		Notes:       c.Notes,
		Location:    c.Location(),
	}
	if tech, err := uc.technicians.GetByID(ctx, c.CompanyID, c.TechnicianID); err == nil && tech != nil {
		prompt.TechnicianName = tech.Name
	}

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()
	draft, err := uc.generator.GenerateBlogPost(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generar post: %w", err)
	}

	checkInID := c.ID
	post, err := uc.newDraft(ctx, c.CompanyID, &checkInID, draft.Title, draft.Content, draft.Title)
	if err != nil {
		return nil, err
	}

	wp, err := uc.integrations.GetWordPress(ctx, c.CompanyID)
	if err == nil && wp != nil && wp.AutoPublish {
		if err := uc.publish(ctx, post, wp); err != nil {
			uc.log.Warn().Err(err).Str("blog_post_id", post.ID).Msg("auto-publicación en WordPress falló; queda en borrador")
		}
	}
	return post, nil
}

// Get post de la empresa.
func (uc *BlogUseCase) Get(ctx context.Context, companyID, id string) (*dto.BlogPostResponse, error) {
	post, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewBlogPostResponse(post)
	return &out, nil
}

// List posts filtrados opcionalmente por estado.
func (uc *BlogUseCase) List(ctx context.Context, companyID, status string, limit, offset int) (*dto.BlogPostListResponse, error) {
	if status != "" && status != entity.BlogStatusDraft && status != entity.BlogStatusPublished {
		return nil, fmt.Errorf("%w: status inválido", domain.ErrInvalidInput)
	}
	limit, offset = pageOf(limit, offset)
	list, err := uc.repo.List(ctx, companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BlogPostResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewBlogPostResponse(p))
	}
	return &dto.BlogPostListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update edita título, contenido o slug.
func (uc *BlogUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	post, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title vacío", domain.ErrInvalidInput)
		}
		post.Title = t
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Slug != nil {
		s := slug.Make(*in.Slug)
		if s == "" {
			return nil, fmt.Errorf("%w: slug inválido", domain.ErrInvalidInput)
		}
		if s != post.Slug {
			exists, err := uc.repo.SlugExists(ctx, companyID, s)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrDuplicate
			}
			post.Slug = s
		}
	}
	post.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	out := dto.NewBlogPostResponse(post)
	return &out, nil
}

// Delete baja lógica.
func (uc *BlogUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.SoftDelete(ctx, companyID, id)
}

// Publish publica en WordPress si está configurado y marca el post como publicado.
func (uc *BlogUseCase) Publish(ctx context.Context, companyID, id string) (*dto.BlogPostResponse, error) {
	post, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	wp, err := uc.integrations.GetWordPress(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := uc.publish(ctx, post, wp); err != nil {
		return nil, err
	}
	out := dto.NewBlogPostResponse(post)
	return &out, nil
}

func (uc *BlogUseCase) publish(ctx context.Context, post *entity.BlogPost, wp *entity.WordPressIntegration) error {
	if wp != nil && wp.SiteURL != "" && wp.AppPassword != "" {
		site := ports.WordPressSite{SiteURL: wp.SiteURL, Username: wp.Username, AppPassword: wp.AppPassword}
		wpID, err := uc.publisher.PublishPost(ctx, site, post.Title, post.Content, post.Slug, post.WordPressPostID)
		if err != nil {
			return fmt.Errorf("publicar en wordpress: %w", err)
		}
		post.WordPressPostID = &wpID
	}
	now := uc.now()
	post.Status = entity.BlogStatusPublished
	if post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	post.UpdatedAt = now
	return uc.repo.Update(ctx, post)
}

// PublishedPosts posts publicados (plugin WordPress).
func (uc *BlogUseCase) PublishedPosts(ctx context.Context, companyID string, limit int) ([]dto.BlogPostResponse, error) {
	limit, _ = pageOf(limit, 0)
	list, err := uc.repo.List(ctx, companyID, entity.BlogStatusPublished, limit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BlogPostResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewBlogPostResponse(p))
	}
	return out, nil
}

// Feed RSS 2.0 de los últimos posts publicados de la empresa con ese slug.
// baseURL es la URL pública de la API; los enlaces apuntan al sitio de la empresa si lo tiene.
func (uc *BlogUseCase) Feed(ctx context.Context, companySlug, baseURL string) ([]byte, error) {
	company, err := uc.companies.GetBySlug(ctx, companySlug)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive() {
		return nil, domain.ErrNotFound
	}
	posts, err := uc.repo.List(ctx, company.ID, entity.BlogStatusPublished, 50, 0)
	if err != nil {
		return nil, err
	}

	site := strings.TrimRight(company.Website, "/")
	channelLink := strings.TrimRight(baseURL, "/") + "/api/public/companies/" + company.Slug
	if site == "" {
		site = channelLink
	}
	ch := ports.FeedChannel{
		Title:       company.Name,
		Link:        channelLink,
		Description: "Latest work from " + company.Name,
		Items:       make([]ports.FeedItem, 0, len(posts)),
	}
	for _, p := range posts {
		item := ports.FeedItem{
			Title:       p.Title,
			Link:        site + "/" + p.Slug,
			GUID:        p.ID,
			Description: p.Content,
		}
		if p.PublishedAt != nil {
			item.PublishedAt = p.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		ch.Items = append(ch.Items, item)
	}
	return uc.feed.RenderRSS(ch)
}

func (uc *BlogUseCase) find(ctx context.Context, companyID, id string) (*entity.BlogPost, error) {
	post, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func (uc *BlogUseCase) newDraft(ctx context.Context, companyID string, checkInID *string, title, content, slugSource string) (*entity.BlogPost, error) {
	s, err := uc.uniqueSlug(ctx, companyID, slugSource)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	post := &entity.BlogPost{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CheckInID: checkInID,
		Title:     strings.TrimSpace(title),
		Slug:      s,
		Content:   content,
		Status:    entity.BlogStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// uniqueSlug base, base-2, base-3... y como último recurso un sufijo aleatorio.
func (uc *BlogUseCase) uniqueSlug(ctx context.Context, companyID, source string) (string, error) {
	base := slug.Make(source)
	if base == "" {
		base = "post"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := uc.repo.SlugExists(ctx, companyID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, strconv.Itoa(i))
	}
	return slug.WithSuffix(base, uuid.New().String()[:8]), nil
}
