package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/ai"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/feed"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

type blogFixture struct {
	uc           *BlogUseCase
	repo         *mocks.BlogPostRepository
	checkIns     *mocks.CheckInRepository
	companies    *mocks.CompanyRepository
	technicians  *mocks.TechnicianRepository
	integrations *mocks.IntegrationRepository
	llm          *mocks.BlogGenerator
	publisher    *mocks.WordPressPublisher
}

// newBlogFixture usa el generador real con fallback a plantilla: el mock hace de LLM.
func newBlogFixture() *blogFixture {
	f := &blogFixture{
		repo:         &mocks.BlogPostRepository{},
		checkIns:     &mocks.CheckInRepository{},
		companies:    &mocks.CompanyRepository{},
		technicians:  &mocks.TechnicianRepository{},
		integrations: &mocks.IntegrationRepository{},
		llm:          &mocks.BlogGenerator{},
		publisher:    &mocks.WordPressPublisher{},
	}
	log := logger.Nop()
	generator := ai.NewFallbackGenerator(f.llm, ai.NewTemplateGenerator(), log)
	f.uc = NewBlogUseCase(f.repo, f.checkIns, f.companies, f.technicians, f.integrations,
		generator, f.publisher, feed.NewRSSRenderer(), log)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func blogCheckIn() *entity.CheckIn {
	return &entity.CheckIn{ID: "ci1", CompanyID: "c1", TechnicianID: "t1", JobType: "ac repair",
		Notes: "Replaced capacitor", City: "Austin", State: "TX"}
}

func (f *blogFixture) expectGenerationContext() {
	f.checkIns.On("GetByID", mock.Anything, "c1", "ci1").Return(blogCheckIn(), nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Name: "Acme HVAC", Industry: "hvac"}, nil)
	f.technicians.On("GetByID", mock.Anything, "c1", "t1").Return(&entity.Technician{ID: "t1", Name: "Luis"}, nil)
}

func TestBlogGenerate_UsaLLM(t *testing.T) {
	f := newBlogFixture()
	f.expectGenerationContext()
	f.llm.On("GenerateBlogPost", mock.Anything, mock.MatchedBy(func(p ports.BlogPrompt) bool {
		return p.CompanyName == "Acme HVAC" && p.Location == "Austin, TX" && p.TechnicianName == "Luis"
	})).Return(&ports.BlogDraft{Title: "AC Repair in Austin", Content: "<p>Done.</p>"}, nil)
	f.repo.On("SlugExists", mock.Anything, "c1", "ac-repair-in-austin").Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(nil, nil)

	out, err := f.uc.Generate(context.Background(), "c1", "ci1")
	require.NoError(t, err)
	assert.Equal(t, "AC Repair in Austin", out.Title)
	assert.Equal(t, "ac-repair-in-austin", out.Slug)
	assert.Equal(t, entity.BlogStatusDraft, out.Status)
	require.NotNil(t, out.CheckInID)
	assert.Equal(t, "ci1", *out.CheckInID)
	f.publisher.AssertNotCalled(t, "PublishPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogGenerate_FallaLLMUsaPlantilla(t *testing.T) {
	f := newBlogFixture()
	f.expectGenerationContext()
	f.llm.On("GenerateBlogPost", mock.Anything, mock.Anything).Return(nil, errors.New("anthropic: 529 overloaded"))
	f.repo.On("SlugExists", mock.Anything, "c1", mock.Anything).Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(nil, nil)

	out, err := f.uc.Generate(context.Background(), "c1", "ci1")
	require.NoError(t, err)
	assert.Equal(t, "Ac Repair in Austin, TX | Acme HVAC", out.Title)
	assert.Equal(t, "ac-repair-in-austin-tx-acme-hvac", out.Slug)
	assert.Contains(t, out.Content, "Replaced capacitor")
	assert.Contains(t, out.Content, "Luis")
}

func TestBlogGenerate_AutoPublicaEnWordPress(t *testing.T) {
	f := newBlogFixture()
	f.expectGenerationContext()
	f.llm.On("GenerateBlogPost", mock.Anything, mock.Anything).Return(&ports.BlogDraft{Title: "AC Repair", Content: "<p>x</p>"}, nil)
	f.repo.On("SlugExists", mock.Anything, "c1", "ac-repair").Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(&entity.WordPressIntegration{
		CompanyID: "c1", SiteURL: "https://acme.com", Username: "admin", AppPassword: "pw", AutoPublish: true,
	}, nil)
	f.publisher.On("PublishPost", mock.Anything, mock.Anything, "AC Repair", "<p>x</p>", "ac-repair", (*int64)(nil)).Return(int64(77), nil)
	f.repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)

	out, err := f.uc.Generate(context.Background(), "c1", "ci1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlogStatusPublished, out.Status)
	require.NotNil(t, out.WordPressPostID)
	assert.Equal(t, int64(77), *out.WordPressPostID)
}

func TestBlogGenerate_VisitaDeOtraEmpresa(t *testing.T) {
	f := newBlogFixture()
	f.checkIns.On("GetByID", mock.Anything, "c2", "ci1").Return(nil, nil)

	_, err := f.uc.Generate(context.Background(), "c2", "ci1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.llm.AssertNotCalled(t, "GenerateBlogPost", mock.Anything, mock.Anything)
}

func TestBlogPublish_ConWordPress(t *testing.T) {
	f := newBlogFixture()
	wpID := int64(10)
	post := &entity.BlogPost{ID: "p1", CompanyID: "c1", Title: "T", Slug: "t", Content: "C",
		Status: entity.BlogStatusDraft, WordPressPostID: &wpID}
	f.repo.On("GetByID", mock.Anything, "c1", "p1").Return(post, nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(&entity.WordPressIntegration{
		SiteURL: "https://acme.com", Username: "admin", AppPassword: "pw",
	}, nil)
	f.publisher.On("PublishPost", mock.Anything, ports.WordPressSite{SiteURL: "https://acme.com", Username: "admin", AppPassword: "pw"},
		"T", "C", "t", &wpID).Return(int64(10), nil)
	f.repo.On("Update", mock.Anything, post).Return(nil)

	out, err := f.uc.Publish(context.Background(), "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlogStatusPublished, out.Status)
	require.NotNil(t, out.PublishedAt)
	assert.Equal(t, fixedNow, *out.PublishedAt)
	f.publisher.AssertExpectations(t)
}

func TestBlogPublish_SinWordPressSoloMarcaPublicado(t *testing.T) {
	f := newBlogFixture()
	post := &entity.BlogPost{ID: "p1", CompanyID: "c1", Title: "T", Slug: "t", Status: entity.BlogStatusDraft}
	f.repo.On("GetByID", mock.Anything, "c1", "p1").Return(post, nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(nil, nil)
	f.repo.On("Update", mock.Anything, post).Return(nil)

	out, err := f.uc.Publish(context.Background(), "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.BlogStatusPublished, out.Status)
	assert.Nil(t, out.WordPressPostID)
	f.publisher.AssertNotCalled(t, "PublishPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogPublish_ErrorDeWordPressNoMarcaPublicado(t *testing.T) {
	f := newBlogFixture()
	post := &entity.BlogPost{ID: "p1", CompanyID: "c1", Title: "T", Slug: "t", Status: entity.BlogStatusDraft}
	f.repo.On("GetByID", mock.Anything, "c1", "p1").Return(post, nil)
	f.integrations.On("GetWordPress", mock.Anything, "c1").Return(&entity.WordPressIntegration{
		SiteURL: "https://acme.com", Username: "admin", AppPassword: "pw",
	}, nil)
	f.publisher.On("PublishPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("401 rest_cannot_create"))

	_, err := f.uc.Publish(context.Background(), "c1", "p1")
	assert.ErrorContains(t, err, "rest_cannot_create")
	assert.Equal(t, entity.BlogStatusDraft, post.Status)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBlogFeed_EmpresaInactivaODesconocida(t *testing.T) {
	deleted := fixedNow
	tests := []struct {
		name    string
		company *entity.Company
	}{
		{"desconocida", nil},
		{"suspendida", &entity.Company{ID: "c1", Slug: "acme", Status: "suspended"}},
		{"eliminada", &entity.Company{ID: "c1", Slug: "acme", Status: entity.CompanyStatusActive, DeletedAt: &deleted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBlogFixture()
			if tt.company == nil {
				f.companies.On("GetBySlug", mock.Anything, "acme").Return(nil, nil)
			} else {
				f.companies.On("GetBySlug", mock.Anything, "acme").Return(tt.company, nil)
			}

			_, err := f.uc.Feed(context.Background(), "acme", "https://api.rankitpro.com")
			assert.ErrorIs(t, err, domain.ErrNotFound)
			f.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBlogFeed_EnlacesAlSitioDeLaEmpresa(t *testing.T) {
	f := newBlogFixture()
	published := fixedNow
	f.companies.On("GetBySlug", mock.Anything, "acme").Return(&entity.Company{
		ID: "c1", Name: "Acme HVAC", Slug: "acme", Website: "https://acme.com/", Status: entity.CompanyStatusActive,
	}, nil)
	f.repo.On("List", mock.Anything, "c1", entity.BlogStatusPublished, 50, 0).Return([]*entity.BlogPost{
		{ID: "p1", Title: "AC Repair", Slug: "ac-repair", Content: "<p>x</p>", PublishedAt: &published},
	}, nil)

	body, err := f.uc.Feed(context.Background(), "acme", "https://api.rankitpro.com/")
	require.NoError(t, err)
	xml := string(body)
	assert.Contains(t, xml, "<title>Acme HVAC</title>")
	assert.Contains(t, xml, "<link>https://api.rankitpro.com/api/public/companies/acme</link>")
	assert.Contains(t, xml, "<link>https://acme.com/ac-repair</link>")
	assert.Contains(t, xml, "<guid")
}

func TestBlogCreate_SlugConSufijoNumerico(t *testing.T) {
	f := newBlogFixture()
	f.repo.On("SlugExists", mock.Anything, "c1", "ac-repair").Return(true, nil)
	f.repo.On("SlugExists", mock.Anything, "c1", "ac-repair-2").Return(true, nil)
	f.repo.On("SlugExists", mock.Anything, "c1", "ac-repair-3").Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)

	out, err := f.uc.Create(context.Background(), "c1", dto.CreateBlogPostRequest{Title: "AC Repair", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "ac-repair-3", out.Slug)
	assert.Equal(t, entity.BlogStatusDraft, out.Status)
}

func TestBlogCreate_SlugAgotadoUsaSufijoAleatorio(t *testing.T) {
	f := newBlogFixture()
	f.repo.On("SlugExists", mock.Anything, "c1", mock.Anything).Return(true, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.BlogPost")).Return(nil)

	out, err := f.uc.Create(context.Background(), "c1", dto.CreateBlogPostRequest{Title: "AC Repair", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Regexp(t, `^ac-repair-[0-9a-f]{8}$`, out.Slug)
	f.repo.AssertNumberOfCalls(t, "SlugExists", maxSlugAttempts)
}

func TestBlogUpdate_SlugEnConflicto(t *testing.T) {
	f := newBlogFixture()
	f.repo.On("GetByID", mock.Anything, "c1", "p1").Return(&entity.BlogPost{ID: "p1", CompanyID: "c1", Slug: "old"}, nil)
	f.repo.On("SlugExists", mock.Anything, "c1", "taken-slug").Return(true, nil)

	s := "Taken Slug"
	_, err := f.uc.Update(context.Background(), "c1", "p1", dto.UpdateBlogPostRequest{Slug: &s})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBlogUpdate_MismoSlugNoConsulta(t *testing.T) {
	f := newBlogFixture()
	post := &entity.BlogPost{ID: "p1", CompanyID: "c1", Title: "Old", Slug: "ac-repair"}
	f.repo.On("GetByID", mock.Anything, "c1", "p1").Return(post, nil)
	f.repo.On("Update", mock.Anything, post).Return(nil)

	title, s := "New title", "AC Repair"
	out, err := f.uc.Update(context.Background(), "c1", "p1", dto.UpdateBlogPostRequest{Title: &title, Slug: &s})
	require.NoError(t, err)
	assert.Equal(t, "New title", out.Title)
	assert.Equal(t, "ac-repair", out.Slug)
	f.repo.AssertNotCalled(t, "SlugExists", mock.Anything, mock.Anything, mock.Anything)
}
