package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

type fakeReviewRequester struct {
	calls  []string
	method string
	err    error
}

func (f *fakeReviewRequester) CreateForCheckIn(_ context.Context, c *entity.CheckIn, method string) (*entity.ReviewRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, c.ID)
	f.method = method
	return &entity.ReviewRequest{ID: "rr-" + c.ID}, nil
}

type fakeBlogDrafter struct{ err error }

func (f *fakeBlogDrafter) GenerateFromCheckIn(_ context.Context, c *entity.CheckIn) (*entity.BlogPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.BlogPost{ID: "bp-" + c.ID}, nil
}

type checkInFixture struct {
	uc          *CheckInUseCase
	repo        *mocks.CheckInRepository
	technicians *mocks.TechnicianRepository
	companies   *mocks.CompanyRepository
	plans       *mocks.PlanRepository
	reviews     *fakeReviewRequester
	blog        *fakeBlogDrafter
	storage     *mocks.ObjectStorage
}

func newCheckInFixture(maxPerMonth, used int) *checkInFixture {
	f := &checkInFixture{
		repo:        &mocks.CheckInRepository{},
		technicians: &mocks.TechnicianRepository{},
		companies:   &mocks.CompanyRepository{},
		plans:       &mocks.PlanRepository{},
		reviews:     &fakeReviewRequester{},
		blog:        &fakeBlogDrafter{},
		storage:     &mocks.ObjectStorage{},
	}
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", PlanID: entity.PlanPro}, nil)
	f.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(&entity.SubscriptionPlan{ID: entity.PlanPro, MaxCheckInsPerMonth: maxPerMonth}, nil)
	f.repo.On("CountSince", mock.Anything, "c1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).Return(used, nil)
	f.uc = NewCheckInUseCase(f.repo, f.technicians, f.companies, f.plans, f.reviews, f.blog,
		f.storage, mocks.ImageProcessor{}, &mocks.SpreadsheetCodec{}, logger.Nop())
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

var techPrincipal = entity.Principal{UserID: "u1", CompanyID: "c1", Role: entity.RoleTechnician}

func (f *checkInFixture) withOwnTechnician() {
	f.technicians.On("GetByUserID", mock.Anything, "u1").Return(&entity.Technician{ID: "t1", CompanyID: "c1", Active: true}, nil)
}

func TestCheckInCreate_TecnicoConReseñaYBlog(t *testing.T) {
	f := newCheckInFixture(100, 3)
	f.withOwnTechnician()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.CheckIn")).Return(nil)

	out, err := f.uc.Create(context.Background(), techPrincipal, dto.CreateCheckInRequest{
		TechnicianID:      "ignorado",
		JobType:           "AC repair",
		CustomerEmail:     "Cliente@Mail.com",
		SendReviewRequest: true,
		ReviewMethod:      "email",
		GenerateBlogPost:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", out.TechnicianID)
	assert.Equal(t, "cliente@mail.com", out.CustomerEmail)
	require.NotNil(t, out.ReviewRequestID)
	assert.Equal(t, "rr-"+out.ID, *out.ReviewRequestID)
	require.NotNil(t, out.BlogPostID)
	assert.Equal(t, "email", f.reviews.method)
	assert.NotNil(t, out.Photos)
}

func TestCheckInCreate_LimiteMensual(t *testing.T) {
	f := newCheckInFixture(10, 10)
	f.withOwnTechnician()

	_, err := f.uc.Create(context.Background(), techPrincipal, dto.CreateCheckInRequest{JobType: "AC"})
	assert.ErrorIs(t, err, domain.ErrPlanLimitReached)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckInCreate_FallosSecundariosNoAbortan(t *testing.T) {
	f := newCheckInFixture(0, 999)
	f.withOwnTechnician()
	f.reviews.err = errors.New("sin cola")
	f.blog.err = errors.New("sin IA")
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Create(context.Background(), techPrincipal, dto.CreateCheckInRequest{
		JobType: "Plumbing", CustomerPhone: "+1555", SendReviewRequest: true, GenerateBlogPost: true,
	})
	require.NoError(t, err)
	assert.Nil(t, out.ReviewRequestID)
	assert.Nil(t, out.BlogPostID)
}

func TestCheckInCreate_AdminRequiereTecnico(t *testing.T) {
	f := newCheckInFixture(0, 0)
	admin := entity.Principal{UserID: "u2", CompanyID: "c1", Role: entity.RoleCompanyAdmin}

	_, err := f.uc.Create(context.Background(), admin, dto.CreateCheckInRequest{JobType: "AC"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.technicians.On("GetByID", mock.Anything, "c1", "t9").Return(nil, nil)
	_, err = f.uc.Create(context.Background(), admin, dto.CreateCheckInRequest{JobType: "AC", TechnicianID: "t9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckInGet_TecnicoNoVeAjenas(t *testing.T) {
	f := newCheckInFixture(0, 0)
	f.withOwnTechnician()
	f.repo.On("GetByID", mock.Anything, "c1", "ci1").Return(&entity.CheckIn{ID: "ci1", CompanyID: "c1", TechnicianID: "t2"}, nil)

	_, err := f.uc.Get(context.Background(), techPrincipal, "ci1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckInAddPhoto(t *testing.T) {
	f := newCheckInFixture(0, 0)
	f.withOwnTechnician()
	f.repo.On("GetByID", mock.Anything, "c1", "ci1").Return(&entity.CheckIn{ID: "ci1", CompanyID: "c1", TechnicianID: "t1"}, nil)
	f.repo.On("AddPhoto", mock.Anything, "c1", "ci1", mock.AnythingOfType("string")).Return(nil)

	out, err := f.uc.AddPhoto(context.Background(), techPrincipal, "ci1", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Key, "companies/c1/check-ins/ci1/"))
	assert.True(t, strings.HasSuffix(out.Key, ".png"))
	assert.True(t, strings.HasSuffix(out.ThumbnailKey, "_thumb.jpg"))
	assert.Equal(t, "https://storage.test/"+out.Key, out.URL)
	assert.Len(t, f.storage.Objects, 2)

	_, err = f.uc.AddPhoto(context.Background(), techPrincipal, "ci1", "image/gif", []byte("gif"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.AddPhoto(context.Background(), techPrincipal, "ci1", "image/jpeg", make([]byte, MaxPhotoBytes+1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseDateParam(t *testing.T) {
	from, err := parseDateParam("2026-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := parseDateParam("2026-03-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *to)

	exact, err := parseDateParam("2026-03-01T10:00:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, 10, exact.Hour())

	none, err := parseDateParam("", false)
	assert.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseDateParam("01/03/2026", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
