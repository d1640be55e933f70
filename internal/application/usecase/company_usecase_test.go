package usecase

import (
	"context"
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
)

type companyFixture struct {
	uc          *CompanyUseCase
	repo        *mocks.CompanyRepository
	plans       *mocks.PlanRepository
	users       *mocks.UserRepository
	technicians *mocks.TechnicianRepository
	checkIns    *mocks.CheckInRepository
}

func newCompanyFixture() *companyFixture {
	f := &companyFixture{
		repo:        &mocks.CompanyRepository{},
		plans:       &mocks.PlanRepository{},
		users:       &mocks.UserRepository{},
		technicians: &mocks.TechnicianRepository{},
		checkIns:    &mocks.CheckInRepository{},
	}
	f.uc = NewCompanyUseCase(f.repo, f.plans, f.users, f.technicians, f.checkIns)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func TestCompanyCreate_PruebaDe14Dias(t *testing.T) {
	f := newCompanyFixture()
	f.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(&entity.SubscriptionPlan{ID: entity.PlanStarter}, nil)
	f.repo.On("SlugExists", mock.Anything, "acme-hvac").Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Company")).Return(nil)

	out, err := f.uc.Create(context.Background(), dto.CreateCompanyRequest{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, "acme-hvac", out.Slug)
	assert.Equal(t, entity.SubscriptionTrialing, out.SubscriptionStatus)
	require.NotNil(t, out.TrialEndsAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), *out.TrialEndsAt)
}

func TestCompanyCreate_SlugDuplicado(t *testing.T) {
	f := newCompanyFixture()
	f.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(&entity.SubscriptionPlan{ID: entity.PlanStarter}, nil)
	f.repo.On("SlugExists", mock.Anything, "acme").Return(true, nil)

	_, err := f.uc.Create(context.Background(), dto.CreateCompanyRequest{Name: "Acme", Slug: "acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCompanyCreate_SlugDeEmpresaEliminadaLlevaSufijo(t *testing.T) {
	f := newCompanyFixture()
	f.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(&entity.SubscriptionPlan{ID: entity.PlanStarter}, nil)
	// "acme" pertenece a una empresa eliminada: GetBySlug no la ve pero el índice único sí.
	f.repo.On("GetBySlug", mock.Anything, "acme").Return(nil, nil).Maybe()
	f.repo.On("SlugExists", mock.Anything, "acme").Return(true, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Company")).Return(nil)

	out, err := f.uc.Create(context.Background(), dto.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.NotEqual(t, "acme", out.Slug)
	assert.True(t, strings.HasPrefix(out.Slug, "acme-"), out.Slug)
}

func TestCompanyUpdate_AdminNoCambiaPlan(t *testing.T) {
	f := newCompanyFixture()
	plan := entity.PlanAgency
	p := entity.Principal{UserID: "u1", CompanyID: "c1", Role: entity.RoleCompanyAdmin}

	_, err := f.uc.Update(context.Background(), p, "c1", dto.UpdateCompanyRequest{PlanID: &plan})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompanyAssignSalesRep_DebeSerSalesStaff(t *testing.T) {
	f := newCompanyFixture()
	f.repo.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1"}, nil)
	f.users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", Role: entity.RoleTechnician}, nil)

	rep := "u1"
	_, err := f.uc.AssignSalesRep(context.Background(), "c1", dto.AssignSalesRepRequest{SalesRepID: &rep})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyUsage(t *testing.T) {
	f := newCompanyFixture()
	f.repo.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", PlanID: entity.PlanPro}, nil)
	f.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(&entity.SubscriptionPlan{ID: entity.PlanPro, MaxTechnicians: 10}, nil)
	f.technicians.On("CountActive", mock.Anything, "c1").Return(4, nil)
	f.checkIns.On("CountSince", mock.Anything, "c1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).Return(37, nil)

	out, err := f.uc.Usage(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, dto.UsageItem{Used: 4, Limit: 10}, out.Technicians)
	assert.Equal(t, dto.UsageItem{Used: 37, Unlimited: true}, out.CheckInsThisMonth)
}
