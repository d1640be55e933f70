package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

type technicianFixture struct {
	uc        *TechnicianUseCase
	repo      *mocks.TechnicianRepository
	companies *mocks.CompanyRepository
	plans     *mocks.PlanRepository
	users     *mocks.UserRepository
	codec     *mocks.SpreadsheetCodec
}

func newTechnicianFixture(maxTechs, active int) *technicianFixture {
	f := &technicianFixture{
		repo:      &mocks.TechnicianRepository{},
		companies: &mocks.CompanyRepository{},
		plans:     &mocks.PlanRepository{},
		users:     &mocks.UserRepository{},
		codec:     &mocks.SpreadsheetCodec{},
	}
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", PlanID: entity.PlanStarter}, nil)
	f.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(&entity.SubscriptionPlan{ID: entity.PlanStarter, MaxTechnicians: maxTechs}, nil)
	f.repo.On("CountActive", mock.Anything, "c1").Return(active, nil)
	f.uc = NewTechnicianUseCase(f.repo, f.companies, f.plans, f.users, f.codec)
	return f
}

func TestTechnicianCreate_OK(t *testing.T) {
	f := newTechnicianFixture(5, 2)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Technician")).Return(nil)

	out, err := f.uc.Create(context.Background(), "c1", dto.CreateTechnicianRequest{Name: " Luis ", Email: "LUIS@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "Luis", out.Name)
	assert.Equal(t, "luis@acme.com", out.Email)
	assert.True(t, out.Active)
}

func TestTechnicianCreate_LimiteDelPlan(t *testing.T) {
	f := newTechnicianFixture(2, 2)

	_, err := f.uc.Create(context.Background(), "c1", dto.CreateTechnicianRequest{Name: "Luis"})
	assert.ErrorIs(t, err, domain.ErrPlanLimitReached)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTechnicianCreate_PlanIlimitado(t *testing.T) {
	f := newTechnicianFixture(0, 500)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Create(context.Background(), "c1", dto.CreateTechnicianRequest{Name: "Luis"})
	assert.NoError(t, err)
}

func TestTechnicianCreate_UserDeOtraEmpresa(t *testing.T) {
	f := newTechnicianFixture(5, 0)
	other := "c2"
	f.users.On("GetByID", mock.Anything, "u1").Return(&entity.User{ID: "u1", CompanyID: &other, Role: entity.RoleTechnician}, nil)

	uid := "u1"
	_, err := f.uc.Create(context.Background(), "c1", dto.CreateTechnicianRequest{Name: "Luis", UserID: &uid})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTechnicianGet_OtraEmpresa(t *testing.T) {
	f := newTechnicianFixture(5, 0)
	f.repo.On("GetByID", mock.Anything, "c1", "t9").Return(nil, nil)

	_, err := f.uc.Get(context.Background(), "c1", "t9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTechnicianImport_RechazaFilasYExceso(t *testing.T) {
	f := newTechnicianFixture(2, 1)
	f.codec.On("ParseTechnicians", mock.Anything).Return([]ports.TechnicianRow{
		{Line: 2, Name: "Ana", Email: "ana@acme.com"},
		{Line: 3, Name: "Beto", Email: "no-email"},
		{Line: 4, Name: "Carla"},
	}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Import(context.Background(), "c1", bytes.NewReader(nil))
	require.NoError(t, err)
	require.Len(t, out.Created, 1)
	assert.Equal(t, "Ana", out.Created[0].Name)
	require.Len(t, out.Rejected, 2)
	assert.Equal(t, 3, out.Rejected[0].Line)
	assert.Equal(t, 4, out.Rejected[1].Line)
	assert.Equal(t, domain.ErrPlanLimitReached.Error(), out.Rejected[1].Reason)
}
