package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

func newUserFixture() (*UserUseCase, *mocks.UserRepository, *mocks.CompanyRepository) {
	users := &mocks.UserRepository{}
	companies := &mocks.CompanyRepository{}
	return NewUserUseCase(users, companies), users, companies
}

var adminC1 = entity.Principal{UserID: "admin", CompanyID: "c1", Role: entity.RoleCompanyAdmin}

func TestUserCreate_AdminEnSuEmpresa(t *testing.T) {
	uc, users, _ := newUserFixture()
	users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	out, err := uc.Create(context.Background(), adminC1, dto.CreateUserRequest{
		CompanyID: "c2", Email: "Tec@Acme.com", Password: "password1", Name: "Tec", Role: entity.RoleTechnician,
	})
	require.NoError(t, err)
	require.NotNil(t, out.CompanyID)
	assert.Equal(t, "c1", *out.CompanyID, "company_admin siempre crea en su empresa")
	assert.Equal(t, "tec@acme.com", out.Email)
}

func TestUserCreate_AdminNoCreaSuperAdmin(t *testing.T) {
	uc, users, _ := newUserFixture()

	_, err := uc.Create(context.Background(), adminC1, dto.CreateUserRequest{
		Email: "x@acme.com", Password: "password1", Name: "X", Role: entity.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_SuperAdminRequiereEmpresa(t *testing.T) {
	uc, _, _ := newUserFixture()
	root := entity.Principal{UserID: "root", Role: entity.RoleSuperAdmin}

	_, err := uc.Create(context.Background(), root, dto.CreateUserRequest{
		Email: "x@acme.com", Password: "password1", Name: "X", Role: entity.RoleCompanyAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserCreate_PasswordCorto(t *testing.T) {
	uc, _, _ := newUserFixture()

	_, err := uc.Create(context.Background(), adminC1, dto.CreateUserRequest{
		Email: "x@acme.com", Password: "corto", Name: "X", Role: entity.RoleTechnician,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUpdate_OtraEmpresaNoVisible(t *testing.T) {
	uc, users, _ := newUserFixture()
	other := "c2"
	users.On("GetByID", mock.Anything, "u2").Return(&entity.User{ID: "u2", CompanyID: &other}, nil)

	name := "Nuevo"
	_, err := uc.Update(context.Background(), adminC1, "u2", dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUpdate_NoSeDesactivaASiMismo(t *testing.T) {
	uc, users, _ := newUserFixture()
	c1 := "c1"
	users.On("GetByID", mock.Anything, "admin").Return(&entity.User{ID: "admin", CompanyID: &c1, Status: entity.UserStatusActive}, nil)

	inactive := entity.UserStatusInactive
	_, err := uc.Update(context.Background(), adminC1, "admin", dto.UpdateUserRequest{Status: &inactive})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserDelete_NoSeEliminaASiMismo(t *testing.T) {
	uc, users, _ := newUserFixture()

	err := uc.Delete(context.Background(), adminC1, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
