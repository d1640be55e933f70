package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/internal/infrastructure/cache"
	"github.com/jhoicas/rankitpro-api/pkg/jwt"
)

type fixture struct {
	uc        *AuthUseCase
	users     *mocks.UserRepository
	companies *mocks.CompanyRepository
	plans     *mocks.PlanRepository
	cache     *cache.MemoryCache
}

const (
	referralUserID       = "7d1c2b6e-3f4a-4c5d-9e8f-0a1b2c3d4e5f"
	technicianUserID = "0f9e8d7c-6b5a-4493-8271-605f4e3d2c1b"
)

func newFixture() *fixture {
	f := &fixture{
		users:     &mocks.UserRepository{},
		companies: &mocks.CompanyRepository{},
		plans:     &mocks.PlanRepository{},
		cache:     cache.NewMemoryCache(),
	}
	tx := &mocks.TxRunner{Repos: repository.TxRepos{Companies: f.companies, Users: f.users}}
	f.uc = NewAuthUseCase(f.users, f.companies, f.plans, tx, f.cache, f.cache,
		JWTConfig{Secret: "secret", ExpMinutes: 60, Issuer: "test"})
	return f
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_OK(t *testing.T) {
	f := newFixture()
	companyID := "c1"
	user := &entity.User{ID: "u1", CompanyID: &companyID, Email: "ana@acme.com", PasswordHash: hashed(t, "password1"),
		Role: entity.RoleCompanyAdmin, Status: entity.UserStatusActive}
	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(user, nil)
	f.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", Status: entity.CompanyStatusActive}, nil)
	f.users.On("TouchLogin", mock.Anything, "u1").Return(nil)

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "  ANA@acme.com ", Password: "password1"})
	require.NoError(t, err)

	id, err := jwt.Parse("secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "c1", id.CompanyID)
	assert.Equal(t, entity.RoleCompanyAdmin, id.Role)
	f.users.AssertExpectations(t)
}

func TestLogin_Errores(t *testing.T) {
	companyID := "c1"
	tests := []struct {
		name    string
		user    *entity.User
		company *entity.Company
		pw      string
		want    error
	}{
		{name: "usuario inexistente", pw: "x", want: domain.ErrUnauthorized},
		{name: "password incorrecto", user: &entity.User{ID: "u1", Status: entity.UserStatusActive}, pw: "otra", want: domain.ErrUnauthorized},
		{name: "usuario inactivo", user: &entity.User{ID: "u1", Status: entity.UserStatusInactive}, pw: "password1", want: domain.ErrForbidden},
		{name: "empresa suspendida", user: &entity.User{ID: "u1", CompanyID: &companyID, Status: entity.UserStatusActive},
			company: &entity.Company{ID: "c1", Status: entity.CompanyStatusSuspended}, pw: "password1", want: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.user != nil {
				tt.user.PasswordHash = hashed(t, "password1")
				f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(tt.user, nil)
			} else {
				f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(nil, nil)
			}
			if tt.company != nil {
				f.companies.On("GetByID", mock.Anything, "c1").Return(tt.company, nil)
			}
			_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.com", Password: tt.pw})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin_LimiteDeIntentos(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(nil, nil)

	for i := 0; i < loginMaxAttempts; i++ {
		_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.com", Password: "x"})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	f.users.AssertNumberOfCalls(t, "GetByEmail", loginMaxAttempts)
}

func TestRegister_CreaEmpresaEnTrialYAdmin(t *testing.T) {
	f := newFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.uc.now = func() time.Time { return now }

	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(nil, nil)
	f.users.On("GetByID", mock.Anything, referralUserID).Return(&entity.User{ID: referralUserID, Role: entity.RoleSalesStaff}, nil)
	f.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(&entity.SubscriptionPlan{ID: entity.PlanStarter}, nil)
	f.companies.On("SlugExists", mock.Anything, "acme-hvac").Return(false, nil)

	var created *entity.Company
	f.companies.On("Create", mock.Anything, mock.AnythingOfType("*entity.Company")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Company) }).Return(nil)
	var admin *entity.User
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { admin = args.Get(1).(*entity.User) }).Return(nil)

	out, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Acme HVAC", Name: "Ana", Email: "Ana@Acme.com", Password: "password1", ReferralCode: referralUserID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	require.NotNil(t, created)
	assert.Equal(t, "acme-hvac", created.Slug)
	assert.Equal(t, entity.SubscriptionTrialing, created.SubscriptionStatus)
	assert.Equal(t, now.AddDate(0, 0, 14), *created.TrialEndsAt)
	require.NotNil(t, created.SalesRepID)
	assert.Equal(t, referralUserID, *created.SalesRepID)

	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleCompanyAdmin, admin.Role)
	assert.Equal(t, created.ID, *admin.CompanyID)
	assert.NotEqual(t, "password1", admin.PasswordHash)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(&entity.User{ID: "u1"}, nil)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Acme", Name: "Ana", Email: "ana@acme.com", Password: "password1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_ReferidoNoEsVendedor(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(nil, nil)
	f.users.On("GetByID", mock.Anything, technicianUserID).Return(&entity.User{ID: technicianUserID, Role: entity.RoleTechnician}, nil)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Acme", Name: "Ana", Email: "ana@acme.com", Password: "password1", ReferralCode: technicianUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_ReferidoMalFormado(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "ana@acme.com").Return(nil, nil)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Acme", Name: "Ana", Email: "ana@acme.com", Password: "password1", ReferralCode: "abc",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRegister_PasswordCorto(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		CompanyName: "Acme", Name: "Ana", Email: "ana@acme.com", Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogout_RevocaHastaExpiracion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.uc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := f.uc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, f.uc.Logout(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, _ = f.uc.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked, "un token ya expirado no se guarda")
}

func TestChangePassword(t *testing.T) {
	f := newFixture()
	user := &entity.User{ID: "u1", PasswordHash: hashed(t, "password1")}
	f.users.On("GetByID", mock.Anything, "u1").Return(user, nil)
	f.users.On("Update", mock.Anything, user).Return(nil)
	p := entity.Principal{UserID: "u1"}

	err := f.uc.ChangePassword(context.Background(), p, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "password2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = f.uc.ChangePassword(context.Background(), p, dto.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.uc.ChangePassword(context.Background(), p, dto.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "password2"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password2")))
}
