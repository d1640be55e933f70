package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/jwt"
	"github.com/jhoicas/rankitpro-api/pkg/slug"
)

const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, registro self-service, logout y cambio de contraseña.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	planRepo    repository.PlanRepository
	tx          repository.TxRunner
	limiter     ports.RateLimiter
	revoker     ports.TokenRevoker
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	planRepo repository.PlanRepository,
	tx repository.TxRunner,
	limiter ports.RateLimiter,
	revoker ports.TokenRevoker,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		planRepo:    planRepo,
		tx:          tx,
		limiter:     limiter,
		revoker:     revoker,
		jwtCfg:      jwtCfg,
		now:         time.Now,
	}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Cada intento cuenta contra el límite por email; un login correcto lo reinicia.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := dto.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	key := "login:" + email
	// Si Redis falla no se bloquea el login.
	if allowed, err := uc.limiter.Hit(ctx, key, loginMaxAttempts, loginWindow); err == nil && !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	if user.CompanyID != nil {
		company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
		if err != nil {
			return nil, err
		}
		if !company.IsActive() {
			return nil, domain.ErrForbidden
		}
	}

	_ = uc.limiter.Reset(ctx, key)
	_ = uc.userRepo.TouchLogin(ctx, user.ID)
	return uc.issue(user)
}

// Me devuelve el usuario del token y el resumen de su empresa.
func (uc *AuthUseCase) Me(ctx context.Context, p entity.Principal) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	out := &dto.MeResponse{User: dto.NewUserResponse(user)}
	if user.CompanyID != nil {
		company, err := uc.companyRepo.GetByID(ctx, *user.CompanyID)
		if err != nil {
			return nil, err
		}
		out.Company = dto.NewCompanySummary(company)
	}
	return out, nil
}

// Logout revoca el jti hasta la expiración natural del token.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrInvalidInput
	}
	ttl := expiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	return uc.revoker.Revoke(ctx, tokenID, ttl)
}

// IsRevoked lo usa el middleware de autenticación en cada request.
func (uc *AuthUseCase) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return uc.revoker.IsRevoked(ctx, tokenID)
}

// Register crea empresa (plan starter, 14 días de prueba) y su company_admin en una transacción.
// ReferralCode debe ser el id de un sales_staff.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := dto.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	companyName := strings.TrimSpace(in.CompanyName)
	if companyName == "" || name == "" || !dto.ValidEmail(email) || len(in.Password) < dto.MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	var salesRepID *string
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		if !dto.ValidID(code) {
			return nil, fmt.Errorf("%w: código de referido inválido", domain.ErrInvalidInput)
		}
		rep, err := uc.userRepo.GetByID(ctx, code)
		if err != nil {
			return nil, err
		}
		if rep == nil || rep.Role != entity.RoleSalesStaff {
			return nil, fmt.Errorf("%w: código de referido inválido", domain.ErrInvalidInput)
		}
		salesRepID = &rep.ID
	}

	plan, err := uc.planRepo.GetByID(ctx, entity.PlanStarter)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("auth: plan %s no existe", entity.PlanStarter)
	}

	companySlug, err := uniqueCompanySlug(ctx, uc.companyRepo, companyName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	trialEnds := now.AddDate(0, 0, entity.TrialDays)
	company := &entity.Company{
		ID:                 uuid.New().String(),
		Name:               companyName,
		Slug:               companySlug,
		Email:              email,
		Phone:              in.Phone,
		Industry:           in.Industry,
		PlanID:             plan.ID,
		SubscriptionStatus: entity.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
		SalesRepID:         salesRepID,
		Status:             entity.CompanyStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    &company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleCompanyAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Companies.Create(ctx, company); err != nil {
			return err
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// ChangePassword cambia la contraseña propia verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, p entity.Principal, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < dto.MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, dto.MinPasswordLength)
	}
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = uc.now()
	return uc.userRepo.Update(ctx, user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Company(), user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      dto.NewUserResponse(user),
	}, nil
}

// uniqueCompanySlug slug del nombre; si ya existe se añade un sufijo aleatorio corto.
func uniqueCompanySlug(ctx context.Context, repo repository.CompanyRepository, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "company"
	}
	taken, err := repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return slug.WithSuffix(base, uuid.New().String()[:6]), nil
}
