package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/slug"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo        repository.CompanyRepository
	plans       repository.PlanRepository
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	checkIns    repository.CheckInRepository
	now         func() time.Time
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(
	repo repository.CompanyRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	technicians repository.TechnicianRepository,
	checkIns repository.CheckInRepository,
) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, plans: plans, users: users, technicians: technicians, checkIns: checkIns, now: time.Now}
}

// Create crea una nueva empresa en periodo de prueba. Devuelve domain.ErrDuplicate si el slug explícito ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	planID := in.PlanID
	if planID == "" {
		planID = entity.PlanStarter
	}
	plan, err := uc.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan desconocido", domain.ErrInvalidInput)
	}
	if in.SalesRepID != nil {
		if err := uc.checkSalesRep(ctx, *in.SalesRepID); err != nil {
			return nil, err
		}
	}

	companySlug, err := uc.slugFor(ctx, name, in.Slug)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	trialEnds := now.AddDate(0, 0, entity.TrialDays)
	company := &entity.Company{
		ID:                 uuid.New().String(),
		Name:               name,
		Slug:               companySlug,
		Email:              dto.NormalizeEmail(in.Email),
		Phone:              in.Phone,
		Website:            in.Website,
		Industry:           in.Industry,
		PlanID:             plan.ID,
		SubscriptionStatus: entity.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
		SalesRepID:         in.SalesRepID,
		Status:             entity.CompanyStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	limit, offset = pageOf(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update modifica datos de la empresa. Solo super_admin cambia plan o estado.
func (uc *CompanyUseCase) Update(ctx context.Context, p entity.Principal, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !p.IsSuperAdmin() && (in.PlanID != nil || in.Status != nil) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.Email != nil {
		company.Email = dto.NormalizeEmail(*in.Email)
	}
	setIfNotNil(&company.Phone, in.Phone)
	setIfNotNil(&company.Website, in.Website)
	setIfNotNil(&company.Industry, in.Industry)
	if in.PlanID != nil {
		plan, err := uc.plans.GetByID(ctx, *in.PlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, fmt.Errorf("%w: plan desconocido", domain.ErrInvalidInput)
		}
		company.PlanID = plan.ID
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.CompanyStatusActive, entity.CompanyStatusSuspended, entity.CompanyStatusInactive:
			company.Status = *in.Status
		default:
			return nil, fmt.Errorf("%w: estado inválido", domain.ErrInvalidInput)
		}
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// Delete baja lógica.
func (uc *CompanyUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.SoftDelete(ctx, id)
}

// AssignSalesRep asigna o quita (nil) el sales_staff que refirió la empresa.
func (uc *CompanyUseCase) AssignSalesRep(ctx context.Context, id string, in dto.AssignSalesRepRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.SalesRepID != nil {
		if err := uc.checkSalesRep(ctx, *in.SalesRepID); err != nil {
			return nil, err
		}
	}
	company.SalesRepID = in.SalesRepID
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// Usage consumo del plan: técnicos activos y visitas del mes en curso.
func (uc *CompanyUseCase) Usage(ctx context.Context, companyID string) (*dto.UsageResponse, error) {
	_, plan, err := companyPlan(ctx, uc.repo, uc.plans, companyID)
	if err != nil {
		return nil, err
	}
	techs, err := uc.technicians.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	visits, err := uc.checkIns.CountSince(ctx, companyID, monthStart(uc.now()))
	if err != nil {
		return nil, err
	}
	return &dto.UsageResponse{
		PlanID:            plan.ID,
		Technicians:       dto.UsageItem{Used: techs, Limit: plan.MaxTechnicians, Unlimited: plan.MaxTechnicians == 0},
		CheckInsThisMonth: dto.UsageItem{Used: visits, Limit: plan.MaxCheckInsPerMonth, Unlimited: plan.MaxCheckInsPerMonth == 0},
	}, nil
}

func (uc *CompanyUseCase) checkSalesRep(ctx context.Context, userID string) error {
	rep, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if rep == nil || rep.Role != entity.RoleSalesStaff {
		return fmt.Errorf("%w: sales_rep_id no es un usuario sales_staff", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *CompanyUseCase) slugFor(ctx context.Context, name, explicit string) (string, error) {
	if explicit != "" {
		s := slug.Make(explicit)
		if s == "" {
			return "", fmt.Errorf("%w: slug inválido", domain.ErrInvalidInput)
		}
		taken, err := uc.repo.SlugExists(ctx, s)
		if err != nil {
			return "", err
		}
		if taken {
			return "", domain.ErrDuplicate
		}
		return s, nil
	}
	base := slug.Make(name)
	if base == "" {
		base = "company"
	}
	taken, err := uc.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return slug.WithSuffix(base, uuid.New().String()[:6]), nil
}

// IsActive informa si la empresa existe y puede operar.
func (uc *CompanyUseCase) IsActive(ctx context.Context, companyID string) (bool, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	return company.IsActive(), nil
}
