package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// TechnicianUseCase alta, edición e importación de técnicos con el límite del plan.
type TechnicianUseCase struct {
	repo      repository.TechnicianRepository
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	users     repository.UserRepository
	codec     ports.SpreadsheetCodec
	now       func() time.Time
}

// NewTechnicianUseCase construye el caso de uso.
func NewTechnicianUseCase(
	repo repository.TechnicianRepository,
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	codec ports.SpreadsheetCodec,
) *TechnicianUseCase {
	return &TechnicianUseCase{repo: repo, companies: companies, plans: plans, users: users, codec: codec, now: time.Now}
}

// Create da de alta un técnico. domain.ErrPlanLimitReached si el plan no admite más técnicos activos.
func (uc *TechnicianUseCase) Create(ctx context.Context, companyID string, in dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := uc.build(ctx, companyID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLimit(ctx, companyID); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	out := dto.NewTechnicianResponse(t)
	return &out, nil
}

// Get técnico de la empresa; de otra empresa o eliminado = ErrNotFound.
func (uc *TechnicianUseCase) Get(ctx context.Context, companyID, id string) (*dto.TechnicianResponse, error) {
	t, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewTechnicianResponse(t)
	return &out, nil
}

// List técnicos de la empresa.
func (uc *TechnicianUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.TechnicianListResponse, error) {
	limit, offset = pageOf(limit, offset)
	list, err := uc.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TechnicianResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTechnicianResponse(t))
	}
	return &dto.TechnicianListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica datos; reactivar un técnico vuelve a validar el límite del plan.
func (uc *TechnicianUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		t.Name = name
	}
	if in.Email != nil {
		email := dto.NormalizeEmail(*in.Email)
		if email != "" && !dto.ValidEmail(email) {
			return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
		t.Email = email
	}
	setIfNotNil(&t.Phone, in.Phone)
	setIfNotNil(&t.Specialty, in.Specialty)
	setIfNotNil(&t.Location, in.Location)
	if in.Active != nil && *in.Active != t.Active {
		if *in.Active {
			if err := uc.checkLimit(ctx, companyID); err != nil {
				return nil, err
			}
		}
		t.Active = *in.Active
	}
	t.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	out := dto.NewTechnicianResponse(t)
	return &out, nil
}

// Delete baja lógica.
func (uc *TechnicianUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.SoftDelete(ctx, companyID, id)
}

// Stats métricas de un técnico.
func (uc *TechnicianUseCase) Stats(ctx context.Context, companyID, id string) (*dto.TechnicianStatsResponse, error) {
	if _, err := uc.find(ctx, companyID, id); err != nil {
		return nil, err
	}
	s, err := uc.repo.Stats(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return &dto.TechnicianStatsResponse{
		TechnicianID:      id,
		CheckIns:          s.CheckIns,
		CheckInsThisMonth: s.CheckInsThisMonth,
		ReviewsRequested:  s.ReviewsRequested,
		ReviewsCompleted:  s.ReviewsCompleted,
		AverageRating:     s.AverageRating,
	}, nil
}

// Import crea técnicos desde un XLSX. Las filas inválidas o que exceden el plan se
// reportan en Rejected; las demás se crean.
func (uc *TechnicianUseCase) Import(ctx context.Context, companyID string, r io.Reader) (*dto.ImportTechniciansResponse, error) {
	rows, err := uc.codec.ParseTechnicians(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	_, plan, err := companyPlan(ctx, uc.companies, uc.plans, companyID)
	if err != nil {
		return nil, err
	}
	active, err := uc.repo.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := &dto.ImportTechniciansResponse{Created: []dto.TechnicianResponse{}, Rejected: []dto.ImportRowError{}}
	for _, row := range rows {
		reject := func(reason string) {
			out.Rejected = append(out.Rejected, dto.ImportRowError{Line: row.Line, Name: row.Name, Reason: reason})
		}
		if !plan.AllowsTechnicians(active) {
			reject(domain.ErrPlanLimitReached.Error())
			continue
		}
		t, err := uc.build(ctx, companyID, dto.CreateTechnicianRequest{
			Name: row.Name, Email: row.Email, Phone: row.Phone, Specialty: row.Specialty, Location: row.Location,
		})
		if err != nil {
			reject(err.Error())
			continue
		}
		if err := uc.repo.Create(ctx, t); err != nil {
			reject(err.Error())
			continue
		}
		active++
		out.Created = append(out.Created, dto.NewTechnicianResponse(t))
	}
	return out, nil
}

func (uc *TechnicianUseCase) find(ctx context.Context, companyID, id string) (*entity.Technician, error) {
	t, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *TechnicianUseCase) checkLimit(ctx context.Context, companyID string) error {
	_, plan, err := companyPlan(ctx, uc.companies, uc.plans, companyID)
	if err != nil {
		return err
	}
	active, err := uc.repo.CountActive(ctx, companyID)
	if err != nil {
		return err
	}
	if !plan.AllowsTechnicians(active) {
		return domain.ErrPlanLimitReached
	}
	return nil
}

func (uc *TechnicianUseCase) build(ctx context.Context, companyID string, in dto.CreateTechnicianRequest) (*entity.Technician, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	email := dto.NormalizeEmail(in.Email)
	if email != "" && !dto.ValidEmail(email) {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if in.UserID != nil {
		u, err := uc.users.GetByID(ctx, *in.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil || u.Company() != companyID || u.Role != entity.RoleTechnician {
			return nil, fmt.Errorf("%w: user_id debe ser un usuario technician de la empresa", domain.ErrInvalidInput)
		}
	}
	now := uc.now()
	return &entity.Technician{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    in.UserID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Specialty: strings.TrimSpace(in.Specialty),
		Location:  strings.TrimSpace(in.Location),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
