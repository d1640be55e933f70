package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios. company_admin solo opera sobre su empresa
// y solo crea company_admin o technician.
type UserUseCase struct {
	repo      repository.UserRepository
	companies repository.CompanyRepository
	now       func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, companies repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companies: companies, now: time.Now}
}

// Create crea un usuario con password hasheado (bcrypt).
func (uc *UserUseCase) Create(ctx context.Context, p entity.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := dto.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if !dto.ValidEmail(email) || name == "" || !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < dto.MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, dto.MinPasswordLength)
	}

	companyID, err := uc.companyFor(ctx, p, in.Role, in.CompanyID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// List usuarios de la empresa del caller; super_admin ve todos.
func (uc *UserUseCase) List(ctx context.Context, p entity.Principal, limit, offset int) (*dto.UserListResponse, error) {
	limit, offset = pageOf(limit, offset)
	var (
		list []*entity.User
		err  error
	)
	if p.IsSuperAdmin() {
		list, err = uc.repo.ListAll(ctx, limit, offset)
	} else {
		list, err = uc.repo.ListByCompany(ctx, p.CompanyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica nombre, rol, estado o password.
func (uc *UserUseCase) Update(ctx context.Context, p entity.Principal, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		if !p.IsSuperAdmin() && !companyAdminAssignable(*in.Role) {
			return nil, domain.ErrForbidden
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		if user.ID == p.UserID && *in.Status != entity.UserStatusActive {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrConflict)
		}
		user.Status = *in.Status
	}
	if in.Password != nil {
		if len(*in.Password) < dto.MinPasswordLength {
			return nil, domain.ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Delete elimina un usuario. No se puede borrar a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, p entity.Principal, id string) error {
	if id == p.UserID {
		return fmt.Errorf("%w: no puede eliminarse a sí mismo", domain.ErrConflict)
	}
	if _, err := uc.visible(ctx, p, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// visible devuelve el usuario si el caller puede verlo; de otra empresa = ErrNotFound.
func (uc *UserUseCase) visible(ctx context.Context, p entity.Principal, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !p.IsSuperAdmin() && user.Company() != p.CompanyID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) companyFor(ctx context.Context, p entity.Principal, role, requested string) (*string, error) {
	if !p.IsSuperAdmin() {
		if !companyAdminAssignable(role) {
			return nil, domain.ErrForbidden
		}
		id := p.CompanyID
		return &id, nil
	}
	switch role {
	case entity.RoleSuperAdmin, entity.RoleSalesStaff:
		return nil, nil
	}
	if requested == "" {
		return nil, fmt.Errorf("%w: company_id es obligatorio para el rol %s", domain.ErrInvalidInput, role)
	}
	company, err := uc.companies.GetByID(ctx, requested)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &company.ID, nil
}

func companyAdminAssignable(role string) bool {
	return role == entity.RoleCompanyAdmin || role == entity.RoleTechnician
}
