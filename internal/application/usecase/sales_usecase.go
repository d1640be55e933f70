package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// SalesUseCase vista del sales_staff (empresas referidas y comisiones) y pago de comisiones por super_admin.
type SalesUseCase struct {
	companies repository.CompanyRepository
	billing   repository.BillingRepository
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(companies repository.CompanyRepository, billing repository.BillingRepository) *SalesUseCase {
	return &SalesUseCase{companies: companies, billing: billing}
}

// Companies empresas referidas por el vendedor.
func (uc *SalesUseCase) Companies(ctx context.Context, salesUserID string) ([]dto.CompanyResponse, error) {
	list, err := uc.companies.ListBySalesRep(ctx, salesUserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCompanyResponse(c))
	}
	return out, nil
}

// Commissions comisiones de un vendedor; salesUserID vacío = todas (super_admin).
func (uc *SalesUseCase) Commissions(ctx context.Context, salesUserID, status string, limit, offset int) (*dto.CommissionListResponse, error) {
	if status != "" && status != entity.CommissionPending && status != entity.CommissionPaid {
		return nil, fmt.Errorf("%w: status inválido", domain.ErrInvalidInput)
	}
	if salesUserID != "" && !dto.ValidID(salesUserID) {
		return nil, fmt.Errorf("%w: sales_user_id inválido", domain.ErrInvalidInput)
	}
	limit, offset = pageOf(limit, offset)
	list, err := uc.billing.ListCommissions(ctx, salesUserID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CommissionResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.NewCommissionResponse(c))
	}
	return &dto.CommissionListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// PayCommission marca una comisión pendiente como pagada. domain.ErrConflict si ya estaba pagada.
func (uc *SalesUseCase) PayCommission(ctx context.Context, id string) (*dto.CommissionResponse, error) {
	c, err := uc.billing.GetCommission(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.billing.MarkCommissionPaid(ctx, id); err != nil {
		return nil, err
	}
	c, err = uc.billing.GetCommission(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCommissionResponse(c)
	return &out, nil
}
