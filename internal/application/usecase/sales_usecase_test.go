package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

const vendorID = "5b3f0c8e-2a1d-4e6f-8b7a-9c0d1e2f3a4b"

func TestSalesCommissions_FiltraPorVendedor(t *testing.T) {
	billing := &mocks.BillingRepository{}
	uc := NewSalesUseCase(&mocks.CompanyRepository{}, billing)
	billing.On("ListCommissions", mock.Anything, vendorID, entity.CommissionPending, 20, 0).Return([]*entity.SalesCommission{
		{ID: "k1", SalesUserID: vendorID, Amount: decimal.RequireFromString("4.90"), Status: entity.CommissionPending},
	}, nil)

	out, err := uc.Commissions(context.Background(), vendorID, entity.CommissionPending, 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "4.9", out.Items[0].Amount.String())

	_, err = uc.Commissions(context.Background(), vendorID, "otro", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Commissions(context.Background(), "vendedor-1", "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	billing.AssertNumberOfCalls(t, "ListCommissions", 1)
}

func TestSalesPayCommission(t *testing.T) {
	billing := &mocks.BillingRepository{}
	uc := NewSalesUseCase(&mocks.CompanyRepository{}, billing)
	billing.On("GetCommission", mock.Anything, "k1").Return(&entity.SalesCommission{ID: "k1", Status: entity.CommissionPending}, nil).Once()
	billing.On("MarkCommissionPaid", mock.Anything, "k1").Return(nil)
	billing.On("GetCommission", mock.Anything, "k1").Return(&entity.SalesCommission{ID: "k1", Status: entity.CommissionPaid}, nil).Once()
	billing.On("GetCommission", mock.Anything, "nope").Return(nil, nil)

	out, err := uc.PayCommission(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, entity.CommissionPaid, out.Status)

	_, err = uc.PayCommission(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
