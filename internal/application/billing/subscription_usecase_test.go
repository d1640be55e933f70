package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
	"github.com/jhoicas/rankitpro-api/pkg/signature"
)

const webhookSecret = "whsec"

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type SubscriptionSuite struct {
	suite.Suite
	uc          *SubscriptionUseCase
	companies   *mocks.CompanyRepository
	plans       *mocks.PlanRepository
	billing     *mocks.BillingRepository
	technicians *mocks.TechnicianRepository
	payments    *mocks.PaymentProvider
}

func TestSubscriptionSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionSuite))
}

func (s *SubscriptionSuite) SetupTest() {
	s.companies = &mocks.CompanyRepository{}
	s.plans = &mocks.PlanRepository{}
	s.billing = &mocks.BillingRepository{}
	s.technicians = &mocks.TechnicianRepository{}
	s.payments = &mocks.PaymentProvider{}
	tx := &mocks.TxRunner{Repos: repository.TxRepos{Companies: s.companies, Billing: s.billing}}
	s.uc = NewSubscriptionUseCase(s.companies, s.plans, s.billing, s.technicians, tx, s.payments, "USD", webhookSecret, logger.Nop())
	s.uc.now = func() time.Time { return now }
}

func proPlan() *entity.SubscriptionPlan {
	return &entity.SubscriptionPlan{ID: entity.PlanPro, Name: "Pro", PriceMonthly: decimal.RequireFromString("49.00"), MaxTechnicians: 10, Active: true}
}

func (s *SubscriptionSuite) signed(body string) (payload []byte, sig string) {
	payload = []byte(body)
	return payload, "sha256=" + signature.Sign(webhookSecret, payload)
}

func (s *SubscriptionSuite) TestChangePlan_CreaFacturaYCobra() {
	company := &entity.Company{ID: "c1", Email: "billing@acme.com", PlanID: entity.PlanStarter, SubscriptionStatus: entity.SubscriptionTrialing}
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	s.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)
	s.technicians.On("CountActive", mock.Anything, "c1").Return(3, nil)
	s.companies.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Company) bool {
		return c.ID == "c1" && c.PlanID == entity.PlanPro
	})).Return(nil)
	s.billing.On("CreateInvoice", mock.Anything, mock.AnythingOfType("*entity.BillingInvoice")).Return(nil)
	s.payments.On("Charge", mock.Anything, mock.MatchedBy(func(r ports.ChargeRequest) bool {
		return r.CompanyID == "c1" && r.Amount.Equal(decimal.RequireFromString("49")) && r.Email == "billing@acme.com"
	})).Return("ch_123", nil)
	s.billing.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv *entity.BillingInvoice) bool {
		return inv.ExternalID == "ch_123" && inv.Status == entity.InvoiceStatusOpen
	})).Return(nil)

	out, err := s.uc.ChangePlan(context.Background(), "c1", dto.ChangePlanRequest{PlanID: entity.PlanPro})
	s.Require().NoError(err)
	s.Equal(entity.PlanPro, out.Plan.ID)
	s.Equal(entity.PlanPro, company.PlanID)

	inv := s.billing.Calls[0].Arguments.Get(1).(*entity.BillingInvoice)
	s.Equal(now, inv.PeriodStart)
	s.Equal(now.AddDate(0, 1, 0), inv.PeriodEnd)
	s.payments.AssertExpectations(s.T())
}

func (s *SubscriptionSuite) TestChangePlan_DowngradeExcedeTecnicos() {
	s.companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1"}, nil)
	s.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)
	s.technicians.On("CountActive", mock.Anything, "c1").Return(11, nil)

	_, err := s.uc.ChangePlan(context.Background(), "c1", dto.ChangePlanRequest{PlanID: entity.PlanPro})
	s.ErrorIs(err, domain.ErrPlanLimitReached)
	s.billing.AssertNotCalled(s.T(), "CreateInvoice", mock.Anything, mock.Anything)
}

func (s *SubscriptionSuite) TestChangePlan_CargoRechazadoConservaPlan() {
	company := &entity.Company{ID: "c1", PlanID: entity.PlanStarter, SubscriptionStatus: entity.SubscriptionActive}
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	s.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)
	s.technicians.On("CountActive", mock.Anything, "c1").Return(0, nil)
	s.billing.On("CreateInvoice", mock.Anything, mock.AnythingOfType("*entity.BillingInvoice")).Return(nil)
	s.payments.On("Charge", mock.Anything, mock.Anything).Return("", errors.New("card declined"))
	s.billing.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv *entity.BillingInvoice) bool {
		return inv.Status == entity.InvoiceStatusVoid && inv.ExternalID == ""
	})).Return(nil)

	_, err := s.uc.ChangePlan(context.Background(), "c1", dto.ChangePlanRequest{PlanID: entity.PlanPro})
	s.ErrorIs(err, domain.ErrPaymentFailed)
	s.ErrorContains(err, "card declined")

	s.Equal(entity.PlanStarter, company.PlanID)
	s.Equal(entity.SubscriptionActive, company.SubscriptionStatus)
	s.companies.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
	s.billing.AssertExpectations(s.T())
}

func (s *SubscriptionSuite) TestChangePlan_PlanGratuitoSeAplicaSinCargo() {
	free := &entity.SubscriptionPlan{ID: entity.PlanStarter, Name: "Starter", PriceMonthly: decimal.Zero, Active: true}
	company := &entity.Company{ID: "c1", PlanID: entity.PlanPro, SubscriptionStatus: entity.SubscriptionCanceled}
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	s.plans.On("GetByID", mock.Anything, entity.PlanStarter).Return(free, nil)
	s.companies.On("Update", mock.Anything, mock.AnythingOfType("*entity.Company")).Return(nil)
	s.billing.On("CreateInvoice", mock.Anything, mock.AnythingOfType("*entity.BillingInvoice")).Return(nil)
	s.billing.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv *entity.BillingInvoice) bool {
		return inv.Status == entity.InvoiceStatusPaid
	})).Return(nil)

	out, err := s.uc.ChangePlan(context.Background(), "c1", dto.ChangePlanRequest{PlanID: entity.PlanStarter})
	s.Require().NoError(err)
	s.Equal(entity.PlanStarter, out.Plan.ID)
	s.Equal(entity.SubscriptionActive, company.SubscriptionStatus)
	s.payments.AssertNotCalled(s.T(), "Charge", mock.Anything, mock.Anything)
}

func (s *SubscriptionSuite) TestWebhook_FacturaAtrasadaNoRetrocedePeriodo() {
	current := now.AddDate(0, 2, 0)
	inv := &entity.BillingInvoice{ID: "inv-old", CompanyID: "c1", PlanID: entity.PlanStarter, Amount: decimal.RequireFromString("19.00"),
		Status: entity.InvoiceStatusOpen, PeriodStart: now, PeriodEnd: now.AddDate(0, 1, 0)}
	company := &entity.Company{ID: "c1", PlanID: entity.PlanPro, SubscriptionStatus: entity.SubscriptionActive, CurrentPeriodEnd: &current}
	s.billing.On("GetInvoice", mock.Anything, "inv-old").Return(inv, nil)
	s.billing.On("UpdateInvoice", mock.Anything, inv).Return(nil)
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)

	body, sig := s.signed(`{"type":"invoice.paid","data":{"invoice_id":"inv-old"}}`)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), body, sig))

	s.Equal(entity.InvoiceStatusPaid, inv.Status)
	s.Equal(entity.PlanPro, company.PlanID)
	s.Equal(current, *company.CurrentPeriodEnd)
	s.companies.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *SubscriptionSuite) TestWebhook_FirmaInvalida() {
	err := s.uc.HandleWebhook(context.Background(), []byte(`{"type":"invoice.paid"}`), "sha256=00")
	s.ErrorIs(err, domain.ErrInvalidSignature)
	s.billing.AssertNotCalled(s.T(), "GetInvoice", mock.Anything, mock.Anything)
}

func (s *SubscriptionSuite) TestWebhook_InvoicePaidExtiendePeriodoYComision() {
	rep := "sales-1"
	inv := &entity.BillingInvoice{ID: "inv1", CompanyID: "c1", PlanID: entity.PlanPro, Amount: decimal.RequireFromString("49.00"),
		Status: entity.InvoiceStatusOpen, PeriodStart: now, PeriodEnd: now.AddDate(0, 1, 0)}
	company := &entity.Company{ID: "c1", SalesRepID: &rep, SubscriptionStatus: entity.SubscriptionPastDue}
	s.billing.On("GetInvoice", mock.Anything, "inv1").Return(inv, nil)
	s.billing.On("UpdateInvoice", mock.Anything, inv).Return(nil)
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	s.companies.On("Update", mock.Anything, company).Return(nil)
	s.billing.On("CommissionExistsForInvoice", mock.Anything, "inv1").Return(false, nil)
	s.billing.On("CreateCommission", mock.Anything, mock.MatchedBy(func(c *entity.SalesCommission) bool {
		return c.SalesUserID == "sales-1" && c.InvoiceID == "inv1" && c.Amount.Equal(decimal.RequireFromString("4.90")) &&
			c.Status == entity.CommissionPending
	})).Return(nil)

	body, sig := s.signed(`{"id":"evt_1","type":"invoice.paid","data":{"invoice_id":"inv1"}}`)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), body, sig))

	s.Equal(entity.InvoiceStatusPaid, inv.Status)
	s.Equal(entity.SubscriptionActive, company.SubscriptionStatus)
	s.Require().NotNil(company.CurrentPeriodEnd)
	s.Equal(inv.PeriodEnd, *company.CurrentPeriodEnd)
	s.billing.AssertExpectations(s.T())
}

func (s *SubscriptionSuite) TestWebhook_InvoicePaidIdempotente() {
	inv := &entity.BillingInvoice{ID: "inv1", Status: entity.InvoiceStatusPaid}
	s.billing.On("GetInvoiceByExternalID", mock.Anything, "ch_1").Return(inv, nil)

	body, sig := s.signed(`{"type":"invoice.paid","data":{"external_id":"ch_1"}}`)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), body, sig))
	s.billing.AssertNotCalled(s.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func (s *SubscriptionSuite) TestWebhook_PagoFallidoYCancelacion() {
	company := &entity.Company{ID: "c1", SubscriptionStatus: entity.SubscriptionActive}
	s.billing.On("GetInvoice", mock.Anything, "inv1").Return(&entity.BillingInvoice{ID: "inv1", CompanyID: "c1", Status: entity.InvoiceStatusOpen}, nil)
	s.companies.On("GetByID", mock.Anything, "c1").Return(company, nil)
	s.companies.On("Update", mock.Anything, company).Return(nil)

	body, sig := s.signed(`{"type":"invoice.payment_failed","data":{"invoice_id":"inv1"}}`)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), body, sig))
	s.Equal(entity.SubscriptionPastDue, company.SubscriptionStatus)

	body, sig = s.signed(`{"type":"subscription.canceled","data":{"company_id":"c1"}}`)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), body, sig))
	s.Equal(entity.SubscriptionCanceled, company.SubscriptionStatus)
}

func (s *SubscriptionSuite) TestRunRenewals() {
	periodEnd := now.Add(-time.Hour)
	trial := &entity.Company{ID: "c-trial", SubscriptionStatus: entity.SubscriptionTrialing}
	active := &entity.Company{ID: "c-active", PlanID: entity.PlanPro, SubscriptionStatus: entity.SubscriptionActive, CurrentPeriodEnd: &periodEnd}
	s.companies.On("ListDueForRenewal", mock.Anything, now).Return([]*entity.Company{trial, active}, nil)
	s.companies.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)
	s.billing.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv *entity.BillingInvoice) bool {
		return inv.CompanyID == "c-active" && inv.PeriodStart.Equal(periodEnd)
	})).Return(nil)
	s.payments.On("Charge", mock.Anything, mock.Anything).Return("ch_9", nil)
	s.billing.On("UpdateInvoice", mock.Anything, mock.Anything).Return(nil)

	n, err := s.uc.RunRenewals(context.Background())
	s.Require().NoError(err)
	s.Equal(2, n)
	s.Equal(entity.SubscriptionPastDue, trial.SubscriptionStatus)
	s.Equal(entity.SubscriptionPastDue, active.SubscriptionStatus)
	s.billing.AssertExpectations(s.T())
}

func TestCancel_YaCancelada(t *testing.T) {
	companies := &mocks.CompanyRepository{}
	plans := &mocks.PlanRepository{}
	uc := NewSubscriptionUseCase(companies, plans, &mocks.BillingRepository{}, &mocks.TechnicianRepository{},
		&mocks.TxRunner{}, &mocks.PaymentProvider{}, "", webhookSecret, logger.Nop())
	companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1", PlanID: entity.PlanPro, SubscriptionStatus: entity.SubscriptionCanceled}, nil)
	plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)

	_, err := uc.Cancel(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoicePDF(t *testing.T) {
	billing := &mocks.BillingRepository{}
	companies := &mocks.CompanyRepository{}
	plans := &mocks.PlanRepository{}
	uc := NewPDFUseCase(billing, companies, plans, mocks.PDFRenderer{})

	billing.On("GetInvoice", mock.Anything, "0f8fad5b-d9cb-469f-a165-70867728950e").Return(&entity.BillingInvoice{
		ID: "0f8fad5b-d9cb-469f-a165-70867728950e", CompanyID: "c1", PlanID: entity.PlanPro, PeriodStart: now,
	}, nil)
	companies.On("GetByID", mock.Anything, "c1").Return(&entity.Company{ID: "c1"}, nil)
	plans.On("GetByID", mock.Anything, entity.PlanPro).Return(proPlan(), nil)

	pdf, name, err := uc.InvoicePDF(context.Background(), "c1", "0f8fad5b-d9cb-469f-a165-70867728950e")
	require.NoError(t, err)
	assert.Equal(t, "factura_202605_0f8fad5b.pdf", name)
	assert.NotEmpty(t, pdf)

	_, _, err = uc.InvoicePDF(context.Background(), "c2", "0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
