// Package mocks implementaciones testify/mock de los repositorios y puertos para tests
// de casos de uso y handlers.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// CompanyRepository mock.
type CompanyRepository struct{ mock.Mock }

func (m *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}
func (m *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*entity.Company, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}
func (m *CompanyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}
func (m *CompanyRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*entity.Company, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}
func (m *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *CompanyRepository) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Company), args.Error(1)
}
func (m *CompanyRepository) ListBySalesRep(ctx context.Context, salesUserID string) ([]*entity.Company, error) {
	args := m.Called(ctx, salesUserID)
	return args.Get(0).([]*entity.Company), args.Error(1)
}
func (m *CompanyRepository) ListDueForRenewal(ctx context.Context, now time.Time) ([]*entity.Company, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]*entity.Company), args.Error(1)
}
func (m *CompanyRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *CompanyRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// UserRepository mock.
type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *UserRepository) TouchLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *UserRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, companyID, limit, offset)
	return args.Get(0).([]*entity.User), args.Error(1)
}
func (m *UserRepository) ListAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.User), args.Error(1)
}
func (m *UserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *UserRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

// PlanRepository mock.
type PlanRepository struct{ mock.Mock }

func (m *PlanRepository) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubscriptionPlan), args.Error(1)
}
func (m *PlanRepository) ListActive(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.SubscriptionPlan), args.Error(1)
}

// TechnicianRepository mock.
type TechnicianRepository struct{ mock.Mock }

func (m *TechnicianRepository) Create(ctx context.Context, t *entity.Technician) error {
	return m.Called(ctx, t).Error(0)
}
func (m *TechnicianRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Technician, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Technician), args.Error(1)
}
func (m *TechnicianRepository) GetByUserID(ctx context.Context, userID string) (*entity.Technician, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Technician), args.Error(1)
}
func (m *TechnicianRepository) GetByEmail(ctx context.Context, companyID, email string) (*entity.Technician, error) {
	args := m.Called(ctx, companyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Technician), args.Error(1)
}
func (m *TechnicianRepository) Update(ctx context.Context, t *entity.Technician) error {
	return m.Called(ctx, t).Error(0)
}
func (m *TechnicianRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Technician, error) {
	args := m.Called(ctx, companyID, limit, offset)
	return args.Get(0).([]*entity.Technician), args.Error(1)
}
func (m *TechnicianRepository) CountActive(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}
func (m *TechnicianRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}
func (m *TechnicianRepository) Stats(ctx context.Context, companyID, id string) (*repository.TechnicianStats, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TechnicianStats), args.Error(1)
}

// CheckInRepository mock.
type CheckInRepository struct{ mock.Mock }

func (m *CheckInRepository) Create(ctx context.Context, c *entity.CheckIn) error {
	return m.Called(ctx, c).Error(0)
}
func (m *CheckInRepository) GetByID(ctx context.Context, companyID, id string) (*entity.CheckIn, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckIn), args.Error(1)
}
func (m *CheckInRepository) Update(ctx context.Context, c *entity.CheckIn) error {
	return m.Called(ctx, c).Error(0)
}
func (m *CheckInRepository) AddPhoto(ctx context.Context, companyID, id, objectKey string) error {
	return m.Called(ctx, companyID, id, objectKey).Error(0)
}
func (m *CheckInRepository) List(ctx context.Context, f entity.CheckInFilter) ([]*entity.CheckIn, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.CheckIn), args.Error(1)
}
func (m *CheckInRepository) CountSince(ctx context.Context, companyID string, since time.Time) (int, error) {
	args := m.Called(ctx, companyID, since)
	return args.Int(0), args.Error(1)
}
func (m *CheckInRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// ReviewRepository mock.
type ReviewRepository struct{ mock.Mock }

func (m *ReviewRepository) CreateRequest(ctx context.Context, r *entity.ReviewRequest) error {
	return m.Called(ctx, r).Error(0)
}
func (m *ReviewRepository) GetRequest(ctx context.Context, companyID, id string) (*entity.ReviewRequest, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) GetRequestByID(ctx context.Context, id string) (*entity.ReviewRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) GetRequestByToken(ctx context.Context, token string) (*entity.ReviewRequest, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) ListRequests(ctx context.Context, companyID, technicianID string, limit, offset int) ([]*entity.ReviewRequest, error) {
	args := m.Called(ctx, companyID, technicianID, limit, offset)
	return args.Get(0).([]*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) UpdateDelivery(ctx context.Context, r *entity.ReviewRequest) error {
	return m.Called(ctx, r).Error(0)
}
func (m *ReviewRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *ReviewRepository) ListPendingDispatch(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]*entity.ReviewRequest, error) {
	args := m.Called(ctx, olderThan, maxAttempts, limit)
	return args.Get(0).([]*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) ListAwaitingReminder(ctx context.Context, sentBefore time.Time, limit int) ([]*entity.ReviewRequest, error) {
	args := m.Called(ctx, sentBefore, limit)
	return args.Get(0).([]*entity.ReviewRequest), args.Error(1)
}
func (m *ReviewRepository) CompleteWithResponse(ctx context.Context, resp *entity.ReviewResponse) error {
	return m.Called(ctx, resp).Error(0)
}
func (m *ReviewRepository) ListResponses(ctx context.Context, companyID string, onlyPublic bool, limit int) ([]*entity.ReviewResponse, error) {
	args := m.Called(ctx, companyID, onlyPublic, limit)
	return args.Get(0).([]*entity.ReviewResponse), args.Error(1)
}
func (m *ReviewRepository) Stats(ctx context.Context, companyID string) (*entity.ReviewStats, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewStats), args.Error(1)
}

// BlogPostRepository mock.
type BlogPostRepository struct{ mock.Mock }

func (m *BlogPostRepository) Create(ctx context.Context, p *entity.BlogPost) error {
	return m.Called(ctx, p).Error(0)
}
func (m *BlogPostRepository) GetByID(ctx context.Context, companyID, id string) (*entity.BlogPost, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BlogPost), args.Error(1)
}
func (m *BlogPostRepository) Update(ctx context.Context, p *entity.BlogPost) error {
	return m.Called(ctx, p).Error(0)
}
func (m *BlogPostRepository) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.BlogPost, error) {
	args := m.Called(ctx, companyID, status, limit, offset)
	return args.Get(0).([]*entity.BlogPost), args.Error(1)
}
func (m *BlogPostRepository) SlugExists(ctx context.Context, companyID, slug string) (bool, error) {
	args := m.Called(ctx, companyID, slug)
	return args.Bool(0), args.Error(1)
}
func (m *BlogPostRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// IntegrationRepository mock.
type IntegrationRepository struct{ mock.Mock }

func (m *IntegrationRepository) GetWordPress(ctx context.Context, companyID string) (*entity.WordPressIntegration, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WordPressIntegration), args.Error(1)
}
func (m *IntegrationRepository) UpsertWordPress(ctx context.Context, wp *entity.WordPressIntegration) error {
	return m.Called(ctx, wp).Error(0)
}
func (m *IntegrationRepository) ListCRM(ctx context.Context, companyID string) ([]*entity.CRMIntegration, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*entity.CRMIntegration), args.Error(1)
}
func (m *IntegrationRepository) GetCRM(ctx context.Context, companyID, provider string) (*entity.CRMIntegration, error) {
	args := m.Called(ctx, companyID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CRMIntegration), args.Error(1)
}
func (m *IntegrationRepository) UpsertCRM(ctx context.Context, c *entity.CRMIntegration) error {
	return m.Called(ctx, c).Error(0)
}
func (m *IntegrationRepository) DeleteCRM(ctx context.Context, companyID, provider string) error {
	return m.Called(ctx, companyID, provider).Error(0)
}
func (m *IntegrationRepository) TouchCRMEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// BillingRepository mock.
type BillingRepository struct{ mock.Mock }

func (m *BillingRepository) CreateInvoice(ctx context.Context, inv *entity.BillingInvoice) error {
	return m.Called(ctx, inv).Error(0)
}
func (m *BillingRepository) GetInvoice(ctx context.Context, id string) (*entity.BillingInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingInvoice), args.Error(1)
}
func (m *BillingRepository) GetInvoiceByExternalID(ctx context.Context, externalID string) (*entity.BillingInvoice, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingInvoice), args.Error(1)
}
func (m *BillingRepository) UpdateInvoice(ctx context.Context, inv *entity.BillingInvoice) error {
	return m.Called(ctx, inv).Error(0)
}
func (m *BillingRepository) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]*entity.BillingInvoice, error) {
	args := m.Called(ctx, companyID, limit, offset)
	return args.Get(0).([]*entity.BillingInvoice), args.Error(1)
}
func (m *BillingRepository) CreateCommission(ctx context.Context, c *entity.SalesCommission) error {
	return m.Called(ctx, c).Error(0)
}
func (m *BillingRepository) GetCommission(ctx context.Context, id string) (*entity.SalesCommission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SalesCommission), args.Error(1)
}
func (m *BillingRepository) CommissionExistsForInvoice(ctx context.Context, invoiceID string) (bool, error) {
	args := m.Called(ctx, invoiceID)
	return args.Bool(0), args.Error(1)
}
func (m *BillingRepository) ListCommissions(ctx context.Context, salesUserID, status string, limit, offset int) ([]*entity.SalesCommission, error) {
	args := m.Called(ctx, salesUserID, status, limit, offset)
	return args.Get(0).([]*entity.SalesCommission), args.Error(1)
}
func (m *BillingRepository) MarkCommissionPaid(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// DashboardRepository mock.
type DashboardRepository struct{ mock.Mock }

func (m *DashboardRepository) PlatformTotals(ctx context.Context, monthStart time.Time) (*repository.PlatformTotals, error) {
	args := m.Called(ctx, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PlatformTotals), args.Error(1)
}
func (m *DashboardRepository) CompanyTotals(ctx context.Context, companyID string, monthStart time.Time) (*repository.CompanyTotals, error) {
	args := m.Called(ctx, companyID, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CompanyTotals), args.Error(1)
}
func (m *DashboardRepository) TopTechnicians(ctx context.Context, companyID string, since time.Time, limit int) ([]repository.TechnicianRank, error) {
	args := m.Called(ctx, companyID, since, limit)
	return args.Get(0).([]repository.TechnicianRank), args.Error(1)
}
func (m *DashboardRepository) SalesTotals(ctx context.Context, salesUserID string) (*repository.SalesTotals, error) {
	args := m.Called(ctx, salesUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SalesTotals), args.Error(1)
}

// TxRunner ejecuta fn con los repos mock dados, sin transacción real.
type TxRunner struct {
	Repos repository.TxRepos
	Err   error // si no es nil se devuelve sin ejecutar fn
}

func (r *TxRunner) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	if r.Err != nil {
		return r.Err
	}
	return fn(r.Repos)
}

var (
	_ repository.CompanyRepository     = (*CompanyRepository)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.PlanRepository        = (*PlanRepository)(nil)
	_ repository.TechnicianRepository  = (*TechnicianRepository)(nil)
	_ repository.CheckInRepository     = (*CheckInRepository)(nil)
	_ repository.ReviewRepository      = (*ReviewRepository)(nil)
	_ repository.BlogPostRepository    = (*BlogPostRepository)(nil)
	_ repository.IntegrationRepository = (*IntegrationRepository)(nil)
	_ repository.BillingRepository     = (*BillingRepository)(nil)
	_ repository.DashboardRepository   = (*DashboardRepository)(nil)
	_ repository.TxRunner              = (*TxRunner)(nil)
)
