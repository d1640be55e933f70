package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/billing"
	"github.com/jhoicas/rankitpro-api/internal/application/mocks"
	"github.com/jhoicas/rankitpro-api/internal/application/usecase"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	apphttp "github.com/jhoicas/rankitpro-api/internal/interfaces/http"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
	"github.com/jhoicas/rankitpro-api/pkg/signature"
)

const billingSecret = "whsec-test"

func postJSON(t *testing.T, app *fiber.App, path string, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type billingDeps struct {
	companies *mocks.CompanyRepository
	plans     *mocks.PlanRepository
	billing   *mocks.BillingRepository
}

func billingApp() (*fiber.App, billingDeps) {
	d := billingDeps{
		companies: new(mocks.CompanyRepository),
		plans:     new(mocks.PlanRepository),
		billing:   new(mocks.BillingRepository),
	}
	subs := billing.NewSubscriptionUseCase(d.companies, d.plans, d.billing, new(mocks.TechnicianRepository),
		&mocks.TxRunner{}, new(mocks.PaymentProvider), "USD", billingSecret, logger.Nop())
	h := apphttp.NewBillingHandler(subs, nil)

	app := fiber.New()
	app.Get("/api/billing/plans", h.Plans)
	app.Post("/api/billing/webhook", h.Webhook)
	return app, d
}

func TestBillingWebhook_FirmaInvalida_Retorna401(t *testing.T) {
	app, d := billingApp()
	body := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"invoice_id":"inv-1"}}`)

	resp := postJSON(t, app, "/api/billing/webhook", body, map[string]string{"X-Signature": "deadbeef"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", errorCode(t, resp))
	d.billing.AssertNotCalled(t, "GetInvoice", mock.Anything, mock.Anything)
}

func TestBillingWebhook_EventoDesconocido_Retorna200(t *testing.T) {
	app, _ := billingApp()
	body := []byte(`{"id":"evt_2","type":"customer.updated","data":{}}`)

	resp := postJSON(t, app, "/api/billing/webhook", body, map[string]string{"X-Signature": signature.Sign(billingSecret, body)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBillingPlans_Publico(t *testing.T) {
	app, d := billingApp()
	d.plans.On("ListActive", mock.Anything).Return([]*entity.SubscriptionPlan{
		{ID: "starter", Name: "Starter", PriceMonthly: decimal.NewFromInt(49), MaxTechnicians: 3, Active: true},
		{ID: "pro", Name: "Pro", PriceMonthly: decimal.NewFromInt(99), MaxTechnicians: 10, Active: true},
	}, nil)

	resp := doRequest(t, app, "/api/billing/plans", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plans []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plans))
	require.Len(t, plans, 2)
	assert.Equal(t, "starter", plans[0]["id"])
	assert.Equal(t, "49", plans[0]["price_monthly"])
}

func salesApp(billingRepo *mocks.BillingRepository) *fiber.App {
	h := apphttp.NewSalesHandler(usecase.NewSalesUseCase(new(mocks.CompanyRepository), billingRepo))
	app := fiber.New()
	admin := app.Group("/api/admin",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequireRole(entity.RoleSuperAdmin),
	)
	admin.Get("/commissions", h.AllCommissions)
	admin.Post("/commissions/:id/pay", h.PayCommission)
	return app
}

func TestPayCommission_YaPagada_Retorna409(t *testing.T) {
	repo := new(mocks.BillingRepository)
	repo.On("GetCommission", mock.Anything, "com-1").
		Return(&entity.SalesCommission{ID: "com-1", Status: entity.CommissionPaid}, nil)
	repo.On("MarkCommissionPaid", mock.Anything, "com-1").Return(domain.ErrConflict)

	resp := postJSON(t, salesApp(repo), "/api/admin/commissions/com-1/pay", nil,
		map[string]string{"Authorization": tokenFor(t, entity.RoleSuperAdmin, "")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, resp))
}

func TestPayCommission_NoExiste_Retorna404(t *testing.T) {
	repo := new(mocks.BillingRepository)
	repo.On("GetCommission", mock.Anything, "nope").Return(nil, nil)

	resp := postJSON(t, salesApp(repo), "/api/admin/commissions/nope/pay", nil,
		map[string]string{"Authorization": tokenFor(t, entity.RoleSuperAdmin, "")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	repo.AssertNotCalled(t, "MarkCommissionPaid", mock.Anything, mock.Anything)
}

func TestAdminCommissions_VendedorNoAccede(t *testing.T) {
	resp := doRequest(t, salesApp(new(mocks.BillingRepository)), "/api/admin/commissions", tokenFor(t, entity.RoleSalesStaff, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminCommissions_StatusInvalido_Retorna400(t *testing.T) {
	resp := doRequest(t, salesApp(new(mocks.BillingRepository)), "/api/admin/commissions?status=cobrada", tokenFor(t, entity.RoleSuperAdmin, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestPublicSubmit_RatingFueraDeRango(t *testing.T) {
	h := apphttp.NewReviewHandler(nil)
	app := fiber.New()
	app.Post("/api/public/reviews/:token", h.PublicSubmit)

	for _, rating := range []int{0, 6} {
		body, _ := json.Marshal(map[string]any{"rating": rating})
		resp := postJSON(t, app, "/api/public/reviews/abc", body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rating %d", rating)
		resp.Body.Close()
	}
}

func TestCheckInGetByID_IDMalFormado_Retorna404(t *testing.T) {
	app := fiber.New()
	h := apphttp.NewCheckInHandler(nil)
	app.Get("/api/check-ins/:id", apphttp.ValidIDParams("id"), h.GetByID)

	resp := doRequest(t, app, "/api/check-ins/abc", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestValidIDParams(t *testing.T) {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/r/:id", apphttp.ValidIDParams("id", "company_id"), ok)
	app.Post("/crm/:provider/webhook/:company_id", apphttp.ValidIDParams("id", "company_id"), ok)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"uuid válido", http.MethodGet, "/r/5b3f0c8e-2a1d-4e6f-8b7a-9c0d1e2f3a4b", fiber.StatusOK},
		{"id numérico", http.MethodGet, "/r/123", fiber.StatusNotFound},
		{"inyección", http.MethodGet, "/r/1%27%20OR%201=1", fiber.StatusNotFound},
		{"company_id inválido", http.MethodPost, "/crm/jobber/webhook/acme", fiber.StatusNotFound},
		{"company_id válido", http.MethodPost, "/crm/jobber/webhook/5b3f0c8e-2a1d-4e6f-8b7a-9c0d1e2f3a4b", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
