// Package billing contiene los casos de uso de suscripciones: cambio de plan,
// cancelación, renovaciones, webhooks del proveedor de pagos y PDF de facturas.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

// SubscriptionUseCase orquesta plan, facturas y cargos de una empresa.
//
// Flujo de cobro en un cambio de plan:
//  1. Se crea la factura en estado open.
//  2. Se pide el cargo al PaymentProvider. Si falla, la factura queda void y la empresa
//     conserva su plan.
//  3. Con el cargo aceptado se cambia el plan y se guarda el id externo (una transacción).
//  4. El webhook invoice.paid confirma: factura paid, periodo extendido, comisión.
type SubscriptionUseCase struct {
	companies     repository.CompanyRepository
	plans         repository.PlanRepository
	billing       repository.BillingRepository
	technicians   repository.TechnicianRepository
	tx            repository.TxRunner
	payments      ports.PaymentProvider
	currency      string
	webhookSecret string
	log           *logger.Logger
	now           func() time.Time
}

// NewSubscriptionUseCase construye el caso de uso.
func NewSubscriptionUseCase(
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	billing repository.BillingRepository,
	technicians repository.TechnicianRepository,
	tx repository.TxRunner,
	payments ports.PaymentProvider,
	currency, webhookSecret string,
	log *logger.Logger,
) *SubscriptionUseCase {
	if currency == "" {
		currency = "USD"
	}
	return &SubscriptionUseCase{
		companies:     companies,
		plans:         plans,
		billing:       billing,
		technicians:   technicians,
		tx:            tx,
		payments:      payments,
		currency:      currency,
		webhookSecret: webhookSecret,
		log:           log,
		now:           time.Now,
	}
}

// ListPlans planes activos (endpoint público).
func (uc *SubscriptionUseCase) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	list, err := uc.plans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewPlanResponse(p))
	}
	return out, nil
}

// GetSubscription plan y estado de suscripción de la empresa.
func (uc *SubscriptionUseCase) GetSubscription(ctx context.Context, companyID string) (*dto.SubscriptionResponse, error) {
	company, plan, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return subscriptionOf(company, plan), nil
}

// ChangePlan cambia el plan, emite la factura del nuevo periodo y solicita el cargo.
// Un plan cuyo límite de técnicos quede por debajo de los activos se rechaza.
func (uc *SubscriptionUseCase) ChangePlan(ctx context.Context, companyID string, req dto.ChangePlanRequest) (*dto.SubscriptionResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if req.PlanID == "" {
		return nil, fmt.Errorf("%w: plan_id es obligatorio", domain.ErrInvalidInput)
	}
	plan, err := uc.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, fmt.Errorf("%w: plan %q no disponible", domain.ErrInvalidInput, req.PlanID)
	}
	if plan.MaxTechnicians > 0 {
		active, err := uc.technicians.CountActive(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if active > plan.MaxTechnicians {
			return nil, fmt.Errorf("%w: la empresa tiene %d técnicos activos y el plan permite %d",
				domain.ErrPlanLimitReached, active, plan.MaxTechnicians)
		}
	}

	inv := uc.newInvoice(company.ID, plan, uc.now().UTC())
	free := inv.Amount.IsZero()
	if !free {
		if err := uc.billing.CreateInvoice(ctx, inv); err != nil {
			return nil, fmt.Errorf("billing: cambio de plan: %w", err)
		}
		externalID, err := uc.requestCharge(ctx, company, plan, inv)
		if err != nil {
			uc.voidInvoice(ctx, inv)
			return nil, err
		}
		inv.ExternalID = externalID
	}

	updated := *company
	updated.PlanID = plan.ID
	if updated.SubscriptionStatus == entity.SubscriptionCanceled {
		updated.SubscriptionStatus = entity.SubscriptionPastDue
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Companies.Update(ctx, &updated); err != nil {
			return err
		}
		if free {
			return repos.Billing.CreateInvoice(ctx, inv)
		}
		return repos.Billing.UpdateInvoice(ctx, inv)
	})
	if err != nil {
		// El cargo ya está pedido: invoice.paid trae el invoice_id y aplica el plan igualmente.
		return nil, fmt.Errorf("billing: cambio de plan: %w", err)
	}
	*company = updated

	if free {
		if err := uc.markPaid(ctx, inv); err != nil {
			return nil, err
		}
	}
	return subscriptionOf(company, plan), nil
}

// voidInvoice anula la factura de un cargo rechazado. Un error aquí solo se registra:
// la factura open sin id externo no genera cobros.
func (uc *SubscriptionUseCase) voidInvoice(ctx context.Context, inv *entity.BillingInvoice) {
	inv.Status = entity.InvoiceStatusVoid
	if err := uc.billing.UpdateInvoice(ctx, inv); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo anular la factura")
	}
}

// Cancel cancela la suscripción; la empresa conserva el acceso hasta el fin del periodo pagado.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, companyID string) (*dto.SubscriptionResponse, error) {
	company, plan, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.SubscriptionStatus == entity.SubscriptionCanceled {
		return nil, fmt.Errorf("%w: la suscripción ya está cancelada", domain.ErrConflict)
	}
	company.SubscriptionStatus = entity.SubscriptionCanceled
	if err := uc.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return subscriptionOf(company, plan), nil
}

// ListInvoices facturas de la empresa, más recientes primero.
func (uc *SubscriptionUseCase) ListInvoices(ctx context.Context, companyID string, limit, offset int) (*dto.InvoiceListResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := uc.billing.ListInvoices(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// RunRenewals tarea programada: pruebas vencidas pasan a past_due; periodos vencidos
// generan factura y cargo y quedan en past_due hasta que llegue invoice.paid.
// Devuelve cuántas empresas procesó.
func (uc *SubscriptionUseCase) RunRenewals(ctx context.Context) (int, error) {
	now := uc.now().UTC()
	due, err := uc.companies.ListDueForRenewal(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("billing: renovaciones: %w", err)
	}
	processed := 0
	for _, company := range due {
		if err := uc.renew(ctx, company, now); err != nil {
			uc.log.Error().Err(err).Str("company_id", company.ID).Msg("renovación fallida")
			continue
		}
		processed++
	}
	return processed, nil
}

func (uc *SubscriptionUseCase) renew(ctx context.Context, company *entity.Company, now time.Time) error {
	if company.SubscriptionStatus == entity.SubscriptionTrialing {
		company.SubscriptionStatus = entity.SubscriptionPastDue
		return uc.companies.Update(ctx, company)
	}
	plan, err := uc.plans.GetByID(ctx, company.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan %q no existe", company.PlanID)
	}
	start := now
	if company.CurrentPeriodEnd != nil {
		start = *company.CurrentPeriodEnd
	}
	inv := uc.newInvoice(company.ID, plan, start)
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		company.SubscriptionStatus = entity.SubscriptionPastDue
		if err := repos.Companies.Update(ctx, company); err != nil {
			return err
		}
		return repos.Billing.CreateInvoice(ctx, inv)
	})
	if err != nil {
		return err
	}
	return uc.charge(ctx, company, plan, inv)
}

func (uc *SubscriptionUseCase) newInvoice(companyID string, plan *entity.SubscriptionPlan, start time.Time) *entity.BillingInvoice {
	return &entity.BillingInvoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		PlanID:      plan.ID,
		Amount:      plan.PriceMonthly.Round(2),
		Currency:    uc.currency,
		Status:      entity.InvoiceStatusOpen,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
		CreatedAt:   uc.now().UTC(),
	}
}

// charge solicita el cargo y guarda el id externo. Planes gratuitos se marcan pagados al momento.
func (uc *SubscriptionUseCase) charge(ctx context.Context, company *entity.Company, plan *entity.SubscriptionPlan, inv *entity.BillingInvoice) error {
	if inv.Amount.IsZero() {
		return uc.markPaid(ctx, inv)
	}
	externalID, err := uc.requestCharge(ctx, company, plan, inv)
	if err != nil {
		return err
	}
	inv.ExternalID = externalID
	if err := uc.billing.UpdateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("billing: guardar id externo: %w", err)
	}
	return nil
}

func (uc *SubscriptionUseCase) requestCharge(ctx context.Context, company *entity.Company, plan *entity.SubscriptionPlan, inv *entity.BillingInvoice) (string, error) {
	externalID, err := uc.payments.Charge(ctx, ports.ChargeRequest{
		CompanyID:   company.ID,
		InvoiceID:   inv.ID,
		Email:       company.Email,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
		Description: fmt.Sprintf("Plan %s %s", plan.Name, inv.PeriodStart.Format("2006-01")),
	})
	if err != nil {
		return "", fmt.Errorf("%w: factura %s: %v", domain.ErrPaymentFailed, inv.ID, err)
	}
	return externalID, nil
}

func (uc *SubscriptionUseCase) load(ctx context.Context, companyID string) (*entity.Company, *entity.SubscriptionPlan, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	plan, err := uc.plans.GetByID(ctx, company.PlanID)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, fmt.Errorf("billing: plan %q de la empresa no existe", company.PlanID)
	}
	return company, plan, nil
}

func subscriptionOf(c *entity.Company, p *entity.SubscriptionPlan) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		Plan:             dto.NewPlanResponse(p),
		Status:           c.SubscriptionStatus,
		TrialEndsAt:      c.TrialEndsAt,
		CurrentPeriodEnd: c.CurrentPeriodEnd,
	}
}
