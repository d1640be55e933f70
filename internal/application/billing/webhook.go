package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/rankitpro-api/internal/application/dto"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
	"github.com/jhoicas/rankitpro-api/pkg/signature"
)

// HandleWebhook verifica la firma HMAC del cuerpo y aplica el evento.
// Eventos desconocidos se aceptan sin cambios para que el proveedor no reintente.
func (uc *SubscriptionUseCase) HandleWebhook(ctx context.Context, body []byte, sig string) error {
	if !signature.Verify(uc.webhookSecret, body, sig) {
		return domain.ErrInvalidSignature
	}
	var ev dto.BillingWebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: evento mal formado", domain.ErrInvalidInput)
	}

	switch ev.Type {
	case dto.BillingEventInvoicePaid, dto.BillingEventInvoicePaymentFailed:
		inv, err := uc.findInvoice(ctx, ev)
		if err != nil {
			return err
		}
		if ev.Type == dto.BillingEventInvoicePaid {
			return uc.markPaid(ctx, inv)
		}
		return uc.markFailed(ctx, inv)
	case dto.BillingEventSubscriptionCanceled:
		return uc.markCanceled(ctx, ev.Data.CompanyID)
	default:
		uc.log.Info().Str("event", ev.Type).Str("event_id", ev.ID).Msg("evento de pagos ignorado")
		return nil
	}
}

func (uc *SubscriptionUseCase) findInvoice(ctx context.Context, ev dto.BillingWebhookEvent) (*entity.BillingInvoice, error) {
	var (
		inv *entity.BillingInvoice
		err error
	)
	switch {
	case ev.Data.InvoiceID != "":
		inv, err = uc.billing.GetInvoice(ctx, ev.Data.InvoiceID)
	case ev.Data.ExternalID != "":
		inv, err = uc.billing.GetInvoiceByExternalID(ctx, ev.Data.ExternalID)
	default:
		return nil, fmt.Errorf("%w: el evento no identifica la factura", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// markPaid es idempotente: una factura ya pagada no vuelve a extender el periodo
// ni a generar comisión.
func (uc *SubscriptionUseCase) markPaid(ctx context.Context, inv *entity.BillingInvoice) error {
	if inv.Status == entity.InvoiceStatusPaid {
		return nil
	}
	now := uc.now().UTC()
	return uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidAt = &now
		if err := repos.Billing.UpdateInvoice(ctx, inv); err != nil {
			return err
		}

		company, err := repos.Companies.GetByID(ctx, inv.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		// Una factura atrasada no retrocede el plan ni el periodo vigente.
		if company.CurrentPeriodEnd == nil || inv.PeriodEnd.After(*company.CurrentPeriodEnd) {
			periodEnd := inv.PeriodEnd
			company.PlanID = inv.PlanID
			company.SubscriptionStatus = entity.SubscriptionActive
			company.CurrentPeriodEnd = &periodEnd
			if err := repos.Companies.Update(ctx, company); err != nil {
				return err
			}
		}

		if company.SalesRepID == nil || inv.Amount.IsZero() {
			return nil
		}
		exists, err := repos.Billing.CommissionExistsForInvoice(ctx, inv.ID)
		if err != nil || exists {
			return err
		}
		rate := entity.DefaultCommissionRate
		return repos.Billing.CreateCommission(ctx, &entity.SalesCommission{
			ID:          uuid.New().String(),
			SalesUserID: *company.SalesRepID,
			CompanyID:   company.ID,
			InvoiceID:   inv.ID,
			Rate:        rate,
			Amount:      inv.Amount.Mul(rate).Round(2),
			Status:      entity.CommissionPending,
			CreatedAt:   now,
		})
	})
}

func (uc *SubscriptionUseCase) markFailed(ctx context.Context, inv *entity.BillingInvoice) error {
	if inv.Status == entity.InvoiceStatusPaid {
		return fmt.Errorf("%w: la factura ya está pagada", domain.ErrConflict)
	}
	company, err := uc.companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	company.SubscriptionStatus = entity.SubscriptionPastDue
	return uc.companies.Update(ctx, company)
}

func (uc *SubscriptionUseCase) markCanceled(ctx context.Context, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("%w: company_id es obligatorio", domain.ErrInvalidInput)
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	company.SubscriptionStatus = entity.SubscriptionCanceled
	return uc.companies.Update(ctx, company)
}
