package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain"
	"github.com/jhoicas/rankitpro-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura de suscripción.
type PDFUseCase struct {
	billing   repository.BillingRepository
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	renderer  ports.InvoicePDFRenderer
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	billing repository.BillingRepository,
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	renderer ports.InvoicePDFRenderer,
) *PDFUseCase {
	return &PDFUseCase{billing: billing, companies: companies, plans: plans, renderer: renderer}
}

// InvoicePDF recupera la factura, la empresa y el plan y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o es de otra empresa.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.billing.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Cargar empresa y plan ──────────────────────────────────────────────
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	plan, err := uc.plans.GetByID(ctx, inv.PlanID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener plan: %w", err)
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.renderer.RenderInvoice(inv, company, plan)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := inv.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("factura_%s_%s.pdf", inv.PeriodStart.Format("200601"), short), nil
}
