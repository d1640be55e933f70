// Package pdf genera el PDF de las facturas de suscripción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Rank It Pro           │  N° Factura + Fecha + Estado│
//	│  CLIENTE: Empresa / email / web                              │
//	│  TABLA: Descripción | Periodo | Importe                      │
//	│  TOTAL                                                       │
//	│  FOOTER: fecha de pago o leyenda de pendiente                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

var _ ports.InvoicePDFRenderer = (*MarotoInvoiceRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 26, Green: 86, Blue: 219}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "Jan 2, 2006"

// MarotoInvoiceRenderer implementa InvoicePDFRenderer usando Maroto v2.
type MarotoInvoiceRenderer struct {
	issuer string
}

// NewMarotoInvoiceRenderer construye el generador; issuer es el nombre que va en la cabecera.
func NewMarotoInvoiceRenderer(issuer string) *MarotoInvoiceRenderer {
	if issuer == "" {
		issuer = "Rank It Pro"
	}
	return &MarotoInvoiceRenderer{issuer: issuer}
}

// RenderInvoice genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceRenderer) RenderInvoice(inv *entity.BillingInvoice, company *entity.Company, plan *entity.SubscriptionPlan) ([]byte, error) {
	if inv == nil || company == nil {
		return nil, fmt.Errorf("pdf: factura o empresa nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+invoiceNumber(inv), true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(inv, plan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(inv))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// invoiceNumber número legible: INV-<primeros 8 del id en mayúsculas>.
func invoiceNumber(inv *entity.BillingInvoice) string {
	id := strings.ReplaceAll(inv.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "INV-" + strings.ToUpper(id)
}

func (g *MarotoInvoiceRenderer) headerRow(inv *entity.BillingInvoice) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Subscription invoice", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(invoiceNumber(inv), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Date: "+inv.CreatedAt.Format(dateLayout), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New("Status: "+strings.ToUpper(inv.Status), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 13}),
		),
	)
}

func customerRow(c *entity.Company) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("%s   |   %s", nonEmpty(c.Email, "-"), nonEmpty(c.Website, "-")),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Period", 4, align.Center),
		h("Amount", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(inv *entity.BillingInvoice, plan *entity.SubscriptionPlan) core.Row {
	desc := "Subscription " + inv.PlanID
	if plan != nil {
		desc = plan.Name + " plan - monthly subscription"
	}
	period := inv.PeriodStart.Format(dateLayout) + " - " + inv.PeriodEnd.Format(dateLayout)
	return row.New(8).Add(
		col.New(6).Add(text.New(desc, props.Text{Size: 8, Top: 2, Left: 1})),
		col.New(4).Add(text.New(period, props.Text{Size: 8, Align: align.Center, Top: 2})),
		col.New(2).Add(text.New(formatAmount(inv), props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1})),
	)
}

func totalRow(inv *entity.BillingInvoice) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2})),
		col.New(2).Add(text.New(formatAmount(inv), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1})),
	)
}

func footerRow(inv *entity.BillingInvoice) core.Row {
	msg := "Payment pending. Your plan stays active while the invoice is being processed."
	switch {
	case inv.Status == entity.InvoiceStatusPaid && inv.PaidAt != nil:
		msg = "Paid on " + inv.PaidAt.Format(dateLayout) + ". Thank you for your business."
	case inv.Status == entity.InvoiceStatusVoid:
		msg = "This invoice was voided and is not payable."
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 2}),
	))
}

// formatAmount "USD 99.00".
func formatAmount(inv *entity.BillingInvoice) string {
	return strings.ToUpper(inv.Currency) + " " + formatMoney(inv.Amount.StringFixed(2))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta comas de miles en la parte entera: "1234.50" -> "1,234.50".
func formatMoney(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	n := len(intPart)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + frac
	if neg {
		out = "-" + out
	}
	return out
}
