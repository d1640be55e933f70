package ports

import (
	"io"

	"github.com/jhoicas/rankitpro-api/internal/domain/entity"
)

// InvoicePDFRenderer genera el PDF de una factura de suscripción.
type InvoicePDFRenderer interface {
	RenderInvoice(inv *entity.BillingInvoice, company *entity.Company, plan *entity.SubscriptionPlan) ([]byte, error)
}

// TechnicianRow fila del archivo de importación de técnicos.
type TechnicianRow struct {
	Line      int
	Name      string
	Email     string
	Phone     string
	Specialty string
	Location  string
}

// SpreadsheetCodec exportación de visitas e importación de técnicos en XLSX.
type SpreadsheetCodec interface {
	ExportCheckIns(list []*entity.CheckIn, technicianNames map[string]string) ([]byte, error)
	ParseTechnicians(r io.Reader) ([]TechnicianRow, error)
}

// FeedItem entrada del feed RSS público.
type FeedItem struct {
	Title       string
	Link        string
	GUID        string
	Description string
	PublishedAt string // RFC1123Z
}

// FeedChannel cabecera del feed.
type FeedChannel struct {
	Title       string
	Link        string
	Description string
	Items       []FeedItem
}

// FeedRenderer serializa el canal como RSS 2.0.
type FeedRenderer interface {
	RenderRSS(ch FeedChannel) ([]byte, error)
}
