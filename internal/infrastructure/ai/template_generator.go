package ai

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

var _ ports.BlogGenerator = (*TemplateGenerator)(nil)

// TemplateGenerator borrador determinista sin llamar a ningún modelo.
// Es el fallback cuando no hay API key o el proveedor falla.
type TemplateGenerator struct{}

// NewTemplateGenerator constructor.
func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

var titleCaser = cases.Title(language.English)

// GenerateBlogPost arma título y HTML a partir de tipo de trabajo, ubicación y notas.
func (TemplateGenerator) GenerateBlogPost(_ context.Context, p ports.BlogPrompt) (*ports.BlogDraft, error) {
	job := strings.TrimSpace(p.JobType)
	if job == "" {
		return nil, fmt.Errorf("AI: tipo de trabajo vacío")
	}
	title := titleCaser.String(job)
	if p.Location != "" {
		title = fmt.Sprintf("%s in %s", title, p.Location)
	}
	title += " | " + p.CompanyName

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Our team at %s recently completed a %s job", html.EscapeString(p.CompanyName), html.EscapeString(strings.ToLower(job)))
	if p.Location != "" {
		fmt.Fprintf(&b, " in %s", html.EscapeString(p.Location))
	}
	b.WriteString(".</p>\n")
	if p.Notes != "" {
		b.WriteString("<h2>What we did</h2>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(p.Notes))
	}
	if p.TechnicianName != "" {
		fmt.Fprintf(&b, "<p>The job was handled by %s, one of our experienced technicians.</p>\n", html.EscapeString(p.TechnicianName))
	}
	fmt.Fprintf(&b, "<p>Need help with %s? Contact %s today.</p>", html.EscapeString(strings.ToLower(job)), html.EscapeString(p.CompanyName))

	return &ports.BlogDraft{Title: title, Content: b.String()}, nil
}
