package ai

import (
	"context"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

var _ ports.BlogGenerator = (*FallbackGenerator)(nil)

// FallbackGenerator intenta primary y, si falla, usa secondary.
type FallbackGenerator struct {
	primary   ports.BlogGenerator
	secondary ports.BlogGenerator
	log       *logger.Logger
}

// NewFallbackGenerator constructor. primary puede ser nil.
func NewFallbackGenerator(primary, secondary ports.BlogGenerator, log *logger.Logger) *FallbackGenerator {
	return &FallbackGenerator{primary: primary, secondary: secondary, log: log}
}

func (g *FallbackGenerator) GenerateBlogPost(ctx context.Context, p ports.BlogPrompt) (*ports.BlogDraft, error) {
	if g.primary != nil {
		draft, err := g.primary.GenerateBlogPost(ctx, p)
		if err == nil {
			return draft, nil
		}
		g.log.Warn().Err(err).Msg("generación con IA fallida, se usa plantilla")
	}
	return g.secondary.GenerateBlogPost(ctx, p)
}
