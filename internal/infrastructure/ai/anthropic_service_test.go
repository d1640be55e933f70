package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
	"github.com/jhoicas/rankitpro-api/pkg/logger"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json directo", `{"title":"a"}`, `{"title":"a"}`},
		{"bloque markdown", "```json\n{\"title\":\"a\"}\n```", `{"title":"a"}`},
		{"texto alrededor", `Here you go: {"title":"a"} thanks`, `{"title":"a"}`},
		{"sin json", "nothing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestAnthropicService_GenerateBlogPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"title\":\"AC Repair in Austin\",\"content\":\"<p>Done.</p>\"}"}]}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("test-key", "claude-test")
	s.endpoint = srv.URL

	draft, err := s.GenerateBlogPost(context.Background(), ports.BlogPrompt{CompanyName: "Acme", JobType: "AC Repair", Location: "Austin, TX"})
	require.NoError(t, err)
	assert.Equal(t, "AC Repair in Austin", draft.Title)
	assert.Equal(t, "<p>Done.</p>", draft.Content)
}

func TestAnthropicService_SinAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "m").GenerateBlogPost(context.Background(), ports.BlogPrompt{JobType: "x"})
	assert.Error(t, err)
}

func TestTemplateGenerator_EscapaHTML(t *testing.T) {
	draft, err := NewTemplateGenerator().GenerateBlogPost(context.Background(), ports.BlogPrompt{
		CompanyName: "Acme", JobType: "water heater install", Location: "Austin, TX", Notes: "<script>x</script>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Water Heater Install in Austin, TX | Acme", draft.Title)
	assert.NotContains(t, draft.Content, "<script>")
	assert.Contains(t, draft.Content, "&lt;script&gt;")
}

type failingGenerator struct{}

func (failingGenerator) GenerateBlogPost(context.Context, ports.BlogPrompt) (*ports.BlogDraft, error) {
	return nil, errors.New("boom")
}

func TestFallbackGenerator_UsaPlantillaSiFalla(t *testing.T) {
	g := NewFallbackGenerator(failingGenerator{}, NewTemplateGenerator(), logger.Nop())
	draft, err := g.GenerateBlogPost(context.Background(), ports.BlogPrompt{CompanyName: "Acme", JobType: "roof repair"})
	require.NoError(t, err)
	assert.Contains(t, draft.Title, "Roof Repair")
}
