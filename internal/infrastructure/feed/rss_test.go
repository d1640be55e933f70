package feed

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

func TestRenderRSS(t *testing.T) {
	out, err := NewRSSRenderer().RenderRSS(ports.FeedChannel{
		Title:       "Acme HVAC",
		Link:        "https://api.example.com/api/public/companies/acme",
		Description: "Trabajos recientes",
		Items: []ports.FeedItem{{
			Title:       "AC Repair in Austin & Round Rock",
			Link:        "https://acme.com/blog/ac-repair",
			GUID:        "post-1",
			Description: "<p>Hola</p>",
			PublishedAt: "Mon, 04 May 2026 10:30:00 +0000",
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "&lt;p&gt;Hola&lt;/p&gt;")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "2.0", doc.SelectElement("rss").SelectAttrValue("version", ""))
	items := doc.FindElements("//channel/item")
	require.Len(t, items, 1)
	assert.Equal(t, "AC Repair in Austin & Round Rock", items[0].SelectElement("title").Text())
	assert.Equal(t, "post-1", items[0].SelectElement("guid").Text())
}

func TestRenderRSS_SinItems(t *testing.T) {
	out, err := NewRSSRenderer().RenderRSS(ports.FeedChannel{Title: "Vacío", Link: "https://x"})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Empty(t, doc.FindElements("//item"))
	assert.Equal(t, "Vacío", doc.FindElement("//channel/title").Text())
}
