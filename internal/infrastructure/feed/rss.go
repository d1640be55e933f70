package feed

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

var _ ports.FeedRenderer = (*RSSRenderer)(nil)

// RSSRenderer arma documentos RSS 2.0 con etree.
type RSSRenderer struct{}

// NewRSSRenderer constructor.
func NewRSSRenderer() *RSSRenderer { return &RSSRenderer{} }

// RenderRSS serializa el canal. El contenido HTML de cada item va como texto
// (etree escapa los caracteres especiales).
func (RSSRenderer) RenderRSS(ch ports.FeedChannel) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:atom", "http://www.w3.org/2005/Atom")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(ch.Title)
	channel.CreateElement("link").SetText(ch.Link)
	channel.CreateElement("description").SetText(ch.Description)
	self := channel.CreateElement("atom:link")
	self.CreateAttr("href", ch.Link+"/feed.xml")
	self.CreateAttr("rel", "self")
	self.CreateAttr("type", "application/rss+xml")

	for _, it := range ch.Items {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(it.Title)
		item.CreateElement("link").SetText(it.Link)
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText(it.GUID)
		item.CreateElement("description").SetText(it.Description)
		if it.PublishedAt != "" {
			item.CreateElement("pubDate").SetText(it.PublishedAt)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("feed: serializar rss: %w", err)
	}
	return out, nil
}
