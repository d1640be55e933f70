package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

var _ ports.WordPressPublisher = (*Client)(nil)

// Client publica posts en la REST API de WordPress usando Application Passwords (basic auth).
type Client struct {
	httpClient *http.Client
}

// NewClient constructor.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 20 * time.Second}}
}

type wpPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
}

type wpPostResponse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PublishPost crea o actualiza el post como publicado y devuelve su ID en WP.
func (c *Client) PublishPost(ctx context.Context, site ports.WordPressSite, title, content, slug string, existingID *int64) (int64, error) {
	endpoint := strings.TrimRight(site.SiteURL, "/") + "/wp-json/wp/v2/posts"
	if existingID != nil {
		endpoint = fmt.Sprintf("%s/%d", endpoint, *existingID)
	}
	body, err := json.Marshal(wpPostRequest{Title: title, Content: content, Slug: slug, Status: "publish"})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("wordpress: crear request: %w", err)
	}
	req.SetBasicAuth(site.Username, site.AppPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("wordpress: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return 0, fmt.Errorf("wordpress: leer respuesta: %w", err)
	}
	var out wpPostResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode >= 300 {
		if out.Message != "" {
			return 0, fmt.Errorf("wordpress: %s (%s)", out.Message, out.Code)
		}
		return 0, fmt.Errorf("wordpress: HTTP %d", resp.StatusCode)
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("wordpress: respuesta sin id de post")
	}
	return out.ID, nil
}
