package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

const defaultHostPattern = "https://%s.wikipedia.org"

// Client fetches encyclopedia summaries. The host carries the content
// language, so the locale selects which wiki is queried.
type Client struct {
	hostPattern string
	httpClient  *http.Client
}

// NewClient builds an API client.
func NewClient(hostPattern string, timeout time.Duration) *Client {
	pattern := strings.TrimSpace(hostPattern)
	if !strings.Contains(pattern, "%s") {
		pattern = defaultHostPattern
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hostPattern: strings.TrimRight(pattern, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type summaryResponse struct {
	Title      string `json:"title"`
	Extract    string `json:"extract"`
	ContentURL struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Summary fetches the article extract for a scientific name. A non-2xx
// status means "no summary" and is reported as ok=false, not an error.
func (c *Client) Summary(ctx context.Context, scientificName string, locale identify.Locale) (identify.Summary, bool, error) {
	host := fmt.Sprintf(c.hostPattern, locale.Code())
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", host, url.PathEscape(scientificName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identify.Summary{}, false, fmt.Errorf("build summary request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identify.Summary{}, false, fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return identify.Summary{}, false, nil
	}

	var raw summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return identify.Summary{}, false, fmt.Errorf("decode summary response: %w", err)
	}
	if strings.TrimSpace(raw.Extract) == "" {
		return identify.Summary{}, false, nil
	}

	return identify.Summary{
		Title:      raw.Title,
		Extract:    raw.Extract,
		ContentURL: raw.ContentURL.Desktop.Page,
	}, true, nil
}

var _ identify.Encyclopedia = (*Client)(nil)
