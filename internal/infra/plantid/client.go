package plantid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

const defaultBaseURL = "https://plant.id/api/v3/identification"

// Client submits images to the plant identification service.
type Client struct {
	baseURL    string
	apiKey     string
	details    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty key is allowed here; the
// domain rejects identification attempts before any request is made.
func NewClient(apiKey, baseURL, details string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		details: details,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type identifyRequest struct {
	Images        []string `json:"images"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	SimilarImages bool     `json:"similar_images"`
}

type identifyResponse struct {
	Result struct {
		Classification struct {
			Suggestions []suggestion `json:"suggestions"`
		} `json:"classification"`
	} `json:"result"`
}

type suggestion struct {
	Name          string  `json:"name"`
	Probability   float64 `json:"probability"`
	SimilarImages []struct {
		URL string `json:"url"`
	} `json:"similar_images"`
}

// Identify encodes the image and requests ranked species suggestions.
// A single request, no retry; ordering is the remote service's.
func (c *Client) Identify(ctx context.Context, image []byte, geo *identify.Geo, locale identify.Locale) ([]identify.Suggestion, error) {
	payload := identifyRequest{
		Images:        []string{EncodeImage(image)},
		SimilarImages: true,
	}
	if geo != nil {
		payload.Latitude = &geo.Latitude
		payload.Longitude = &geo.Longitude
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode identification request: %w", err)
	}

	endpoint := c.baseURL
	query := url.Values{}
	if c.details != "" {
		query.Set("details", c.details)
	}
	query.Set("language", locale.Code())
	if encoded := query.Encode(); encoded != "" {
		endpoint = endpoint + "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build identification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("identification request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw identifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode identification response: %w", err)
	}

	suggestions := make([]identify.Suggestion, 0, len(raw.Result.Classification.Suggestions))
	for _, sug := range raw.Result.Classification.Suggestions {
		urls := make([]string, 0, len(sug.SimilarImages))
		for _, img := range sug.SimilarImages {
			if img.URL != "" {
				urls = append(urls, img.URL)
			}
		}
		suggestions = append(suggestions, identify.Suggestion{
			ScientificName: sug.Name,
			Probability:    sug.Probability,
			SimilarImages:  urls,
		})
	}
	return suggestions, nil
}

// EncodeImage converts raw image bytes to the transfer encoding the
// identification service expects.
func EncodeImage(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// StripDataURI removes a "data:image/...;base64," prefix from an already
// encoded payload, returning the bare base64 body.
func StripDataURI(encoded string) string {
	trimmed := strings.TrimSpace(encoded)
	if !strings.HasPrefix(trimmed, "data:") {
		return trimmed
	}
	if idx := strings.Index(trimmed, ","); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

var _ identify.Identifier = (*Client)(nil)
