package gardenapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

const defaultBaseURL = "https://perenual.com/api"

// Client queries the gardening-data service for species ids and care
// attributes.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type speciesListResponse struct {
	Data []struct {
		ID int `json:"id"`
	} `json:"data"`
}

type speciesDetailResponse struct {
	ID       int      `json:"id"`
	Watering string   `json:"watering"`
	Sunlight []string `json:"sunlight"`
	Cycle    string   `json:"cycle"`
	Pruning  []string `json:"pruning_month"`
}

// FindSpeciesID looks up the first species record matching the name.
// An empty result set is a legitimate "no data" outcome, not an error.
func (c *Client) FindSpeciesID(ctx context.Context, scientificName string) (int, bool, error) {
	endpoint := fmt.Sprintf("%s/species-list?key=%s&q=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(scientificName))

	var raw speciesListResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return 0, false, err
	}
	if len(raw.Data) == 0 {
		return 0, false, nil
	}
	return raw.Data[0].ID, true, nil
}

// FetchCare retrieves the care attributes for a species id. Sunlight
// ordering is preserved as reported.
func (c *Client) FetchCare(ctx context.Context, speciesID int) (identify.CareProfile, error) {
	endpoint := fmt.Sprintf("%s/species/details/%d?key=%s", c.baseURL, speciesID, url.QueryEscape(c.apiKey))

	var raw speciesDetailResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return identify.CareProfile{}, err
	}
	return identify.CareProfile{
		SpeciesID: raw.ID,
		Watering:  raw.Watering,
		Sunlight:  raw.Sunlight,
		Cycle:     raw.Cycle,
		Pruning:   raw.Pruning,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build species request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("species request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("species request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode species response: %w", err)
	}
	return nil
}

var _ identify.CareSource = (*Client)(nil)
