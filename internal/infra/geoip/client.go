package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

const defaultBaseURL = "http://ip-api.com/json"

// Client resolves approximate coordinates from a client IP. The probe is
// one-shot and best-effort; callers treat any failure as "unknown".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate fetches coordinates for the given IP. Local or empty addresses
// fall back to the caller's own public IP as seen by the service.
func (c *Client) Locate(ctx context.Context, clientIP string) (*identify.Geo, error) {
	endpoint := c.baseURL
	ip := strings.TrimSpace(clientIP)
	if ip != "" && !isLoopback(ip) {
		endpoint = fmt.Sprintf("%s/%s", c.baseURL, ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?fields=status,message,lat,lon", nil)
	if err != nil {
		return nil, fmt.Errorf("build geo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geo request error: status=%d", resp.StatusCode)
	}

	var raw lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode geo response: %w", err)
	}
	if raw.Status != "success" {
		return nil, fmt.Errorf("geo lookup rejected: %s", raw.Message)
	}

	return &identify.Geo{Latitude: raw.Lat, Longitude: raw.Lon}, nil
}

func isLoopback(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.")
}

var _ identify.GeoProbe = (*Client)(nil)
