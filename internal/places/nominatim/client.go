// Package nominatim provides the geocoding client used to resolve free-text
// locations to coordinates and coordinates back to a locality.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Client issues forward and reverse geocoding requests against a Nominatim
// endpoint. Outbound calls are rate limited to one per second per the
// Nominatim usage policy.
type Client struct {
	baseURL       string
	userAgent     string
	defaultCenter domain.LocationHint
	client        *http.Client
	limiter       *rate.Limiter
	log           *logger.Logger
}

// NewClient creates a Nominatim geocoding client. defaultCenter is returned
// whenever a forward lookup cannot resolve, which is a recoverable condition
// rather than an error.
func NewClient(baseURL, userAgent string, defaultCenter domain.LocationHint, log *logger.Logger) *Client {
	return &Client{
		baseURL:       baseURL,
		userAgent:     userAgent,
		defaultCenter: defaultCenter,
		client:        &http.Client{Timeout: 10 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
		log:           log,
	}
}

// DefaultCenter returns the configured fallback center.
func (c *Client) DefaultCenter() domain.LocationHint {
	return c.defaultCenter
}

// result mirrors the relevant parts of the Nominatim payload. Coordinates
// arrive as strings.
type result struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// pickCity resolves a locality name with a fixed precedence across the
// address fields Nominatim may populate.
func pickCity(a address) string {
	for _, candidate := range []string{a.City, a.Town, a.Village, a.County, a.State} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Forward resolves a free-text place name to coordinates and locality.
// An empty query or an empty result set yields the default center.
func (c *Client) Forward(ctx context.Context, query string) (domain.LocationHint, error) {
	if query == "" {
		return c.defaultCenter, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("q", query)

	var results []result
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return domain.LocationHint{}, err
	}
	if len(results) == 0 {
		return c.defaultCenter, nil
	}

	first := results[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lng, lngErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lngErr != nil {
		return c.defaultCenter, nil
	}

	displayName := first.DisplayName
	if displayName == "" {
		displayName = query
	}

	return domain.LocationHint{
		Lat:         lat,
		Lng:         lng,
		City:        pickCity(first.Address),
		Country:     first.Address.Country,
		DisplayName: displayName,
	}, nil
}

// Reverse resolves a coordinate to its locality. An empty result yields
// empty city and country.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (domain.Locality, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var res result
	if err := c.get(ctx, "/reverse", params, &res); err != nil {
		return domain.Locality{}, err
	}

	return domain.Locality{
		City:    pickCity(res.Address),
		Country: res.Address.Country,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamError("nominatim", path, 0, err)
		return apperr.Upstream("geocoding service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("nominatim", path, resp.StatusCode, nil)
		return apperr.Upstream("geocoding service unavailable",
			fmt.Errorf("nominatim status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError("nominatim", path, 0, err)
		return apperr.Upstream("geocoding service unavailable", err)
	}

	return nil
}
