package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/logger"
)

// Client executes Overpass QL queries over HTTP POST.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *logger.Logger
}

// NewClient creates an Overpass client. The client timeout sits just above
// the server-side budget declared in each query.
func NewClient(baseURL, userAgent string, log *logger.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: (serverTimeoutSeconds + 5) * time.Second},
		log:       log,
	}
}

// response mirrors the relevant part of the Overpass JSON payload.
type response struct {
	Elements []domain.Element `json:"elements"`
}

// Query posts an Overpass QL query and returns the raw map features.
func (c *Client) Query(ctx context.Context, query string) ([]domain.Element, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamError("overpass", "query", 0, err)
		return nil, apperr.Upstream("map data service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("overpass", "query", resp.StatusCode, nil)
		return nil, apperr.Upstream("map data service unavailable",
			fmt.Errorf("overpass status %d", resp.StatusCode))
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.UpstreamError("overpass", "decode", 0, err)
		return nil, apperr.Upstream("map data service unavailable", err)
	}

	return payload.Elements, nil
}
