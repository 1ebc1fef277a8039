// Package transport defines the request and response shapes of the places
// API.
package transport

import "nowmarketing_backend/internal/places/domain"

// SearchRequest carries the search parameters. Every field is optional;
// query/q and location/city are accepted as aliases. When both lat and lng
// are present, geocoding of the location text is skipped.
type SearchRequest struct {
	Query     string   `form:"query" json:"query"`
	Q         string   `form:"q" json:"q"`
	Location  string   `form:"location" json:"location"`
	City      string   `form:"city" json:"city"`
	Category  string   `form:"category" json:"category"`
	MinRating *float64 `form:"minRating" json:"minRating"`
	Radius    int      `form:"radius" json:"radius"`
	Limit     int      `form:"limit" json:"limit"`
	Lat       *float64 `form:"lat" json:"lat"`
	Lng       *float64 `form:"lng" json:"lng"`
}

// SearchResponse wraps a result page. Cached reports whether the page was
// served from the ephemeral cache.
type SearchResponse struct {
	Data   []domain.Agency `json:"data"`
	Cached bool            `json:"cached"`
}

// DetailResponse wraps a single agency. Reviews is populated only when the
// caller asks for them.
type DetailResponse struct {
	Data    domain.Agency `json:"data"`
	Reviews interface{}   `json:"reviews,omitempty"`
}
