// Package domain holds the canonical agency record and the pure
// transformations of the place-discovery pipeline: normalization of raw map
// features, relevance filtering, and distance math. Nothing in this package
// performs I/O.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ExternalIDPrefix identifies records sourced from OpenStreetMap.
const ExternalIDPrefix = "osm"

// Coordinate is a WGS-84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationHint is the best-known locality context for a search, produced by
// the geocoder. It fills gaps in sparse source tagging.
type LocationHint struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Coordinate returns the hint's point.
func (h LocationHint) Coordinate() Coordinate {
	return Coordinate{Lat: h.Lat, Lng: h.Lng}
}

// Locality is a resolved city/country pair, the result of reverse geocoding.
type Locality struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Location is the resolved place information attached to an agency.
// DistanceKm is query-relative and never persisted as authoritative.
type Location struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	DistanceKm *float64 `json:"distance_km"`
}

// Agency is the canonical normalized record describing a discoverable
// marketing business. It is constructed fresh on every aggregation pass and
// never mutated in place.
type Agency struct {
	ID           string                 `json:"id,omitempty"`
	ExternalID   string                 `json:"external_id"`
	Name         string                 `json:"name"`
	Rating       *float64               `json:"rating"`
	ReviewCount  int                    `json:"review_count"`
	Location     Location               `json:"location"`
	Description  string                 `json:"description"`
	Services     []string               `json:"services"`
	Tags         []string               `json:"tags"`
	Verified     bool                   `json:"verified"`
	IsRegistered bool                   `json:"is_registered"`
	IsPro        bool                   `json:"is_pro"`
	Website      *string                `json:"website"`
	Phone        *string                `json:"phone"`
	Pricing      map[string]interface{} `json:"pricing"`
	Stats        map[string]interface{} `json:"stats"`
}

// SearchText builds the lowercase haystack the relevance filter matches
// tokens against.
func (a Agency) SearchText() string {
	parts := make([]string, 0, len(a.Tags)+4)
	for _, part := range []string{a.Name, a.Description} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	parts = append(parts, a.Tags...)
	for _, part := range []string{a.Location.City, a.Location.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// FormatExternalID derives the stable identifier for a source feature,
// format "osm:type/id".
func FormatExternalID(elementType string, elementID int64) string {
	return fmt.Sprintf("%s:%s/%d", ExternalIDPrefix, elementType, elementID)
}

// SortByDistance orders agencies ascending by distance, in place. Agencies
// with unknown distance sort after all known ones; the sort is stable so
// their relative input order is preserved.
func SortByDistance(agencies []Agency) {
	sort.SliceStable(agencies, func(i, j int) bool {
		return distanceOrInf(agencies[i]) < distanceOrInf(agencies[j])
	})
}

func distanceOrInf(a Agency) float64 {
	if a.Location.DistanceKm == nil {
		return inf
	}
	return *a.Location.DistanceKm
}
