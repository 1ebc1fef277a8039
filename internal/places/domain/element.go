package domain

import (
	"strconv"
	"strings"

	"nowmarketing_backend/platform/apperr"
)

// Element is a raw map feature as returned by the Overpass API. Way and
// relation features carry a bounding centroid in Center instead of a point.
// Elements are owned transiently by the pipeline and never persisted directly.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *ElementCenter    `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

// ElementCenter is the centroid Overpass reports for way/relation features.
type ElementCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinate extracts the element's point: direct lat/lon for nodes, the
// centroid for ways and relations. Returns false when neither is present.
func (e Element) Coordinate() (Coordinate, bool) {
	if e.Lat != nil && e.Lon != nil {
		return Coordinate{Lat: *e.Lat, Lng: *e.Lon}, true
	}
	if e.Center != nil {
		return Coordinate{Lat: e.Center.Lat, Lng: e.Center.Lon}, true
	}
	return Coordinate{}, false
}

// ExternalID returns the element's stable identifier.
func (e Element) ExternalID() string {
	return FormatExternalID(e.Type, e.ID)
}

// ExternalRef is a parsed external-source reference ("osm:type/id") pointing
// at a raw map feature that may not be persisted yet.
type ExternalRef struct {
	Type string
	ID   int64
}

var elementTypes = map[string]bool{
	"node":     true,
	"way":      true,
	"relation": true,
}

// ParseExternalRef interprets an identifier of the form "osm:type/id".
// Malformed references are a client error.
func ParseExternalRef(raw string) (ExternalRef, error) {
	cleaned := strings.TrimPrefix(raw, ExternalIDPrefix+":")

	elementType, rawID, ok := strings.Cut(cleaned, "/")
	if !ok || elementType == "" || rawID == "" {
		return ExternalRef{}, apperr.BadRequest("unsupported id format")
	}
	if !elementTypes[elementType] {
		return ExternalRef{}, apperr.BadRequest("unsupported id format")
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return ExternalRef{}, apperr.BadRequest("unsupported id format")
	}

	return ExternalRef{Type: elementType, ID: id}, nil
}
