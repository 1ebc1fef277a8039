package domain

import (
	"math"
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeNodeFeature(t *testing.T) {
	element := Element{
		Type: "node",
		ID:   123,
		Lat:  floatPtr(40.72),
		Lon:  floatPtr(-74.00),
		Tags: map[string]string{
			"name":       "Foo Co",
			"office":     "advertising",
			"addr:city":  "New York",
			"website":    "https://foo.example",
			"phone":      "(212) 555-0175",
			"addr:street": "Broadway",
			"addr:housenumber": "120",
		},
	}
	hint := LocationHint{City: "New York", Country: "USA"}

	agency := Normalize(element, hint, NormalizeOptions{})

	if agency.ExternalID != "osm:node/123" {
		t.Fatalf("expected external id osm:node/123, got %s", agency.ExternalID)
	}
	if agency.Name != "Foo Co" {
		t.Fatalf("expected name Foo Co, got %s", agency.Name)
	}
	if agency.Location.Lat == nil || *agency.Location.Lat != 40.72 {
		t.Fatalf("expected lat 40.72, got %v", agency.Location.Lat)
	}
	if agency.Location.Address != "120 Broadway, New York, USA" {
		t.Fatalf("unexpected address: %q", agency.Location.Address)
	}
	if agency.Phone == nil || *agency.Phone != "+12125550175" {
		t.Fatalf("expected E.164 phone, got %v", agency.Phone)
	}
	if agency.Website == nil || *agency.Website != "https://foo.example" {
		t.Fatalf("unexpected website: %v", agency.Website)
	}
	if agency.Location.DistanceKm != nil {
		t.Fatal("expected nil distance without a center")
	}
	if agency.Rating != nil || agency.ReviewCount != 0 {
		t.Fatal("fresh records must default to nil rating and zero reviews")
	}
	if agency.Verified || agency.IsRegistered || agency.IsPro {
		t.Fatal("fresh records must not carry registration flags")
	}
}

func TestNormalizeWayUsesCenter(t *testing.T) {
	element := Element{
		Type:   "way",
		ID:     77,
		Center: &ElementCenter{Lat: 40.72, Lon: -74.00},
		Tags:   map[string]string{"name": "Foo Co", "office": "advertising"},
	}
	center := Coordinate{Lat: 40.7128, Lng: -74.0060}

	agency := Normalize(element, LocationHint{}, NormalizeOptions{Center: &center})

	if agency.Location.Lat == nil || *agency.Location.Lat != 40.72 {
		t.Fatalf("expected centroid lat, got %v", agency.Location.Lat)
	}
	want := HaversineKm(40.7128, -74.0060, 40.72, -74.00)
	if agency.Location.DistanceKm == nil || math.Abs(*agency.Location.DistanceKm-want) > 0.01 {
		t.Fatalf("expected distance %.4f, got %v", want, agency.Location.DistanceKm)
	}
}

func TestNormalizeMissingCoordinates(t *testing.T) {
	element := Element{Type: "relation", ID: 9, Tags: map[string]string{"name": "X"}}
	center := Coordinate{Lat: 1, Lng: 1}

	agency := Normalize(element, LocationHint{}, NormalizeOptions{Center: &center})

	if agency.Location.Lat != nil || agency.Location.Lng != nil {
		t.Fatal("expected nil coordinates")
	}
	if agency.Location.DistanceKm != nil {
		t.Fatal("expected nil distance without feature coordinates")
	}
}

func TestNormalizeNamePrecedence(t *testing.T) {
	cases := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"name wins", map[string]string{"name": "A", "brand": "B", "operator": "C"}, "A"},
		{"brand before operator", map[string]string{"brand": "B", "operator": "C"}, "B"},
		{"operator before official", map[string]string{"operator": "C", "official_name": "D"}, "C"},
		{"official last", map[string]string{"official_name": "D"}, "D"},
		{"fallback literal", map[string]string{}, "Marketing Agency"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agency := Normalize(Element{Type: "node", ID: 1, Tags: tc.tags}, LocationHint{}, NormalizeOptions{})
			if agency.Name != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, agency.Name)
			}
		})
	}
}

func TestNormalizeTagSetTitleCasing(t *testing.T) {
	element := Element{
		Type: "node",
		ID:   5,
		Tags: map[string]string{"name": "PR Firm", "office": "public_relations"},
	}

	agency := Normalize(element, LocationHint{}, NormalizeOptions{})

	if !containsString(agency.Tags, "Public Relations") {
		t.Fatalf("expected title-cased Public Relations tag, got %v", agency.Tags)
	}
	if !containsString(agency.Tags, "Marketing") {
		t.Fatalf("expected unconditional Marketing tag, got %v", agency.Tags)
	}
}

func TestNormalizeTagSetDeduplicates(t *testing.T) {
	element := Element{
		Type: "node",
		ID:   6,
		Tags: map[string]string{"name": "X", "office": "advertising", "shop": "advertising"},
	}

	agency := Normalize(element, LocationHint{}, NormalizeOptions{Category: "advertising"})

	count := 0
	for _, tag := range agency.Tags {
		if tag == "Advertising" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected Advertising exactly once, got tags %v", agency.Tags)
	}
}

func TestNormalizeDescriptionFallback(t *testing.T) {
	element := Element{Type: "node", ID: 7, Tags: map[string]string{"name": "X", "addr:city": "Boston"}}

	agency := Normalize(element, LocationHint{}, NormalizeOptions{})

	if agency.Description != "Marketing agency in Boston." {
		t.Fatalf("unexpected description: %q", agency.Description)
	}
}

func TestNormalizeAddressFallsBackToDisplayName(t *testing.T) {
	element := Element{Type: "node", ID: 8, Tags: map[string]string{"name": "X"}}
	hint := LocationHint{DisplayName: "Somewhere, USA"}

	agency := Normalize(element, hint, NormalizeOptions{})

	if agency.Location.Address != "Somewhere, USA" {
		t.Fatalf("unexpected address: %q", agency.Location.Address)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	element := Element{
		Type:   "way",
		ID:     42,
		Center: &ElementCenter{Lat: 40.72, Lon: -74.00},
		Tags: map[string]string{
			"name":   "Foo Co",
			"office": "advertising",
			"phone":  "+1 212 555 0175",
		},
	}
	hint := LocationHint{City: "New York", Country: "USA"}
	center := Coordinate{Lat: 40.7128, Lng: -74.0060}
	opts := NormalizeOptions{Center: &center, Category: "seo"}

	first := Normalize(element, hint, opts)
	second := Normalize(element, hint, opts)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("normalizing the same input twice must yield identical records")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// New York to Los Angeles, roughly 3936 km.
	got := HaversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	if math.Abs(got-3936) > 5 {
		t.Fatalf("expected ~3936 km, got %.1f", got)
	}

	if HaversineKm(40.7, -74.0, 40.7, -74.0) != 0 {
		t.Fatal("distance to self must be zero")
	}
}

func TestSortByDistanceStableWithNils(t *testing.T) {
	agencies := []Agency{
		{Name: "far", Location: Location{DistanceKm: floatPtr(12.5)}},
		{Name: "unknown-a"},
		{Name: "near", Location: Location{DistanceKm: floatPtr(0.3)}},
		{Name: "unknown-b"},
		{Name: "mid", Location: Location{DistanceKm: floatPtr(4.0)}},
	}

	SortByDistance(agencies)

	wantOrder := []string{"near", "mid", "far", "unknown-a", "unknown-b"}
	for i, want := range wantOrder {
		if agencies[i].Name != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, agencies[i].Name)
		}
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
