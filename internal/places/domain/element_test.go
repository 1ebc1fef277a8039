package domain

import (
	"testing"

	"nowmarketing_backend/platform/apperr"
)

func TestParseExternalRef(t *testing.T) {
	cases := []struct {
		input    string
		wantType string
		wantID   int64
	}{
		{"osm:node/123", "node", 123},
		{"osm:way/77", "way", 77},
		{"osm:relation/9", "relation", 9},
		{"way/77", "way", 77}, // prefix is optional
	}

	for _, tc := range cases {
		ref, err := ParseExternalRef(tc.input)
		if err != nil {
			t.Fatalf("ParseExternalRef(%q): unexpected error %v", tc.input, err)
		}
		if ref.Type != tc.wantType || ref.ID != tc.wantID {
			t.Fatalf("ParseExternalRef(%q) = %+v", tc.input, ref)
		}
	}
}

func TestParseExternalRefMalformed(t *testing.T) {
	for _, input := range []string{"", "osm:", "osm:node", "osm:node/", "osm:building/5", "osm:node/abc", "osm:node/-3"} {
		_, err := ParseExternalRef(input)
		if err == nil {
			t.Fatalf("ParseExternalRef(%q): expected error", input)
		}
		if !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("ParseExternalRef(%q): expected bad request kind, got %v", input, err)
		}
	}
}

func TestFormatExternalID(t *testing.T) {
	if got := FormatExternalID("way", 42); got != "osm:way/42" {
		t.Fatalf("expected osm:way/42, got %s", got)
	}
}

func TestElementCoordinate(t *testing.T) {
	lat, lon := 1.5, 2.5

	node := Element{Lat: &lat, Lon: &lon}
	if coord, ok := node.Coordinate(); !ok || coord.Lat != 1.5 || coord.Lng != 2.5 {
		t.Fatalf("node coordinate: got %+v, ok=%v", coord, ok)
	}

	way := Element{Center: &ElementCenter{Lat: 3, Lon: 4}}
	if coord, ok := way.Coordinate(); !ok || coord.Lat != 3 || coord.Lng != 4 {
		t.Fatalf("way coordinate: got %+v, ok=%v", coord, ok)
	}

	bare := Element{}
	if _, ok := bare.Coordinate(); ok {
		t.Fatal("element without coordinates must report none")
	}
}
