package service

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/internal/places/transport"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/cache"
	"nowmarketing_backend/platform/logger"
)

type fakeGeocoder struct {
	forward      domain.LocationHint
	forwardErr   error
	forwardCalls int
	reverse      domain.Locality
	reverseErr   error
}

func (g *fakeGeocoder) DefaultCenter() domain.LocationHint {
	return domain.LocationHint{Lat: 40.7128, Lng: -74.0060, City: "New York", Country: "USA"}
}

func (g *fakeGeocoder) Forward(ctx context.Context, query string) (domain.LocationHint, error) {
	g.forwardCalls++
	if g.forwardErr != nil {
		return domain.LocationHint{}, g.forwardErr
	}
	return g.forward, nil
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (domain.Locality, error) {
	if g.reverseErr != nil {
		return domain.Locality{}, g.reverseErr
	}
	return g.reverse, nil
}

type fakeFeatures struct {
	elements []domain.Element
	err      error
	queries  []string
}

func (f *fakeFeatures) Query(ctx context.Context, query string) ([]domain.Element, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.elements, nil
}

type fakeStore struct {
	rows        map[string]domain.Agency
	byID        map[uuid.UUID]domain.Agency
	ingested    [][]domain.Agency
	ingestErr   error
	lookupErr   error
	lookupCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]domain.Agency{}, byID: map[uuid.UUID]domain.Agency{}}
}

func (s *fakeStore) Ingest(ctx context.Context, agencies []domain.Agency) error {
	s.ingested = append(s.ingested, agencies)
	if s.ingestErr != nil {
		return s.ingestErr
	}
	for _, a := range agencies {
		if _, exists := s.rows[a.ExternalID]; !exists {
			a.ID = uuid.New().String()
			s.rows[a.ExternalID] = a
		}
	}
	return nil
}

func (s *fakeStore) LookupByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.Agency, error) {
	s.lookupCalls++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	out := make([]domain.Agency, 0, len(externalIDs))
	for _, id := range externalIDs {
		if row, ok := s.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Agency, error) {
	row, ok := s.byID[id]
	if !ok {
		return domain.Agency{}, apperr.NotFound("agency not found")
	}
	return row, nil
}

func node(id int64, lat, lng float64, tags map[string]string) domain.Element {
	return domain.Element{Type: "node", ID: id, Lat: &lat, Lon: &lng, Tags: tags}
}

func newService(geo *fakeGeocoder, features *fakeFeatures, store *fakeStore) *Service {
	c := cache.New(10 * time.Minute)
	log := logger.New("test")
	if store == nil {
		// Pass a true nil interface so the service runs compute-only.
		return New(geo, features, nil, c, log)
	}
	return New(geo, features, store, c, log)
}

func TestSearchPipeline(t *testing.T) {
	geo := &fakeGeocoder{forward: domain.LocationHint{Lat: 51.5, Lng: -0.12, City: "London", Country: "UK"}}
	features := &fakeFeatures{elements: []domain.Element{
		node(1, 51.5, -0.12, map[string]string{"name": "Acme SEO", "office": "marketing"}),
		node(2, 52.5, -0.12, map[string]string{"name": "Far Away Ads", "office": "advertising"}),
		node(3, 51.5, -0.13, map[string]string{"office": "marketing"}), // unnamed, gets fallback
	}}
	store := newFakeStore()
	svc := newService(geo, features, store)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{
		Query:    "marketing agency",
		Location: "London",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Cached {
		t.Fatal("first search should not be cached")
	}
	if len(resp.Data) != 3 {
		t.Fatalf("got %d results, want 3", len(resp.Data))
	}
	// Ranked by distance from the geocoded center, nearest first.
	if resp.Data[0].Name != "Acme SEO" {
		t.Errorf("nearest = %q, want Acme SEO", resp.Data[0].Name)
	}
	if resp.Data[len(resp.Data)-1].Name != "Far Away Ads" {
		t.Errorf("farthest = %q, want Far Away Ads", resp.Data[len(resp.Data)-1].Name)
	}
	for _, a := range resp.Data {
		if a.Location.DistanceKm == nil {
			t.Errorf("%s: missing distance", a.ExternalID)
		}
		if a.ID == "" {
			t.Errorf("%s: stored row not merged back", a.ExternalID)
		}
	}

	// Second identical search is served from cache without new upstream calls.
	upstream := len(features.queries)
	resp2, err := svc.Search(context.Background(), transport.SearchRequest{
		Q:    "marketing agency",
		City: "London",
	})
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}
	if !resp2.Cached {
		t.Fatal("second search should be cached")
	}
	if len(features.queries) != upstream {
		t.Fatal("cached search must not hit the feature source")
	}
}

func TestSearchExplicitCoordinatesSkipGeocoding(t *testing.T) {
	geo := &fakeGeocoder{}
	features := &fakeFeatures{}
	svc := newService(geo, features, nil)

	lat, lng := 34.05, -118.24
	if _, err := svc.Search(context.Background(), transport.SearchRequest{
		Location: "Los Angeles",
		Lat:      &lat,
		Lng:      &lng,
	}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if geo.forwardCalls != 0 {
		t.Fatalf("geocoder called %d times with explicit coordinates", geo.forwardCalls)
	}
	if len(features.queries) != 1 || !strings.Contains(features.queries[0], "around:50000,34.05") {
		t.Fatalf("query did not use explicit center: %v", features.queries)
	}
}

func TestSearchGeocodeFailureFallsBackToDefaultCenter(t *testing.T) {
	geo := &fakeGeocoder{forwardErr: apperr.Upstream("geocoding service unavailable", nil)}
	features := &fakeFeatures{}
	svc := newService(geo, features, nil)

	if _, err := svc.Search(context.Background(), transport.SearchRequest{Location: "Nowhere"}); err != nil {
		t.Fatalf("Search must not fail on geocode error: %v", err)
	}
	if len(features.queries) != 1 || !strings.Contains(features.queries[0], "40.7128") {
		t.Fatalf("query did not fall back to default center: %v", features.queries)
	}
}

func TestSearchFeatureSourceErrorSurfaces(t *testing.T) {
	features := &fakeFeatures{err: apperr.Upstream("map data service unavailable", nil)}
	svc := newService(&fakeGeocoder{}, features, nil)

	_, err := svc.Search(context.Background(), transport.SearchRequest{})
	if apperr.GetKind(err) != apperr.KindUpstream {
		t.Fatalf("kind = %v, want upstream", apperr.GetKind(err))
	}
}

func TestSearchMinRatingTreatsNilAsZero(t *testing.T) {
	features := &fakeFeatures{elements: []domain.Element{
		node(1, 40.7128, -74.0060, map[string]string{"name": "Unrated", "office": "marketing"}),
	}}
	svc := newService(&fakeGeocoder{}, features, nil)

	min := 4.0
	resp, err := svc.Search(context.Background(), transport.SearchRequest{MinRating: &min})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Fatalf("unrated agency survived minRating=4 filter")
	}
}

func TestSearchClampsRadiusAndLimit(t *testing.T) {
	elements := make([]domain.Element, 0, 60)
	for i := int64(0); i < 60; i++ {
		elements = append(elements, node(i+1, 40.7128, -74.0060, map[string]string{
			"name": "Agency", "office": "marketing",
		}))
	}
	features := &fakeFeatures{elements: elements}
	svc := newService(&fakeGeocoder{}, features, nil)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{Radius: 500, Limit: 999})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(features.queries[0], "around:1000,") {
		t.Fatalf("radius below minimum not clamped: %s", features.queries[0])
	}
	if len(resp.Data) != 50 {
		t.Fatalf("got %d results, want limit cap 50", len(resp.Data))
	}
}

func TestSearchDefaultCenterWithoutInputs(t *testing.T) {
	features := &fakeFeatures{}
	geo := &fakeGeocoder{}
	svc := newService(geo, features, nil)

	if _, err := svc.Search(context.Background(), transport.SearchRequest{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if geo.forwardCalls != 0 {
		t.Fatal("geocoder called without location text")
	}
	if !strings.Contains(features.queries[0], "around:50000,40.7128,-74.006") {
		t.Fatalf("query did not use default center: %s", features.queries[0])
	}
}

func TestSearchWayFeatureEndToEnd(t *testing.T) {
	features := &fakeFeatures{elements: []domain.Element{{
		Type:   "way",
		ID:     99,
		Center: &domain.ElementCenter{Lat: 40.72, Lon: -74.00},
		Tags:   map[string]string{"office": "advertising", "name": "Foo Co"},
	}}}
	svc := newService(&fakeGeocoder{}, features, nil)

	lat, lng := 40.7128, -74.0060
	resp, err := svc.Search(context.Background(), transport.SearchRequest{
		Lat: &lat, Lng: &lng, Radius: 50000, Limit: 1,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Data))
	}
	a := resp.Data[0]
	if a.Name != "Foo Co" {
		t.Errorf("name = %q", a.Name)
	}
	if a.ExternalID != "osm:way/99" {
		t.Errorf("external id = %q", a.ExternalID)
	}
	hasTag := func(want string) bool {
		for _, tag := range a.Tags {
			if tag == want {
				return true
			}
		}
		return false
	}
	if !hasTag("Advertising") || !hasTag("Marketing") {
		t.Errorf("tags = %v, want Advertising and Marketing", a.Tags)
	}
	want := domain.HaversineKm(40.7128, -74.0060, 40.72, -74.00)
	if a.Location.DistanceKm == nil || math.Abs(*a.Location.DistanceKm-want) > 0.01 {
		t.Errorf("distance = %v, want %v", a.Location.DistanceKm, want)
	}
}

func TestSearchStorageFailuresLeaveFreshResults(t *testing.T) {
	features := &fakeFeatures{elements: []domain.Element{
		node(1, 40.7128, -74.0060, map[string]string{"name": "Acme", "office": "marketing"}),
	}}
	store := newFakeStore()
	store.ingestErr = apperr.Internal("database error")
	store.lookupErr = apperr.Internal("database error")
	svc := newService(&fakeGeocoder{}, features, store)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{})
	if err != nil {
		t.Fatalf("Search must not fail on storage errors: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Acme" {
		t.Fatalf("fresh results lost: %+v", resp.Data)
	}
}

func TestSearchComputeOnlyWithoutStore(t *testing.T) {
	features := &fakeFeatures{elements: []domain.Element{
		node(1, 40.7128, -74.0060, map[string]string{"name": "Acme", "office": "marketing"}),
	}}
	svc := newService(&fakeGeocoder{}, features, nil)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "" {
		t.Fatalf("compute-only results should carry no stored id: %+v", resp.Data)
	}
}

func TestDetailByStoredID(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.byID[id] = domain.Agency{ID: id.String(), ExternalID: "osm:node/1", Name: "Acme"}
	svc := newService(&fakeGeocoder{}, &fakeFeatures{}, store)

	agency, err := svc.Detail(context.Background(), id.String())
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if agency.Name != "Acme" {
		t.Fatalf("got %q, want Acme", agency.Name)
	}
}

func TestDetailByExternalRef(t *testing.T) {
	geo := &fakeGeocoder{reverse: domain.Locality{City: "Boston", Country: "USA"}}
	features := &fakeFeatures{elements: []domain.Element{
		node(42, 42.36, -71.06, map[string]string{"name": "Hub Creative", "office": "marketing"}),
	}}
	store := newFakeStore()
	svc := newService(geo, features, store)

	agency, err := svc.Detail(context.Background(), "osm:node/42")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if agency.Name != "Hub Creative" {
		t.Fatalf("name = %q", agency.Name)
	}
	if agency.Location.City != "Boston" {
		t.Fatalf("city = %q, want reverse-geocoded Boston", agency.Location.City)
	}
	if agency.Location.DistanceKm == nil || *agency.Location.DistanceKm != 0 {
		t.Fatalf("distance = %v, want 0 relative to own coordinate", agency.Location.DistanceKm)
	}
	if len(store.ingested) != 1 {
		t.Fatalf("detail should ingest the resolved agency")
	}
	if !strings.Contains(features.queries[0], "node(42)") {
		t.Fatalf("query = %q", features.queries[0])
	}
}

func TestDetailMalformedID(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeFeatures{}, nil)

	_, err := svc.Detail(context.Background(), "not-a-ref")
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("kind = %v, want bad request", apperr.GetKind(err))
	}
}

func TestDetailUnknownFeatureIsNotFound(t *testing.T) {
	svc := newService(&fakeGeocoder{}, &fakeFeatures{}, nil)

	_, err := svc.Detail(context.Background(), "osm:way/999")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not found", apperr.GetKind(err))
	}
}

func TestDetailReverseGeocodeFailureIsNonFatal(t *testing.T) {
	geo := &fakeGeocoder{reverseErr: apperr.Upstream("geocoding service unavailable", nil)}
	features := &fakeFeatures{elements: []domain.Element{
		node(7, 42.36, -71.06, map[string]string{"name": "Hub Creative", "office": "marketing"}),
	}}
	svc := newService(geo, features, nil)

	agency, err := svc.Detail(context.Background(), "osm:node/7")
	if err != nil {
		t.Fatalf("Detail must not fail on reverse geocode error: %v", err)
	}
	if agency.Location.City != "" {
		t.Fatalf("city = %q, want empty without reverse geocoding", agency.Location.City)
	}
}
