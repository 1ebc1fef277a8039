// Package service orchestrates the place discovery pipeline: geocoding,
// map feature retrieval, normalization, ranking and the best-effort sync
// with persistent storage.
package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/internal/places/nominatim"
	"nowmarketing_backend/internal/places/overpass"
	"nowmarketing_backend/internal/places/repository"
	"nowmarketing_backend/internal/places/transport"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/cache"
	"nowmarketing_backend/platform/logger"
)

const (
	minRadiusMeters     = 1000
	maxRadiusMeters     = 100000
	defaultRadiusMeters = 50000
	maxLimit            = 50
	defaultLimit        = 30
)

// FeatureSource retrieves raw map features for an Overpass QL query.
type FeatureSource interface {
	Query(ctx context.Context, query string) ([]domain.Element, error)
}

// Service composes the pipeline stages. Store may be nil, in which case the
// service runs compute-only and skips the persistence sync.
type Service struct {
	geocoder nominatim.Geocoder
	features FeatureSource
	store    repository.Store
	cache    *cache.Cache
	log      *logger.Logger
}

func New(geocoder nominatim.Geocoder, features FeatureSource, store repository.Store, resultCache *cache.Cache, log *logger.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		features: features,
		store:    store,
		cache:    resultCache,
		log:      log,
	}
}

// searchKey is the canonical form of a search request; its JSON encoding is
// the cache key, so alias fields must already be collapsed.
type searchKey struct {
	Query     string   `json:"query"`
	Location  string   `json:"location"`
	Category  string   `json:"category"`
	MinRating *float64 `json:"minRating"`
	Radius    int      `json:"radius"`
	Limit     int      `json:"limit"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

// Search runs the full discovery pipeline and returns a ranked result page.
func (s *Service) Search(ctx context.Context, req transport.SearchRequest) (transport.SearchResponse, error) {
	key := searchKey{
		Query:     strings.TrimSpace(coalesce(req.Query, req.Q)),
		Location:  strings.TrimSpace(coalesce(req.Location, req.City)),
		Category:  strings.TrimSpace(strings.ToLower(req.Category)),
		MinRating: req.MinRating,
		Radius:    clampRadius(req.Radius),
		Limit:     clampLimit(req.Limit),
		Lat:       req.Lat,
		Lng:       req.Lng,
	}

	cacheKey := encodeKey(key)
	if hit, ok := s.cache.Get(cacheKey); ok {
		return transport.SearchResponse{Data: hit.([]domain.Agency), Cached: true}, nil
	}

	hint := s.resolveCenter(ctx, key)
	center := hint.Coordinate()

	elements, err := s.features.Query(ctx, overpass.BuildAround(center.Lat, center.Lng, key.Radius))
	if err != nil {
		return transport.SearchResponse{}, err
	}

	agencies := make([]domain.Agency, 0, len(elements))
	for _, el := range elements {
		a := domain.Normalize(el, hint, domain.NormalizeOptions{Center: &center, Category: key.Category})
		if a.Name == "" {
			continue
		}
		agencies = append(agencies, a)
	}

	agencies = domain.FilterByQuery(agencies, key.Query, key.Category)
	if key.MinRating != nil {
		agencies = filterByRating(agencies, *key.MinRating)
	}
	domain.SortByDistance(agencies)
	if len(agencies) > key.Limit {
		agencies = agencies[:key.Limit]
	}

	agencies = s.syncWithStore(ctx, agencies)

	s.cache.Set(cacheKey, agencies)
	return transport.SearchResponse{Data: agencies, Cached: false}, nil
}

// Detail resolves a single agency by stored id or external reference.
func (s *Service) Detail(ctx context.Context, rawID string) (domain.Agency, error) {
	if id, err := uuid.Parse(rawID); err == nil {
		if s.store == nil {
			return domain.Agency{}, apperr.NotFound("agency not found")
		}
		return s.store.GetByID(ctx, id)
	}

	ref, err := domain.ParseExternalRef(rawID)
	if err != nil {
		return domain.Agency{}, err
	}

	elements, err := s.features.Query(ctx, overpass.BuildElement(ref.Type, ref.ID))
	if err != nil {
		return domain.Agency{}, err
	}
	if len(elements) == 0 {
		return domain.Agency{}, apperr.NotFound("place not found")
	}

	el := elements[0]
	hint := s.geocoder.DefaultCenter()
	hint.City = ""
	hint.Country = ""

	opts := domain.NormalizeOptions{}
	if coord, ok := el.Coordinate(); ok {
		hint.Lat = coord.Lat
		hint.Lng = coord.Lng
		opts.Center = &coord

		locality, err := s.geocoder.Reverse(ctx, coord.Lat, coord.Lng)
		if err != nil {
			s.log.UpstreamError("nominatim", "reverse", 0, err)
		} else {
			hint.City = locality.City
			hint.Country = locality.Country
		}
	}

	agency := domain.Normalize(el, hint, opts)
	if s.store != nil {
		if err := s.store.Ingest(ctx, []domain.Agency{agency}); err != nil {
			s.log.DatabaseError("ingest", err)
		}
	}
	return agency, nil
}

// resolveCenter picks the search origin: explicit coordinates win, then the
// geocoded location text, then the default center. Geocoding failures fall
// back to the default center rather than failing the search.
func (s *Service) resolveCenter(ctx context.Context, key searchKey) domain.LocationHint {
	if key.Lat != nil && key.Lng != nil {
		hint := s.geocoder.DefaultCenter()
		hint.Lat = *key.Lat
		hint.Lng = *key.Lng
		return hint
	}
	if key.Location != "" {
		hint, err := s.geocoder.Forward(ctx, key.Location)
		if err != nil {
			s.log.UpstreamError("nominatim", "forward", 0, err)
			return s.geocoder.DefaultCenter()
		}
		return hint
	}
	return s.geocoder.DefaultCenter()
}

// syncWithStore persists the page and folds stored rows back in. Stored
// fields win over freshly derived ones, except distance which is always the
// value computed for this search's origin. Any storage failure leaves the
// fresh results untouched.
func (s *Service) syncWithStore(ctx context.Context, agencies []domain.Agency) []domain.Agency {
	if s.store == nil || len(agencies) == 0 {
		return agencies
	}

	if err := s.store.Ingest(ctx, agencies); err != nil {
		s.log.DatabaseError("ingest", err)
	}

	ids := make([]string, 0, len(agencies))
	for _, a := range agencies {
		ids = append(ids, a.ExternalID)
	}

	stored, err := s.store.LookupByExternalIDs(ctx, ids)
	if err != nil {
		s.log.DatabaseError("lookup", err)
		return agencies
	}

	byExternalID := make(map[string]domain.Agency, len(stored))
	for _, a := range stored {
		byExternalID[a.ExternalID] = a
	}

	merged := make([]domain.Agency, 0, len(agencies))
	for _, fresh := range agencies {
		if row, ok := byExternalID[fresh.ExternalID]; ok {
			row.Location.DistanceKm = fresh.Location.DistanceKm
			merged = append(merged, row)
			continue
		}
		merged = append(merged, fresh)
	}
	return merged
}

func filterByRating(agencies []domain.Agency, min float64) []domain.Agency {
	out := make([]domain.Agency, 0, len(agencies))
	for _, a := range agencies {
		rating := 0.0
		if a.Rating != nil {
			rating = *a.Rating
		}
		if rating >= min {
			out = append(out, a)
		}
	}
	return out
}

func clampRadius(radius int) int {
	if radius <= 0 {
		return defaultRadiusMeters
	}
	if radius < minRadiusMeters {
		return minRadiusMeters
	}
	if radius > maxRadiusMeters {
		return maxRadiusMeters
	}
	return radius
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func encodeKey(key searchKey) string {
	b, _ := json.Marshal(key)
	return "search:" + string(b)
}
