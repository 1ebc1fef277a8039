package nominatim

import (
	"context"
	"fmt"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/platform/cache"
)

// Geocoder is the contract the caching decorator wraps. *Client satisfies it.
type Geocoder interface {
	Forward(ctx context.Context, query string) (domain.LocationHint, error)
	Reverse(ctx context.Context, lat, lng float64) (domain.Locality, error)
	DefaultCenter() domain.LocationHint
}

// CachedGeocoder memoizes geocoding results in a TTL cache so identical
// queries within the TTL window issue no network call. Fallback results
// (default center, empty locality hits) are not cached, so transient
// failures can be retried.
type CachedGeocoder struct {
	inner Geocoder
	cache *cache.Cache
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner Geocoder, c *cache.Cache) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: c}
}

// DefaultCenter returns the wrapped geocoder's fallback center.
func (g *CachedGeocoder) DefaultCenter() domain.LocationHint {
	return g.inner.DefaultCenter()
}

// Forward resolves a place name, consulting the cache first. An empty query
// short-circuits to the default center with no cache interaction.
func (g *CachedGeocoder) Forward(ctx context.Context, query string) (domain.LocationHint, error) {
	if query == "" {
		return g.inner.DefaultCenter(), nil
	}

	key := "geocode:" + query
	if cached, ok := g.cache.Get(key); ok {
		return cached.(domain.LocationHint), nil
	}

	hint, err := g.inner.Forward(ctx, query)
	if err != nil {
		return hint, err
	}
	if hint != g.inner.DefaultCenter() {
		g.cache.Set(key, hint)
	}
	return hint, nil
}

// Reverse resolves a coordinate, consulting the cache first.
func (g *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (domain.Locality, error) {
	key := fmt.Sprintf("reverse:%v:%v", lat, lng)
	if cached, ok := g.cache.Get(key); ok {
		return cached.(domain.Locality), nil
	}

	locality, err := g.inner.Reverse(ctx, lat, lng)
	if err != nil {
		return locality, err
	}
	g.cache.Set(key, locality)
	return locality, nil
}

var _ Geocoder = (*CachedGeocoder)(nil)
var _ Geocoder = (*Client)(nil)
