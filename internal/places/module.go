// Package places provides the place discovery bounded context: searching
// OpenStreetMap for marketing businesses and resolving individual agencies.
package places

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "nowmarketing_backend/internal/http"
	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/internal/places/handler"
	"nowmarketing_backend/internal/places/nominatim"
	"nowmarketing_backend/internal/places/overpass"
	"nowmarketing_backend/internal/places/repository"
	"nowmarketing_backend/internal/places/service"
	"nowmarketing_backend/platform/cache"
	"nowmarketing_backend/platform/config"
	"nowmarketing_backend/platform/logger"
)

// Module is the places bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the discovery pipeline. pool may be nil, in which case
// search and detail run compute-only and skip persistence. reviews may be
// nil when the reviews module is not mounted.
func NewModule(pool *pgxpool.Pool, cfg config.PlacesConfig, reviews handler.ReviewsProvider, log *logger.Logger) *Module {
	defaultCenter := domain.LocationHint{
		Lat:     cfg.GetDefaultCenterLat(),
		Lng:     cfg.GetDefaultCenterLng(),
		City:    cfg.GetDefaultCenterCity(),
		Country: cfg.GetDefaultCenterCountry(),
	}

	geoCache := cache.New(cfg.GetPlacesCacheTTL())
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.GetNominatimURL(), cfg.GetPlacesUserAgent(), defaultCenter, log),
		geoCache,
	)

	features := overpass.NewClient(cfg.GetOverpassURL(), cfg.GetPlacesUserAgent(), log)

	var store repository.Store
	if pool != nil {
		store = repository.New(pool)
	}

	resultCache := cache.New(cfg.GetPlacesCacheTTL())
	svc := service.New(geocoder, features, store, resultCache, log)
	h := handler.New(svc, reviews)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "places"
}

// Service returns the service layer for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public search and detail routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/places")
	group.GET("/search", m.handler.Search)
	group.POST("/search", m.handler.Search)
	group.GET("/:id", m.handler.Detail)
}

var _ apphttp.Module = (*Module)(nil)
