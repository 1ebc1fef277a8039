// Package reviews provides the consumer reviews bounded context.
package reviews

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nowmarketing_backend/internal/events"
	apphttp "nowmarketing_backend/internal/http"
	"nowmarketing_backend/internal/reviews/handler"
	"nowmarketing_backend/internal/reviews/repository"
	"nowmarketing_backend/internal/reviews/service"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

// Module is the reviews bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, val, log)
	h := handler.New(svc)
	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "reviews"
}

// Service returns the service layer for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts review routes. Reading is public, writing requires
// authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/agencies/:id/reviews", m.handler.List)
	ctx.Protected.POST("/agencies/:id/reviews", m.handler.Create)
}

// RegisterHandlers subscribes to domain events to maintain the agency
// rating aggregate.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ReviewCreated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ReviewCreated:
		return m.service.HandleReviewCreated(ctx, e)
	default:
		return nil
	}
}

var _ apphttp.Module = (*Module)(nil)
