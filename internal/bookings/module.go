// Package bookings provides the consultation booking bounded context.
package bookings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nowmarketing_backend/internal/bookings/handler"
	"nowmarketing_backend/internal/bookings/repository"
	"nowmarketing_backend/internal/bookings/service"
	"nowmarketing_backend/internal/email"
	"nowmarketing_backend/internal/events"
	apphttp "nowmarketing_backend/internal/http"
	"nowmarketing_backend/internal/scheduler"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

// Module is the bookings bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the bookings module. reminderScheduler may be nil when
// Redis is not configured; reminders are then skipped.
func NewModule(pool *pgxpool.Pool, bus events.Bus, sender email.Sender, reminderScheduler scheduler.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, sender, reminderScheduler, val, log)
	return &Module{handler: handler.New(svc), service: svc}
}

func (m *Module) Name() string {
	return "bookings"
}

// Service returns the service layer for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the booking routes, all authenticated.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/bookings")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.DELETE("/:id", m.handler.Cancel)
}

// RegisterHandlers subscribes to domain events for booking side effects.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BookingCreated:
		return m.service.HandleBookingCreated(ctx, e)
	default:
		return nil
	}
}

var _ apphttp.Module = (*Module)(nil)
