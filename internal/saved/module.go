// Package saved provides the saved agency list bounded context.
package saved

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "nowmarketing_backend/internal/http"
	"nowmarketing_backend/internal/saved/handler"
	"nowmarketing_backend/internal/saved/repository"
	"nowmarketing_backend/internal/saved/service"
	"nowmarketing_backend/platform/validator"
)

// Module is the saved list bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string {
	return "saved"
}

// RegisterRoutes mounts the saved list routes, all authenticated.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/saved")
	group.POST("", m.handler.Save)
	group.GET("", m.handler.List)
	group.DELETE("/:agencyId", m.handler.Remove)
}

var _ apphttp.Module = (*Module)(nil)
