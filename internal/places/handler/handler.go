// Package handler exposes the places HTTP endpoints.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"nowmarketing_backend/internal/places/service"
	"nowmarketing_backend/internal/places/transport"
	"nowmarketing_backend/platform/httpkit"
)

// ReviewsProvider loads the reviews shown on an agency detail page. It is
// injected by the composition root so this package stays decoupled from the
// reviews bounded context.
type ReviewsProvider interface {
	ListForAgency(ctx context.Context, agencyID string) (interface{}, error)
}

// Handler serves the search and detail endpoints.
type Handler struct {
	svc     *service.Service
	reviews ReviewsProvider
}

func New(svc *service.Service, reviews ReviewsProvider) *Handler {
	return &Handler{svc: svc, reviews: reviews}
}

// Search handles GET and POST /api/v1/places/search. GET reads query
// parameters, POST reads a JSON body with the same fields.
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid search parameters", nil)
		return
	}

	resp, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Detail handles GET /api/v1/places/:id. The id is either a stored agency
// id or an external reference like osm:node/123. With include=reviews the
// agency and its reviews are loaded concurrently.
func (h *Handler) Detail(c *gin.Context) {
	id := c.Param("id")
	includeReviews := c.Query("include") == "reviews" && h.reviews != nil

	resp := transport.DetailResponse{}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		agency, err := h.svc.Detail(ctx, id)
		if err != nil {
			return err
		}
		resp.Data = agency
		return nil
	})
	if includeReviews {
		g.Go(func() error {
			reviews, err := h.reviews.ListForAgency(ctx, id)
			if err != nil {
				// Reviews are decorative on this page; the agency itself
				// decides success or failure.
				return nil
			}
			resp.Reviews = reviews
			return nil
		})
	}
	if httpkit.HandleError(c, g.Wait()) {
		return
	}
	httpkit.OK(c, resp)
}
