// Package handler exposes the reviews HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nowmarketing_backend/internal/reviews/service"
	"nowmarketing_backend/internal/reviews/transport"
	"nowmarketing_backend/platform/httpkit"
)

const msgInvalidAgencyID = "invalid agency ID"

// Handler handles HTTP requests for reviews.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/agencies/:id/reviews (authenticated).
func (h *Handler) Create(c *gin.Context) {
	agencyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req transport.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	review, err := h.svc.Create(c.Request.Context(), agencyID, userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, review)
}

// List handles GET /api/v1/agencies/:id/reviews (public).
func (h *Handler) List(c *gin.Context) {
	agencyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgencyID, nil)
		return
	}

	result, err := h.svc.ListByAgency(c.Request.Context(), agencyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
