// Package handler exposes the saved list HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nowmarketing_backend/internal/saved/service"
	"nowmarketing_backend/internal/saved/transport"
	"nowmarketing_backend/platform/httpkit"
)

// Handler handles HTTP requests for saved lists. All routes require
// authentication.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Save handles POST /api/v1/saved.
func (h *Handler) Save(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req transport.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Save(c.Request.Context(), userID, req)) {
		return
	}
	httpkit.Created(c, gin.H{"saved": true})
}

// List handles GET /api/v1/saved.
func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Remove handles DELETE /api/v1/saved/:agencyId.
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	agencyID, err := uuid.Parse(c.Param("agencyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid agency ID", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Remove(c.Request.Context(), userID, agencyID)) {
		return
	}
	httpkit.OK(c, gin.H{"removed": true})
}
