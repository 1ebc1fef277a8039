// Package handler exposes the bookings HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nowmarketing_backend/internal/bookings/service"
	"nowmarketing_backend/internal/bookings/transport"
	"nowmarketing_backend/platform/httpkit"
)

// Handler handles HTTP requests for bookings. All routes require
// authentication.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /api/v1/bookings.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req transport.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	booking, err := h.svc.Create(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, booking)
}

// List handles GET /api/v1/bookings.
func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	result, err := h.svc.ListByUser(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Cancel handles DELETE /api/v1/bookings/:id.
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid booking ID", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Cancel(c.Request.Context(), userID, bookingID)) {
		return
	}
	httpkit.OK(c, gin.H{"cancelled": true})
}
