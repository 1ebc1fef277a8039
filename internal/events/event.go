// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/google/uuid"

	"nowmarketing_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Reviews Domain Events
// =============================================================================

// ReviewCreated is published when a consumer posts a review for an agency.
// The reviews module subscribes to keep the agency rating aggregate current.
type ReviewCreated struct {
	BaseEvent
	ReviewID uuid.UUID `json:"reviewId"`
	AgencyID uuid.UUID `json:"agencyId"`
	UserID   uuid.UUID `json:"userId"`
	Rating   int       `json:"rating"`
}

func (e ReviewCreated) EventName() string { return "reviews.review.created" }

// =============================================================================
// Bookings Domain Events
// =============================================================================

// BookingCreated is published when a consumer books a consultation with an
// agency. Subscribers send the confirmation email and schedule the reminder.
type BookingCreated struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	AgencyID  uuid.UUID `json:"agencyId"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	StartsAt  time.Time `json:"startsAt"`
}

func (e BookingCreated) EventName() string { return "bookings.booking.created" }
