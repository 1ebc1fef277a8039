// Package repository persists consultation bookings.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is the persistence model for a consultation booking.
type Booking struct {
	ID         uuid.UUID
	AgencyID   uuid.UUID
	UserID     uuid.UUID
	AgencyName string
	Email      string
	Notes      string
	Status     string
	StartsAt   time.Time
	CreatedAt  time.Time
}

// Repository is the persistence contract for bookings.
type Repository interface {
	// Create inserts a booking with status confirmed.
	Create(ctx context.Context, booking Booking) (Booking, error)
	// ListByUser returns the user's bookings, soonest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	// GetByID returns a booking with its agency name.
	GetByID(ctx context.Context, id uuid.UUID) (Booking, error)
	// Cancel marks the user's booking cancelled.
	Cancel(ctx context.Context, userID, id uuid.UUID) error
}
