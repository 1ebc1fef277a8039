// Package repository persists reviews and maintains the agency rating
// aggregate.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review is the persistence model for a consumer review.
type Review struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Aggregate is the rating summary stored on the agency row.
type Aggregate struct {
	Average     *float64
	ReviewCount int
}

// Repository is the persistence contract for reviews.
type Repository interface {
	// Create inserts a review. A user can review an agency once; a second
	// insert fails with a conflict.
	Create(ctx context.Context, review Review) (Review, error)
	// ListByAgency returns an agency's reviews, newest first.
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]Review, error)
	// GetAggregate returns the stored rating summary for an agency.
	GetAggregate(ctx context.Context, agencyID uuid.UUID) (Aggregate, error)
	// RefreshAgencyRating recomputes the agency's rating and review count
	// from its reviews and writes them to the agency row.
	RefreshAgencyRating(ctx context.Context, agencyID uuid.UUID) error
}
