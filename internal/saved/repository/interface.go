// Package repository persists each user's saved agency list.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SavedAgency is one entry in a user's saved list, joined with the agency
// fields the list page shows.
type SavedAgency struct {
	AgencyID    uuid.UUID
	Name        string
	City        string
	Country     string
	Rating      *float64
	ReviewCount int
	SavedAt     time.Time
}

// Repository is the persistence contract for saved lists.
type Repository interface {
	// Save adds an agency to the user's list. Saving twice is a no-op.
	Save(ctx context.Context, userID, agencyID uuid.UUID) error
	// Remove deletes an agency from the user's list. Removing an absent
	// entry is a no-op.
	Remove(ctx context.Context, userID, agencyID uuid.UUID) error
	// List returns the user's saved agencies, most recently saved first.
	List(ctx context.Context, userID uuid.UUID) ([]SavedAgency, error)
}
