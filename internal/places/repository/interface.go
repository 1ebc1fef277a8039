// Package repository persists canonical agency records discovered by the
// aggregation pipeline.
package repository

import (
	"context"

	"nowmarketing_backend/internal/places/domain"

	"github.com/google/uuid"
)

// Store is the persistence contract the orchestrators compose. Ingest and
// Lookup are deliberately independent operations so persistence failures stay
// visible and separately testable.
type Store interface {
	// Ingest upserts agency rows keyed by external_id, ignoring conflicts so
	// a previously enriched row is never overwritten.
	Ingest(ctx context.Context, agencies []domain.Agency) error
	// LookupByExternalIDs returns the stored rows for the given external ids.
	// Missing ids are simply absent from the result.
	LookupByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.Agency, error)
	// GetByID returns the row with the given primary key.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Agency, error)
}
