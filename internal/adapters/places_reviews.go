// Package adapters contains anti-corruption adapters for cross-module
// communication, so each bounded context depends only on its own interfaces.
package adapters

import (
	"context"

	"github.com/google/uuid"

	placeshandler "nowmarketing_backend/internal/places/handler"
	reviewsservice "nowmarketing_backend/internal/reviews/service"
)

// PlacesReviewsAdapter lets the places detail endpoint include an agency's
// reviews without importing the reviews bounded context.
type PlacesReviewsAdapter struct {
	reviews *reviewsservice.Service
}

func NewPlacesReviewsAdapter(reviews *reviewsservice.Service) *PlacesReviewsAdapter {
	return &PlacesReviewsAdapter{reviews: reviews}
}

// ListForAgency loads reviews for a stored agency. External references that
// have never been persisted have no reviews, so a non-UUID id yields nil.
func (a *PlacesReviewsAdapter) ListForAgency(ctx context.Context, agencyID string) (interface{}, error) {
	id, err := uuid.Parse(agencyID)
	if err != nil {
		return nil, nil
	}
	resp, err := a.reviews.ListByAgency(ctx, id)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

var _ placeshandler.ReviewsProvider = (*PlacesReviewsAdapter)(nil)
