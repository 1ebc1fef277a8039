// Package service implements review creation and the rating aggregate.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nowmarketing_backend/internal/events"
	"nowmarketing_backend/internal/reviews/repository"
	"nowmarketing_backend/internal/reviews/transport"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

// Service handles review business logic.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	val  *validator.Validator
	log  *logger.Logger
}

func New(repo repository.Repository, bus events.Bus, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, val: val, log: log}
}

// Create stores a review and publishes ReviewCreated so the agency's rating
// aggregate gets refreshed.
func (s *Service) Create(ctx context.Context, agencyID, userID uuid.UUID, req transport.CreateReviewRequest) (transport.Review, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.Review{}, apperr.Validation("rating must be between 1 and 5")
	}

	review, err := s.repo.Create(ctx, repository.Review{
		AgencyID: agencyID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return transport.Review{}, err
	}

	s.bus.Publish(ctx, events.ReviewCreated{
		BaseEvent: events.NewBaseEvent(),
		ReviewID:  review.ID,
		AgencyID:  review.AgencyID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	})

	return toTransport(review), nil
}

// ListByAgency returns an agency's reviews with its stored aggregate.
func (s *Service) ListByAgency(ctx context.Context, agencyID uuid.UUID) (transport.ListReviewsResponse, error) {
	reviews, err := s.repo.ListByAgency(ctx, agencyID)
	if err != nil {
		return transport.ListReviewsResponse{}, err
	}

	agg, err := s.repo.GetAggregate(ctx, agencyID)
	if err != nil {
		return transport.ListReviewsResponse{}, err
	}

	out := make([]transport.Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toTransport(r))
	}
	return transport.ListReviewsResponse{
		Data:        out,
		Average:     agg.Average,
		ReviewCount: agg.ReviewCount,
	}, nil
}

// HandleReviewCreated refreshes the agency's rating aggregate.
func (s *Service) HandleReviewCreated(ctx context.Context, e events.ReviewCreated) error {
	if err := s.repo.RefreshAgencyRating(ctx, e.AgencyID); err != nil {
		s.log.DatabaseError("refresh agency rating", err)
		return err
	}
	return nil
}

func toTransport(r repository.Review) transport.Review {
	return transport.Review{
		ID:        r.ID.String(),
		AgencyID:  r.AgencyID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
