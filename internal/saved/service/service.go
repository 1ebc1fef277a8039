// Package service implements saved agency list operations.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nowmarketing_backend/internal/saved/repository"
	"nowmarketing_backend/internal/saved/transport"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/validator"
)

// Service handles saved list business logic.
type Service struct {
	repo repository.Repository
	val  *validator.Validator
}

func New(repo repository.Repository, val *validator.Validator) *Service {
	return &Service{repo: repo, val: val}
}

// Save adds an agency to the user's list. Saving an already saved agency
// succeeds without change.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req transport.SaveRequest) error {
	if err := s.val.Struct(req); err != nil {
		return apperr.Validation("agency_id must be a valid agency identifier")
	}
	agencyID, err := uuid.Parse(req.AgencyID)
	if err != nil {
		return apperr.Validation("agency_id must be a valid agency identifier")
	}
	return s.repo.Save(ctx, userID, agencyID)
}

// Remove deletes an agency from the user's list.
func (s *Service) Remove(ctx context.Context, userID, agencyID uuid.UUID) error {
	return s.repo.Remove(ctx, userID, agencyID)
}

// List returns the user's saved agencies.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (transport.ListResponse, error) {
	saved, err := s.repo.List(ctx, userID)
	if err != nil {
		return transport.ListResponse{}, err
	}

	out := make([]transport.SavedAgency, 0, len(saved))
	for _, entry := range saved {
		out = append(out, transport.SavedAgency{
			AgencyID:    entry.AgencyID.String(),
			Name:        entry.Name,
			City:        entry.City,
			Country:     entry.Country,
			Rating:      entry.Rating,
			ReviewCount: entry.ReviewCount,
			SavedAt:     entry.SavedAt.Format(time.RFC3339),
		})
	}
	return transport.ListResponse{Data: out}, nil
}
