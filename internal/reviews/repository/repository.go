package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"nowmarketing_backend/platform/apperr"
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

// Create inserts a review. The (agency_id, user_id) unique constraint
// enforces one review per user per agency.
func (r *Repo) Create(ctx context.Context, review Review) (Review, error) {
	query := `
		INSERT INTO reviews (agency_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, review.AgencyID, review.UserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return Review{}, apperr.Conflict("you have already reviewed this agency")
			case "23503": // foreign key: agency does not exist
				return Review{}, apperr.NotFound("agency not found")
			}
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// ListByAgency returns an agency's reviews, newest first.
func (r *Repo) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]Review, error) {
	query := `
		SELECT id, agency_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE agency_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.AgencyID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// GetAggregate returns the stored rating summary for an agency.
func (r *Repo) GetAggregate(ctx context.Context, agencyID uuid.UUID) (Aggregate, error) {
	query := `SELECT rating, review_count FROM agencies WHERE id = $1`

	var agg Aggregate
	err := r.pool.QueryRow(ctx, query, agencyID).Scan(&agg.Average, &agg.ReviewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Aggregate{}, apperr.NotFound("agency not found")
		}
		return Aggregate{}, fmt.Errorf("get rating aggregate: %w", err)
	}
	return agg, nil
}

// RefreshAgencyRating recomputes the rating aggregate from the reviews
// table. The average is rounded to one decimal, matching what the search
// results display.
func (r *Repo) RefreshAgencyRating(ctx context.Context, agencyID uuid.UUID) error {
	query := `
		UPDATE agencies SET
			rating = sub.avg_rating,
			review_count = sub.cnt,
			updated_at = now()
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating, COUNT(*) AS cnt
			FROM reviews
			WHERE agency_id = $1
		) sub
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, agencyID); err != nil {
		return fmt.Errorf("refresh agency rating: %w", err)
	}
	return nil
}
