package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// Save adds an agency to the user's list, ignoring duplicates.
func (r *Repo) Save(ctx context.Context, userID, agencyID uuid.UUID) error {
	query := `
		INSERT INTO saved_agencies (user_id, agency_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, agency_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID, agencyID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperr.NotFound("agency not found")
		}
		return fmt.Errorf("save agency: %w", err)
	}
	return nil
}

// Remove deletes an agency from the user's list.
func (r *Repo) Remove(ctx context.Context, userID, agencyID uuid.UUID) error {
	query := `DELETE FROM saved_agencies WHERE user_id = $1 AND agency_id = $2`

	if _, err := r.pool.Exec(ctx, query, userID, agencyID); err != nil {
		return fmt.Errorf("remove saved agency: %w", err)
	}
	return nil
}

// List returns the user's saved agencies with the fields the list page
// shows, most recently saved first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]SavedAgency, error) {
	query := `
		SELECT s.agency_id, a.name, a.city, a.country, a.rating, a.review_count, s.created_at
		FROM saved_agencies s
		JOIN agencies a ON a.id = s.agency_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved agencies: %w", err)
	}
	defer rows.Close()

	saved := make([]SavedAgency, 0)
	for rows.Next() {
		var s SavedAgency
		if err := rows.Scan(&s.AgencyID, &s.Name, &s.City, &s.Country, &s.Rating, &s.ReviewCount, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scan saved agency: %w", err)
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}
