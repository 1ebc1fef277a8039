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

const bookingNotFoundMessage = "booking not found"

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a booking with status confirmed.
func (r *Repo) Create(ctx context.Context, booking Booking) (Booking, error) {
	query := `
		INSERT INTO bookings (agency_id, user_id, email, notes, status, starts_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	booking.Status = StatusConfirmed
	err := r.pool.QueryRow(ctx, query,
		booking.AgencyID, booking.UserID, booking.Email, booking.Notes, booking.Status, booking.StartsAt,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Booking{}, apperr.NotFound("agency not found")
		}
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// ListByUser returns the user's bookings with agency names, soonest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	query := `
		SELECT b.id, b.agency_id, b.user_id, a.name, b.email, b.notes, b.status, b.starts_at, b.created_at
		FROM bookings b
		JOIN agencies a ON a.id = b.agency_id
		WHERE b.user_id = $1
		ORDER BY b.starts_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]Booking, 0)
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.AgencyID, &b.UserID, &b.AgencyName, &b.Email, &b.Notes, &b.Status, &b.StartsAt, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetByID returns a booking with its agency name.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	query := `
		SELECT b.id, b.agency_id, b.user_id, a.name, b.email, b.notes, b.status, b.starts_at, b.created_at
		FROM bookings b
		JOIN agencies a ON a.id = b.agency_id
		WHERE b.id = $1`

	var b Booking
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.AgencyID, &b.UserID, &b.AgencyName, &b.Email, &b.Notes, &b.Status, &b.StartsAt, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// Cancel marks the user's booking cancelled. Cancelling someone else's
// booking reports not found rather than forbidden.
func (r *Repo) Cancel(ctx context.Context, userID, id uuid.UUID) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2 AND user_id = $3`

	tag, err := r.pool.Exec(ctx, query, StatusCancelled, id, userID)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}
