package repository

import (
	"context"
	"errors"
	"fmt"

	"nowmarketing_backend/internal/places/domain"
	"nowmarketing_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agencyNotFoundMessage = "agency not found"

const agencyColumns = `
	id, external_id, name, rating, review_count,
	city, country, address, lat, lng,
	description, services, tags,
	verified, is_registered, is_pro,
	website, phone, pricing, stats`

// Repo implements the Store interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agencies repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// Ingest inserts the agencies, skipping rows whose external_id already
// exists. The query-relative distance is never written.
func (r *Repo) Ingest(ctx context.Context, agencies []domain.Agency) error {
	if len(agencies) == 0 {
		return nil
	}

	query := `
		INSERT INTO agencies (
			external_id, name, rating, review_count,
			city, country, address, lat, lng,
			description, services, tags,
			verified, is_registered, is_pro,
			website, phone, pricing, stats, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, now())
		ON CONFLICT (external_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, a := range agencies {
		batch.Queue(query,
			a.ExternalID, a.Name, a.Rating, a.ReviewCount,
			a.Location.City, a.Location.Country, a.Location.Address, a.Location.Lat, a.Location.Lng,
			a.Description, a.Services, a.Tags,
			a.Verified, a.IsRegistered, a.IsPro,
			a.Website, a.Phone, a.Pricing, a.Stats,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range agencies {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ingest agencies: %w", err)
		}
	}
	return nil
}

// LookupByExternalIDs retrieves stored rows for the given external ids.
func (r *Repo) LookupByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.Agency, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	query := `SELECT` + agencyColumns + `
		FROM agencies
		WHERE external_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("lookup agencies: %w", err)
	}
	defer rows.Close()

	return scanAgencies(rows)
}

// GetByID retrieves an agency by its primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Agency, error) {
	query := `SELECT` + agencyColumns + `
		FROM agencies
		WHERE id = $1`

	agency, err := scanAgency(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Agency{}, apperr.NotFound(agencyNotFoundMessage)
		}
		return domain.Agency{}, fmt.Errorf("get agency by id: %w", err)
	}
	return agency, nil
}

func scanAgencies(rows pgx.Rows) ([]domain.Agency, error) {
	var agencies []domain.Agency
	for rows.Next() {
		agency, err := scanAgency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agency: %w", err)
		}
		agencies = append(agencies, agency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agencies: %w", err)
	}
	return agencies, nil
}

func scanAgency(row pgx.Row) (domain.Agency, error) {
	var a domain.Agency
	var id uuid.UUID

	err := row.Scan(
		&id, &a.ExternalID, &a.Name, &a.Rating, &a.ReviewCount,
		&a.Location.City, &a.Location.Country, &a.Location.Address, &a.Location.Lat, &a.Location.Lng,
		&a.Description, &a.Services, &a.Tags,
		&a.Verified, &a.IsRegistered, &a.IsPro,
		&a.Website, &a.Phone, &a.Pricing, &a.Stats,
	)
	if err != nil {
		return domain.Agency{}, err
	}

	a.ID = id.String()
	return a, nil
}
