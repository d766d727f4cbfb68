package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/propnest/internal/listing"
)

// PostgresListings stores listings as JSONB documents in the properties table.
type PostgresListings struct {
	pool *pgxpool.Pool
}

func NewPostgresListings(pool *pgxpool.Pool) *PostgresListings {
	return &PostgresListings{pool: pool}
}

func (r *PostgresListings) Insert(ctx context.Context, l *listing.Listing) error {
	stored := *l
	stored.ID = uuid.New().String()
	doc, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO properties (id, owner_id, doc, created_at) VALUES ($1, $2, $3, $4)`,
		stored.ID, stored.OwnerID, doc, stored.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = stored.ID
	return nil
}

func (r *PostgresListings) List(ctx context.Context) ([]listing.Listing, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc FROM properties ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	out := make([]listing.Listing, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		var l listing.Listing
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

func (r *PostgresListings) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, listing.ErrNotFound
	}
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM properties WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, fmt.Errorf("query listing: %w", err)
	}
	var l listing.Listing
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &l, nil
}
