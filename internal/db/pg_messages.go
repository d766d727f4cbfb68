package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/propnest/internal/messaging"
)

// PostgresMessages stores enquiries as JSONB documents in the messages table.
type PostgresMessages struct {
	pool *pgxpool.Pool
}

func NewPostgresMessages(pool *pgxpool.Pool) *PostgresMessages {
	return &PostgresMessages{pool: pool}
}

func (r *PostgresMessages) Insert(ctx context.Context, e *messaging.Enquiry) error {
	stored := *e
	stored.ID = uuid.New().String()
	doc, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO messages (id, owner_id, doc, created_at) VALUES ($1, $2, $3, $4)`,
		stored.ID, stored.OwnerID, doc, stored.Date,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	e.ID = stored.ID
	return nil
}

func (r *PostgresMessages) ListByOwner(ctx context.Context, ownerID string) ([]messaging.Enquiry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM messages WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	out := make([]messaging.Enquiry, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		var e messaging.Enquiry
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func (r *PostgresMessages) FindByID(ctx context.Context, id string) (*messaging.Enquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, messaging.ErrNotFound
	}
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM messages WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, messaging.ErrNotFound
		}
		return nil, fmt.Errorf("query message: %w", err)
	}
	var e messaging.Enquiry
	if err := json.Unmarshal(doc, &e); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &e, nil
}

func (r *PostgresMessages) SetStatus(ctx context.Context, id string, status messaging.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return messaging.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE messages SET doc = jsonb_set(doc, '{status}', to_jsonb($2::text)) WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return messaging.ErrNotFound
	}
	return nil
}
