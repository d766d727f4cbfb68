package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPostgres connects to Postgres, pings it and ensures the document tables exist.
func OpenPostgres(ctx context.Context, dsn string, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("connected to postgres")

	for _, ensure := range []func(context.Context, *pgxpool.Pool) error{
		ensureUsersTable,
		ensurePropertiesTable,
		ensureMessagesTable,
	} {
		if err := ensure(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return pool, nil
}

// ensureUsersTable creates users if it doesn't exist
func ensureUsersTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('owner','buyer')),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// ensurePropertiesTable creates properties if it doesn't exist.
// Listings are stored whole in doc; seq keeps insertion order.
func ensurePropertiesTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS properties (
            id UUID PRIMARY KEY,
            seq BIGSERIAL,
            owner_id TEXT,
            doc JSONB NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_properties_seq ON properties(seq);
        CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_id);
    `)
	if err != nil {
		return fmt.Errorf("create properties table: %w", err)
	}
	return nil
}

// ensureMessagesTable creates messages if it doesn't exist
func ensureMessagesTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            owner_id TEXT,
            doc JSONB NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_messages_owner_created ON messages(owner_id, created_at DESC);
    `)
	if err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}
