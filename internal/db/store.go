package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/messaging"
	"github.com/sudo-init-do/propnest/internal/user"
)

// Store bundles the repositories of the configured driver.
type Store struct {
	Driver   string
	Listings listing.Repository
	Messages messaging.Repository
	Users    user.Repository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Open connects to the store selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return NewMemoryStore(), nil

	case config.DriverMongo:
		client, err := OpenMongo(ctx, cfg.MongoURI, log)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Driver:   cfg.DBDriver,
			Listings: NewMongoListings(database),
			Messages: NewMongoMessages(database),
			Users:    NewMongoUsers(database),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    client.Disconnect,
		}, nil

	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   cfg.DBDriver,
			Listings: NewPostgresListings(pool),
			Messages: NewPostgresMessages(pool),
			Users:    NewPostgresUsers(pool),
			ping:     pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
