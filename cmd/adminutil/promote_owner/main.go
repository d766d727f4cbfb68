package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/db"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/user"
)

func main() {
	email := flag.String("email", "", "Email of the user to promote to owner")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/promote_owner -email user@example.com")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := db.Open(ctx, cfg, logging.New(logging.Options{Level: logging.ParseLevel(cfg.Log.Level)}))
	if err != nil {
		cancel()
		log.Fatalf("open store: %v", err)
	}

	err = promote(ctx, store.Users, store.Close, *email)
	cancel()
	if err != nil {
		log.Printf("failed to promote user to owner: %v", err)
		os.Exit(1)
	}

	fmt.Printf("User %s promoted to owner.\n", *email)
}

// promote sets the owner role and always closes the store, whatever the outcome.
func promote(ctx context.Context, users user.Repository, closeStore func(context.Context) error, email string) error {
	promoteErr := auth.Promote(ctx, users, email, user.RoleOwner)
	if err := closeStore(ctx); err != nil {
		log.Printf("close store: %v", err)
	}
	return promoteErr
}
