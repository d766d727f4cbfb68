package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/db"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/messaging"
	"github.com/sudo-init-do/propnest/internal/server"
	"github.com/sudo-init-do/propnest/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := logging.Options{Level: logging.ParseLevel(cfg.Log.Level), JSON: cfg.Log.JSON}
	var closeFluent func() error
	if cfg.Log.FluentEnabled {
		fc, err := logging.NewFluentClient(cfg.Log.FluentHost, cfg.Log.FluentPort)
		if err != nil {
			log.Printf("fluent bit disabled: %v", err)
		} else {
			opts.Extra = append(opts.Extra, logging.NewFluentHandler(fc, cfg.AppName, logging.ParseLevel(cfg.Log.FluentMinLevel)))
			closeFluent = fc.Close
		}
	}
	logger := logging.New(opts).With("service", cfg.AppName)
	slog.SetDefault(logger)

	ctx := context.Background()
	store, err := db.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("store unavailable", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	images, err := upload.NewDiskStore(cfg.UploadDir, cfg.MaxUploadMB<<20)
	if err != nil {
		logger.Error("upload dir unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	hub := messaging.NewHub()
	listings := listing.NewService(store.Listings, store.Users, images)
	e := server.New(server.Deps{
		Config:   cfg,
		Log:      logger,
		Store:    store,
		Users:    store.Users,
		Listings: listings,
		Messages: messaging.NewService(store.Messages, listings, hub),
		Hub:      hub,
		Tokens:   auth.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour),
	})

	go func() {
		logger.Info("http server listening", "port", cfg.Port, "driver", store.Driver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store close", "error", err)
	}
	if closeFluent != nil {
		_ = closeFluent()
	}
	logger.Info("server exited")
}
