package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sudo-init-do/propnest/internal/apperr"
	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/logging"
	"github.com/sudo-init-do/propnest/internal/messaging"
	mware "github.com/sudo-init-do/propnest/internal/middleware"
	"github.com/sudo-init-do/propnest/internal/user"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router hands out to handlers.
type Deps struct {
	Config   *config.Config
	Log      *slog.Logger
	Store    Pinger
	Users    user.Repository
	Listings *listing.Service
	Messages *messaging.Service
	Hub      *messaging.Hub
	Tokens   *auth.Tokens
}

// New builds the API router.
func New(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(d.Log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// every image at the per-file cap plus room for the text fields
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB*listing.MaxImages+1)))

	e.Static("/uploads", cfg.UploadDir)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": cfg.AppName})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := d.Store.Ping(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("store unreachable", "error", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "store unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	authH := auth.NewHandler(d.Users, d.Tokens)
	listingH := &listing.Handler{Svc: d.Listings}
	messageH := &messaging.Handler{Svc: d.Messages, Hub: d.Hub}
	userH := &user.Handler{Repo: d.Users}

	jwt := mware.JWT(d.Tokens)
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.AuthRateLimit)))

	// Public routes
	e.POST("/signup", authH.Signup, limiter)
	e.POST("/login", authH.Login, limiter)
	e.GET("/properties", listingH.ListProperties)
	e.GET("/properties/:id", listingH.GetProperty)
	e.GET("/users/:id/profile", userH.GetPublicProfile)

	// Protected routes
	e.GET("/me", authH.Me, jwt)
	e.POST("/properties/add", listingH.CreateProperty, jwt, mware.RequireRoles(string(user.RoleOwner)))
	e.POST("/messages", messageH.SendMessage, jwt)
	e.GET("/messages", messageH.ListMessages, jwt)
	e.PATCH("/messages/:id/read", messageH.MarkMessageRead, jwt)
	e.GET("/messages/ws", messageH.Feed, jwt)

	return e
}
