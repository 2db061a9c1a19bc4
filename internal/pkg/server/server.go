// Package server assembles the fiber application shared by the long-running
// server and the serverless entry point.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/openapi"
	"github.com/sportsvolume/dashboard/internal/pkg/router"
	"github.com/sportsvolume/dashboard/internal/pkg/rowstore"
)

// NewApplication builds the app for cfg. An unconfigured upstream is not fatal:
// the volumes endpoint reports it per request.
func NewApplication(cfg *config.Config) (*fiber.App, error) {
	store, err := rowstore.New(cfg.Store)
	if err != nil {
		if !errors.Is(err, rowstore.ErrNotConfigured) {
			return nil, err
		}
		log.Warnf("[server] %v; /api/volumes will answer 500", err)
	}
	return NewApplicationWithStore(cfg, store)
}

// NewApplicationWithStore builds the app around an existing store (nil means unconfigured).
func NewApplicationWithStore(cfg *config.Config, store rowstore.RowStore) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "sports-volume-dashboard",
		DisableStartupMessage: cfg.Production,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if cfg.MetricsUser != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.MetricsUser: cfg.MetricsPassword,
			},
		}), monitor.New())
	}

	// SWAGGER / OPENAPI
	openapi.Mount(app, cfg.OpenAPIFile)

	// ROUTER
	if err := router.InstallRouter(app, router.NewHttpRouter(cfg), router.NewApiRouter(cfg, store)); err != nil {
		return nil, err
	}

	return app, nil
}
