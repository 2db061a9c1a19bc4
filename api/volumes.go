// Package handler holds the Vercel serverless entry points. Volumes serves the
// /api routes and Index serves the dashboard document; both run the same fiber
// app, so the access gate and the CORS contract are the server's.
package handler

import (
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/env"
	"github.com/sportsvolume/dashboard/internal/pkg/server"
	"github.com/sportsvolume/dashboard/internal/pkg/volumes"
)

var (
	once    sync.Once
	handler http.Handler
)

func shared() http.Handler {
	once.Do(func() { handler = build() })
	return handler
}

func build() http.Handler {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return failing(err)
	}
	// the platform publishes no static files; the document comes from the binary
	cfg.PublicDir = ""
	cfg.OpenAPIFile = ""

	app, err := server.NewApplication(cfg)
	if err != nil {
		return failing(err)
	}
	return adaptor.FiberApp(app)
}

// failing answers every request with the configuration error. Preflight and CORS
// headers still follow the API contract.
func failing(err error) http.Handler {
	app := fiber.New()
	app.Use(volumes.CORS, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server configuration error: " + err.Error()})
	})
	return adaptor.FiberApp(app)
}

// Handler is the entry point for Vercel's Go runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	shared().ServeHTTP(w, r)
}
