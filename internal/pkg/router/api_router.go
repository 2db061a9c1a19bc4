package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/rowstore"
	"github.com/sportsvolume/dashboard/internal/pkg/volumes"
)

type ApiRouter struct {
	cfg   *config.Config
	store rowstore.RowStore
}

func (h ApiRouter) InstallRouter(app *fiber.App) error {
	// CORS first so rate-limited and failed responses carry the headers too.
	handlers := []fiber.Handler{volumes.CORS}
	if h.cfg.LimiterMax > 0 {
		handlers = append(handlers, newLimiter(h.cfg))
	}
	api := app.Group("/api", handlers...)

	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":           "ok",
			"store_configured": h.store != nil,
		})
	})

	volumeHandler := volumes.NewHandler(h.store, h.cfg.Store.Timeout)
	api.Get("/volumes", volumeHandler.GetVolumes)
	return nil
}

func newLimiter(cfg *config.Config) fiber.Handler {
	limiterCfg := limiter.Config{
		Max:        cfg.LimiterMax,
		Expiration: cfg.LimiterExpiration,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	}
	if limiterCfg.Expiration <= 0 {
		limiterCfg.Expiration = time.Minute
	}
	if cfg.Cache.Enabled() {
		// shared counters across instances; database 1 keeps them apart from the cron lock
		limiterCfg.Storage = redis.New(redis.Config{
			Host:     cfg.Cache.Host,
			Port:     cfg.Cache.Port,
			Password: cfg.Cache.Password,
			Database: 1,
			Reset:    false,
		})
	}
	return limiter.New(limiterCfg)
}

// NewApiRouter takes a nil store when the upstream is not configured; the
// volumes endpoint then answers with a configuration error.
func NewApiRouter(cfg *config.Config, store rowstore.RowStore) *ApiRouter {
	return &ApiRouter{cfg: cfg, store: store}
}
