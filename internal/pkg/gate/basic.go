package gate

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

// Basic challenges for the configured user/password pair with HTTP Basic auth.
func Basic(cfg config.GateConfig) fiber.Handler {
	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return basicauth.New(basicauth.Config{
		Next:  skip,
		Realm: realm,
		Users: map[string]string{
			cfg.Username: cfg.Password,
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, challenge)
			return c.Status(fiber.StatusUnauthorized).SendString("Authentication required")
		},
	})
}
