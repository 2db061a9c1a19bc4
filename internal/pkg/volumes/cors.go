package volumes

import "github.com/gofiber/fiber/v2"

const (
	allowOrigin  = "*"
	allowMethods = "GET, OPTIONS"
	allowHeaders = "Content-Type, Authorization, apikey"
)

// CORS stamps the allow headers on every response and answers preflight requests
// with an empty 200.
func CORS(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigin)
	c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)

	if c.Method() == fiber.MethodOptions {
		// SendStatus would write "OK" as the body
		c.Status(fiber.StatusOK)
		return nil
	}
	return c.Next()
}
