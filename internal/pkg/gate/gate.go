// Package gate keeps casual visitors away from the dashboard documents.
// It is a deterrent, not a credential system: there is no logout, no rate
// limiting and the credentials come straight from configuration.
package gate

import (
	"net/url"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

// DocumentPaths are the routes the gate guards.
var DocumentPaths = []string{"/", "/index.html"}

// New returns the middleware for the configured mode, or nil when the gate is off.
func New(cfg config.GateConfig) (fiber.Handler, error) {
	switch cfg.Mode {
	case config.GateBasic:
		return Basic(cfg), nil
	case config.GateCookie:
		return Cookie(cfg)
	default:
		return nil, nil
	}
}

// isDocument compares the normalized request path, the one the static handler
// resolves, so spellings like //index.html, /./index.html, /%69ndex.html or a
// trailing slash are guarded too.
func isDocument(c *fiber.Ctx) bool {
	candidates := []string{
		string(c.Request().URI().Path()),
		c.Path(),
	}
	if unescaped, err := url.PathUnescape(c.Path()); err == nil {
		candidates = append(candidates, unescaped)
	}

	for _, candidate := range candidates {
		cleaned := path.Clean("/" + candidate)
		for _, p := range DocumentPaths {
			if strings.EqualFold(cleaned, p) {
				return true
			}
		}
	}
	return false
}

func skip(c *fiber.Ctx) bool {
	return !isDocument(c)
}
