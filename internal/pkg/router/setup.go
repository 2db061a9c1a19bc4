package router

import (
	"github.com/gofiber/fiber/v2"
)

type Router interface {
	InstallRouter(app *fiber.App) error
}

// InstallRouter installs the document router first so the access gate runs
// before the static files it protects, then the API routes.
func InstallRouter(app *fiber.App, routers ...Router) error {
	return setup(app, routers...)
}

func setup(app *fiber.App, router ...Router) error {
	for _, r := range router {
		if err := r.InstallRouter(app); err != nil {
			return err
		}
	}
	return nil
}
