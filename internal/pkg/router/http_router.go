package router

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/gate"
	"github.com/sportsvolume/dashboard/web"
)

// HttpRouter serves the dashboard documents behind the access gate: the files of
// PUBLIC_DIR when it is set, otherwise the embedded document.
type HttpRouter struct {
	gate      config.GateConfig
	publicDir string
}

func (h HttpRouter) InstallRouter(app *fiber.App) error {
	handler, err := gate.New(h.gate)
	if err != nil {
		return err
	}
	if handler != nil {
		app.Use(handler)
		log.Infof("[router] access gate enabled (%s)", h.gate.Mode)
	} else {
		log.Warnf("[router] access gate disabled")
	}

	if h.publicDir != "" {
		if _, err := os.Stat(h.publicDir); err == nil {
			app.Static("/", h.publicDir, fiber.Static{
				CacheDuration: 15 * time.Second,
				Compress:      true,
				Index:         "index.html",
			})
			return nil
		}
		log.Warnf("[router] public dir %s not found, serving the embedded document", h.publicDir)
	}

	for _, path := range gate.DocumentPaths {
		app.Get(path, Document)
	}
	return nil
}

// Document sends the embedded dashboard page.
func Document(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(web.IndexHTML)
}

func NewHttpRouter(cfg *config.Config) *HttpRouter {
	return &HttpRouter{
		gate:      cfg.Gate,
		publicDir: cfg.PublicDir,
	}
}
