package gate

import (
	"crypto/subtle"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/template/html/v2"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

const (
	// SessionValue marks an authenticated browser.
	SessionValue = "authenticated"
	// SessionMaxAge is seven days in seconds.
	SessionMaxAge = 7 * 24 * 60 * 60

	passwordParam = "password"
)

//go:embed views/*.html
var viewsFS embed.FS

type loginPage struct {
	Title  string
	Action string
	Failed bool
}

// NewEngine loads the embedded gate templates.
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load gate templates: %w", err)
	}
	return engine, nil
}

// Cookie serves a password form and remembers a successful login in a cookie.
func Cookie(cfg config.GateConfig) (fiber.Handler, error) {
	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}
	g := &cookieGate{cfg: cfg, engine: engine}
	return g.handle, nil
}

type cookieGate struct {
	cfg    config.GateConfig
	engine *html.Engine
}

func (g *cookieGate) handle(c *fiber.Ctx) error {
	if skip(c) {
		return c.Next()
	}
	if c.Cookies(g.cfg.CookieName) == SessionValue {
		return c.Next()
	}

	submitted := c.Query(passwordParam)
	if submitted == "" {
		return g.renderLogin(c, false)
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(g.cfg.Password)) != 1 {
		return g.renderLogin(c, true)
	}

	c.Cookie(&fiber.Cookie{
		Name:     g.cfg.CookieName,
		Value:    SessionValue,
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HTTPOnly: true,
		Secure:   g.cfg.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}

func (g *cookieGate) renderLogin(c *fiber.Ctx, failed bool) error {
	c.Status(fiber.StatusUnauthorized)
	c.Type("html", "utf-8")
	err := g.engine.Render(c, "login", loginPage{
		Title:  "Dashboard",
		Action: c.Path(),
		Failed: failed,
	})
	if err != nil {
		log.Errorf("[gate] render login: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
	return nil
}
