// Package volumes serves the date-range query endpoint of the dashboard.
package volumes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/rowstore"
)

const (
	CacheControl = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=86400"

	msgMissingParams = "Missing required parameters: start_date and end_date"
	msgNotConfigured = "Server configuration error: upstream store credentials are not set"
	msgUpstream      = "Failed to fetch daily volumes"
)

type rangeQuery struct {
	StartDate string `query:"start_date" validate:"required"`
	EndDate   string `query:"end_date" validate:"required"`
}

// Handler forwards range queries to a RowStore. A nil store means the upstream
// is not configured.
type Handler struct {
	store    rowstore.RowStore
	timeout  time.Duration
	validate *validator.Validate
}

func NewHandler(store rowstore.RowStore, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		store:    store,
		timeout:  timeout,
		validate: validator.New(),
	}
}

// GetVolumes handles GET /api/volumes?start_date=&end_date=.
func (h *Handler) GetVolumes(c *fiber.Ctx) error {
	if h.store == nil {
		log.Errorf("[volumes] upstream store not configured")
		return errorJSON(c, fiber.StatusInternalServerError, msgNotConfigured)
	}

	var q rangeQuery
	if err := c.QueryParser(&q); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgMissingParams)
	}
	if err := h.validate.Struct(q); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgMissingParams)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	rows, err := h.store.FetchRange(ctx, q.StartDate, q.EndDate)
	if err != nil {
		status, msg := classify(err)
		log.Warnf("[volumes] fetch %s..%s failed: %v", q.StartDate, q.EndDate, err)
		return errorJSON(c, status, msg)
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}

	c.Set(fiber.HeaderCacheControl, CacheControl)
	return c.Status(fiber.StatusOK).JSON(rows)
}

// classify maps a store error to a response status and a client-safe message.
func classify(err error) (int, string) {
	var upErr *rowstore.UpstreamError
	if errors.As(err, &upErr) {
		status := fiber.StatusInternalServerError
		if upErr.Status >= 400 && upErr.Status <= 599 {
			status = upErr.Status
		}
		if upErr.Message == "" {
			return status, msgUpstream
		}
		return status, upErr.Message
	}
	if errors.Is(err, rowstore.ErrNotConfigured) {
		return fiber.StatusInternalServerError, msgNotConfigured
	}
	return fiber.StatusInternalServerError, msgUpstream
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
