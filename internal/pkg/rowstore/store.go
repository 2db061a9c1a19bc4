// Package rowstore reads and writes daily_volumes rows in the upstream store.
// The transport (PostgREST over HTTPS, or a direct Postgres connection) is picked
// from configuration; callers only see RowStore and RowWriter.
package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sportsvolume/dashboard/app/models"
	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

// ErrNotConfigured is returned when the upstream endpoint or credentials are missing.
var ErrNotConfigured = errors.New("upstream store is not configured")

// RowStore fetches rows whose date lies in [start, end], ascending by date.
type RowStore interface {
	FetchRange(ctx context.Context, start, end string) ([]json.RawMessage, error)
}

// RowWriter inserts or replaces rows keyed by date.
type RowWriter interface {
	Upsert(ctx context.Context, rows []models.DailyVolume) error
}

// UpstreamError is a failure reported by the store. Message never carries credentials.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// New returns the reader for the configured driver.
func New(cfg config.StoreConfig) (RowStore, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return NewREST(cfg.URL, cfg.Key, cfg.Table, cfg.Timeout), nil
	}
}

// NewWriter returns the writer for the configured driver. The REST writer
// authenticates with the service key.
func NewWriter(cfg config.StoreConfig) (RowWriter, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrNotConfigured
		}
		pg, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		if cfg.URL == "" || cfg.ServiceKey == "" {
			return nil, ErrNotConfigured
		}
		return NewREST(cfg.URL, cfg.ServiceKey, cfg.Table, cfg.Timeout), nil
	}
}
