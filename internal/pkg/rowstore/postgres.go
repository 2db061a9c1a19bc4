package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/sportsvolume/dashboard/app/models"
	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

// Postgres reads the table through gorm's query builder over a direct connection.
type Postgres struct {
	DB    *gorm.DB
	Table string
}

const (
	connectRetries = 3
	retryDelay     = 2 * time.Second
)

// OpenPostgres connects to DATABASE_URL, retrying a few times while the
// database comes up.
func OpenPostgres(cfg config.StoreConfig) (*Postgres, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectRetries; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			return NewPostgres(db, cfg.Table), nil
		}

		log.Warnf("[rowstore] failed to connect to database (try %d/%d): %v", i+1, connectRetries, err)
		if i < connectRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, &UpstreamError{Message: "could not connect to database"}
}

func NewPostgres(db *gorm.DB, table string) *Postgres {
	if table == "" {
		table = config.DefaultTable
	}
	return &Postgres{DB: db, Table: table}
}

func (p *Postgres) FetchRange(ctx context.Context, start, end string) ([]json.RawMessage, error) {
	var records []map[string]interface{}
	err := p.DB.WithContext(ctx).
		Table(p.Table).
		Where("date >= ? AND date <= ?", start, end).
		Order("date asc").
		Find(&records).Error
	if err != nil {
		return nil, dbError(err)
	}

	rows := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		// date columns scan as time.Time; keep the PostgREST shape
		if d, ok := rec["date"].(time.Time); ok {
			rec["date"] = d.Format("2006-01-02")
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode row: %w", err)
		}
		rows = append(rows, raw)
	}
	return rows, nil
}

func (p *Postgres) Upsert(ctx context.Context, rows []models.DailyVolume) error {
	if len(rows) == 0 {
		return nil
	}
	err := p.DB.WithContext(ctx).
		Table(p.Table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func dbError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Message: "upstream request timed out"}
	}
	return &UpstreamError{Message: fmt.Sprintf("database query failed: %v", err)}
}
