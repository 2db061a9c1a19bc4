// Package ingestion computes the daily trade volume rows from the Kalshi API and
// writes them to the daily_volumes store.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/sportsvolume/dashboard/app/models"
	"github.com/sportsvolume/dashboard/internal/pkg/kalshi"
	"github.com/sportsvolume/dashboard/internal/pkg/rowstore"
	"github.com/sportsvolume/dashboard/internal/pkg/s3archive"
)

// ErrLocked means another run currently holds the run lock.
var ErrLocked = errors.New("another ingestion run is in progress")

// TradeSource is the part of the Kalshi API the job reads.
type TradeSource interface {
	Trades(ctx context.Context, minTS, maxTS int64) ([]kalshi.Trade, error)
	Markets(ctx context.Context, tickers []string) (map[string]kalshi.Market, error)
	EventCategories(ctx context.Context, eventTickers []string) (map[string]string, error)
}

type Archiver interface {
	Archive(ctx context.Context, key string, v interface{}) error
}

type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type Service struct {
	Source       TradeSource
	Writer       rowstore.RowWriter
	Archiver     Archiver // optional
	Locker       Locker   // optional
	Location     *time.Location
	LookbackDays int
	Now          func() time.Time
	NewRunID     func() string
}

// Result summarizes one run. Failed counts rows the writer rejected.
type Result struct {
	RunID      string
	Rows       []models.DailyVolume
	Upserted   int
	Failed     int
	ArchiveKey string
}

func NewService(source TradeSource, writer rowstore.RowWriter, loc *time.Location, lookbackDays int) *Service {
	return &Service{
		Source:       source,
		Writer:       writer,
		Location:     loc,
		LookbackDays: lookbackDays,
		Now:          time.Now,
		NewRunID:     uuid.NewString,
	}
}

// Run performs one ingestion pass. A row that fails to upsert is logged and the
// remaining rows are still written.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if s.Locker != nil {
		ok, err := s.Locker.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
		defer func() {
			if err := s.Locker.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warnf("[ingestion] failed to release run lock: %v", err)
			}
		}()
	}

	now := s.Now()
	res := &Result{RunID: s.NewRunID()}
	w := NewWindow(now, s.Location, s.LookbackDays)
	log.Infof("[ingestion] run %s: processing %s to %s (timezone: %s, lookback: %d days)",
		res.RunID, w.First.Format(dateLayout), w.Last.Format(dateLayout), s.Location, s.LookbackDays)

	minTS, maxTS := w.Bounds()
	trades, err := s.Source.Trades(ctx, minTS, maxTS)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	bucket := BucketTrades(w, trades)
	log.Infof("[ingestion] unique tickers: %d", len(bucket.Tickers))

	markets, err := s.Source.Markets(ctx, bucket.Tickers)
	if err != nil {
		return nil, fmt.Errorf("lookup markets: %w", err)
	}
	eventCategories := map[string]string{}
	if events := EventsToResolve(markets); len(events) > 0 {
		if eventCategories, err = s.Source.EventCategories(ctx, events); err != nil {
			return nil, fmt.Errorf("lookup events: %w", err)
		}
	}

	res.Rows = bucket.Rows(ResolveCategories(markets, eventCategories))
	for _, row := range res.Rows {
		log.Infof("[ingestion]   %s: total=%d sports=%d (%.2f%%)", row.Date, row.TotalVolume, row.SportsVolume, row.SportsPct)
	}

	if s.Archiver != nil {
		key := s3archive.ObjectKey(now.In(s.Location), res.RunID)
		if err := s.Archiver.Archive(ctx, key, res.Rows); err != nil {
			log.Warnf("[ingestion] archive failed: %v", err)
		} else {
			res.ArchiveKey = key
		}
	}

	log.Infof("[ingestion] upserting %d rows", len(res.Rows))
	for _, row := range res.Rows {
		if err := s.Writer.Upsert(ctx, []models.DailyVolume{row}); err != nil {
			res.Failed++
			log.Errorf("[ingestion]   error upserting %s: %v", row.Date, err)
			continue
		}
		res.Upserted++
		log.Infof("[ingestion]   upserted %s", row.Date)
	}
	return res, nil
}
