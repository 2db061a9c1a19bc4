package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/cache"
	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/env"
	"github.com/sportsvolume/dashboard/internal/pkg/ingestion"
	"github.com/sportsvolume/dashboard/internal/pkg/kalshi"
	"github.com/sportsvolume/dashboard/internal/pkg/rowstore"
	"github.com/sportsvolume/dashboard/internal/pkg/s3archive"
)

const lockTTL = 2 * time.Hour

func main() {
	env.SetupEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Errorf("[volumecron] %v", err)
		stop()
		os.Exit(1)
	}
	log.Info("[volumecron] done")
}

func run(ctx context.Context) error {
	cfg, err := config.LoadIngest()
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	client, err := kalshi.NewClient(cfg)
	if err != nil {
		return err
	}

	writer, err := rowstore.NewWriter(cfg.Store)
	if err != nil {
		return err
	}

	svc := ingestion.NewService(client, writer, loc, cfg.LookbackDays)

	if cfg.Cache.Enabled() {
		rdb, err := cache.NewClient(cfg.Cache)
		if err != nil {
			return err
		}
		defer rdb.Close()
		svc.Locker = ingestion.NewRedisLock(rdb, ingestion.LockKey, lockTTL)
	}

	if cfg.S3.Enabled {
		archive, err := s3archive.NewClient(ctx, cfg.S3)
		if err != nil {
			return err
		}
		svc.Archiver = archive
	}

	res, err := svc.Run(ctx)
	if errors.Is(err, ingestion.ErrLocked) {
		log.Warn("[volumecron] another run holds the lock, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	log.Infof("[volumecron] run %s: %d row(s) upserted, %d failed", res.RunID, res.Upserted, res.Failed)
	if res.Failed > 0 {
		return errors.New("one or more rows failed to upsert")
	}
	return nil
}
