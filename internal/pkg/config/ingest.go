package config

import (
	"errors"
	"strings"
	"time"

	"github.com/sportsvolume/dashboard/internal/pkg/env"
)

const DefaultKalshiHost = "https://api.elections.kalshi.com/trade-api/v2"

// IngestConfig drives one run of the daily volume job.
type IngestConfig struct {
	KalshiHost          string `validate:"required,url"`
	KalshiKeyID         string `validate:"required"`
	KalshiPrivateKey    string `validate:"required"`
	KalshiKeyPassphrase string
	HTTPProxy           string `validate:"omitempty,url"`
	CABundlePath        string
	Timezone            string `validate:"required"`
	LookbackDays        int    `validate:"gte=1,lte=366"`
	BatchSize           int    `validate:"gte=1"`
	RequestDelay        time.Duration
	RetryBaseDelay      time.Duration
	MaxRetries          int `validate:"gte=1"`

	Store StoreConfig
	Cache CacheConfig
	S3    S3Config
}

type S3Config struct {
	Enabled         bool
	AccessKeyID     string `validate:"required_if=Enabled true"`
	SecretAccessKey string `validate:"required_if=Enabled true"`
	Region          string
	BucketName      string `validate:"required_if=Enabled true"`
	EndpointURL     string `validate:"omitempty,url"`
}

// LoadIngest builds the ingestion configuration. The writer side of the store uses
// the service key, so it is required for the rest driver.
func LoadIngest() (*IngestConfig, error) {
	store := loadStore()
	store.Timeout = getDuration("UPSTREAM_TIMEOUT", 60*time.Second)

	cfg := &IngestConfig{
		KalshiHost:          strings.TrimRight(env.GetEnv("KALSHI_API_HOST", DefaultKalshiHost), "/"),
		KalshiKeyID:         env.GetEnv("KALSHI_API_KEY_ID", ""),
		KalshiPrivateKey:    env.GetEnv("KALSHI_PRIVATE_KEY", ""),
		KalshiKeyPassphrase: env.GetEnv("KALSHI_KEY_PASSPHRASE", ""),
		HTTPProxy:           env.GetEnv("HTTP_PROXY", ""),
		CABundlePath:        env.GetEnv("CA_BUNDLE_PATH", ""),
		Timezone:            env.GetEnv("TIMEZONE", "America/New_York"),
		LookbackDays:        getInt("LOOKBACK_DAYS", 7),
		BatchSize:           getInt("KALSHI_BATCH_SIZE", 20),
		RequestDelay:        getDuration("KALSHI_REQUEST_DELAY", time.Second),
		RetryBaseDelay:      getDuration("KALSHI_RETRY_BASE_DELAY", 2*time.Second),
		MaxRetries:          getInt("KALSHI_MAX_RETRIES", 5),
		Store:               store,
		Cache: CacheConfig{
			Host:     env.GetEnv("CACHE_HOST", ""),
			Port:     getInt("CACHE_PORT", 6379),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		S3: S3Config{
			Enabled:         env.GetEnv("S3_ARCHIVE_ENABLED", "false") == "true",
			AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          env.GetEnv("S3_REGION", "us-east-1"),
			BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
			EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == DriverREST && (cfg.Store.URL == "" || cfg.Store.ServiceKey == "") {
		return nil, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}
	if cfg.Store.Driver == DriverPostgres && cfg.Store.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres driver")
	}
	return cfg, nil
}
