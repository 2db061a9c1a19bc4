package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sportsvolume/dashboard/internal/pkg/env"
)

const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"

	GateBasic  = "basic"
	GateCookie = "cookie"
	GateOff    = "off"

	DefaultTable = "daily_volumes"
)

// StoreConfig describes how the upstream daily_volumes table is reached.
type StoreConfig struct {
	Driver      string        `validate:"oneof=rest postgres"`
	URL         string        `validate:"omitempty,url"`
	Key         string
	ServiceKey  string
	DatabaseURL string
	Table       string        `validate:"required"`
	Timeout     time.Duration `validate:"gt=0"`
}

// Configured reports whether the selected driver has what it needs to make a call.
func (s StoreConfig) Configured() bool {
	switch s.Driver {
	case DriverPostgres:
		return s.DatabaseURL != ""
	default:
		return s.URL != "" && s.Key != ""
	}
}

type GateConfig struct {
	Mode       string `validate:"oneof=basic cookie off"`
	Username   string `validate:"required_if=Mode basic"`
	Password   string `validate:"required_unless=Mode off"`
	CookieName string `validate:"required"`
	Realm      string
	Secure     bool
}

type CacheConfig struct {
	Host     string
	Port     int `validate:"gt=0"`
	Password string
}

func (c CacheConfig) Enabled() bool {
	return c.Host != ""
}

func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Config struct {
	AppHost     string
	AppPort     string `validate:"required"`
	Production  bool
	PublicDir   string
	OpenAPIFile string

	Store StoreConfig
	Gate  GateConfig
	Cache CacheConfig

	// LimiterMax is requests per LimiterExpiration per client on /api; 0 disables it.
	LimiterMax        int `validate:"gte=0"`
	LimiterExpiration time.Duration

	MetricsUser     string
	MetricsPassword string
}

// Load builds the server configuration from the environment.
// env.SetupEnvFile should run first when a .env file is expected.
func Load() (*Config, error) {
	production := env.IsProduction()

	cfg := &Config{
		AppHost:     env.GetEnv("APP_HOST", "localhost"),
		AppPort:     env.GetEnv("APP_PORT", "4000"),
		Production:  production,
		PublicDir:   env.GetEnv("PUBLIC_DIR", ""),
		OpenAPIFile: env.GetEnv("OPENAPI_FILE", "./docs/openapi.yml"),
		Store:       loadStore(),
		Gate: GateConfig{
			Mode:       strings.ToLower(env.GetEnv("GATE_MODE", GateBasic)),
			Username:   env.GetEnv("GATE_USERNAME", "admin"),
			Password:   env.GetEnv("GATE_PASSWORD", "biome"),
			CookieName: env.GetEnv("GATE_COOKIE_NAME", "site_session"),
			Realm:      env.GetEnv("GATE_REALM", "Dashboard"),
			Secure:     production,
		},
		Cache: CacheConfig{
			Host:     env.GetEnv("CACHE_HOST", ""),
			Port:     getInt("CACHE_PORT", 6379),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		LimiterMax:        getInt("LIMITER_MAX", 0),
		LimiterExpiration: getDuration("LIMITER_EXPIRATION", time.Minute),
		MetricsUser:       env.GetEnv("METRICS_USER", ""),
		MetricsPassword:   env.GetEnv("METRICS_PASSWORD", ""),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadStore() StoreConfig {
	return StoreConfig{
		Driver:      strings.ToLower(env.GetEnv("STORE_DRIVER", DriverREST)),
		URL:         strings.TrimRight(env.GetEnv("SUPABASE_URL", ""), "/"),
		Key:         firstNonEmpty(env.GetEnv("SUPABASE_ANON_KEY", ""), env.GetEnv("SUPABASE_KEY", "")),
		ServiceKey:  env.GetEnv("SUPABASE_SERVICE_KEY", ""),
		DatabaseURL: env.GetEnv("DATABASE_URL", ""),
		Table:       env.GetEnv("STORE_TABLE", DefaultTable),
		Timeout:     getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
	}
}

var validate = validator.New()

// Validate checks struct tags on a configuration value.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getInt(key string, def int) int {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// plain numbers are seconds
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
