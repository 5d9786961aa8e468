package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// DefaultListingsURL is the published spreadsheet the rental desk maintains.
const DefaultListingsURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vR2Fjc9qA470SDT12L-_nNlryhKLXHZWXSYPzg-ycg-DGkt_O7suDDtUF3rQEE-pg/pub?gid=858361345&single=true&output=csv"

const envPrefix = "locadora"

// Config holds runtime configuration. Every field maps to LOCADORA_<TAG>.
type Config struct {
	Addr     string `envconfig:"ADDR" default:":8000"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFormat is "text" or "json".
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	Timezone  string `envconfig:"TIMEZONE" default:"America/Sao_Paulo"`

	ListingsURL        string        `envconfig:"LISTINGS_URL"`
	ListingsCacheTTL   time.Duration `envconfig:"LISTINGS_CACHE_TTL" default:"0s"`
	ListingsMirrorPath string        `envconfig:"LISTINGS_MIRROR_PATH"`
	FetchTimeout       time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	FetchInsecureTLS   bool          `envconfig:"FETCH_INSECURE_TLS" default:"false"`

	// LeadRateCeiling flags listings whose low-season rate is below it as
	// lead offers. Zero disables the price rule.
	LeadRateCeiling string `envconfig:"LEAD_RATE_CEILING" default:"0"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"memory"`
	DBDSN       string `envconfig:"DB_DSN"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// RefreshSchedule is either a number of seconds or a standard cron expression.
	RefreshSchedule    string `envconfig:"REFRESH_SCHEDULE" default:"300"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`

	EmailProvider    string `envconfig:"EMAIL_PROVIDER" default:"none"`
	SMTPHost         string `envconfig:"SMTP_HOST" default:"127.0.0.1"`
	SMTPPort         int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUsername     string `envconfig:"SMTP_USERNAME"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
	SendgridAPIKey   string `envconfig:"SENDGRID_API_KEY"`
	EmailFromAddress string `envconfig:"EMAIL_FROM_ADDRESS" default:"reservas@locadora.local"`
	EmailFromName    string `envconfig:"EMAIL_FROM_NAME" default:"Central de Reservas"`

	AlertWebhookURL  string `envconfig:"ALERT_WEBHOOK_URL"`
	AlertWebhookType string `envconfig:"ALERT_WEBHOOK_TYPE"`
	AlertMinFailures int    `envconfig:"ALERT_MIN_FAILURES" default:"1"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config: no .env file found, using process environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ListingsURL == "" {
		cfg.ListingsURL = DefaultListingsURL
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.EmailProvider = strings.ToLower(cfg.EmailProvider)
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.LeadCeiling(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the configured time zone used to combine quote dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LeadCeiling parses LeadRateCeiling.
func (c *Config) LeadCeiling() (decimal.Decimal, error) {
	if strings.TrimSpace(c.LeadRateCeiling) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(c.LeadRateCeiling))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: lead rate ceiling %q: %w", c.LeadRateCeiling, err)
	}
	return d, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
