package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"pricewatch/internal/domain"
	"pricewatch/pkg/errcodes"
)

type Config struct {
	App       App
	Log       Log
	Discord   Discord
	Listings  Listings
	Browser   Browser
	Telegram  Telegram
	Scheduler Scheduler
}

type App struct {
	Name    string `env:"APP_NAME"    envDefault:"pricewatch"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL"        envDefault:"info"`
	HTTPMaxLen int    `env:"LOG_HTTP_MAX_LEN" envDefault:"2048"`
}

type Listings struct {
	File          string `env:"LISTINGS_FILE"   envDefault:"listings.json"`
	DefaultUserID string `env:"DEFAULT_USER_ID"`
}

type Scheduler struct {
	Schedule       string `env:"SCHEDULE"`
	ProbeAddr      string `env:"PROBE_ADDR"      envDefault:":8081"`
	MetricsAddr    string `env:"METRICS_ADDR"    envDefault:":9090"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
}

// Scheduled reports whether the process should stay up and run on a cron schedule.
func (s Scheduler) Scheduled() bool {
	return s.Schedule != ""
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, domain.WrapError(
			fmt.Errorf("env.Parse: %w", err),
			errcodes.ConfigInvalid,
			"invalid environment",
		)
	}

	if err := config.Discord.validate(); err != nil {
		return Config{}, domain.WrapError(err, errcodes.InvalidURL, "invalid webhook url")
	}

	if err := config.Browser.validate(); err != nil {
		return Config{}, domain.WrapError(err, errcodes.UnsupportedEngine, "invalid browser config")
	}

	return config, nil
}
