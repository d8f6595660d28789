// Package config loads SceneKitt host settings from the environment and
// scene/sound catalogs from YAML.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/kittclouds/scenekitt/internal/logger"
	"github.com/kittclouds/scenekitt/pkg/transport"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Config is the host configuration.
type Config struct {
	LogLevel    string `env:"SCENEKITT_LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"SCENEKITT_LOG_ENCODING" envDefault:"console"`
	LogOutput   string `env:"SCENEKITT_LOG_OUTPUT"`

	// TrackDir is the root that catalog track ids are resolved against.
	TrackDir     string `env:"SCENEKITT_TRACK_DIR" envDefault:"assets"`
	CatalogFile  string `env:"SCENEKITT_CATALOG_FILE"`
	WatchCatalog bool   `env:"SCENEKITT_WATCH_CATALOG" envDefault:"false"`

	PrefsDSN string `env:"SCENEKITT_PREFS_DSN" envDefault:"scenekitt.db"`
	Profile  string `env:"SCENEKITT_PROFILE" envDefault:"default"`

	SampleRate  int    `env:"SCENEKITT_SAMPLE_RATE" envDefault:"44100"`
	MetricsAddr string `env:"SCENEKITT_METRICS_ADDR"`

	FadeDuration       time.Duration `env:"SCENEKITT_FADE_DURATION" envDefault:"500ms"`
	FadeStep           time.Duration `env:"SCENEKITT_FADE_STEP" envDefault:"50ms"`
	DebounceWindow     time.Duration `env:"SCENEKITT_DEBOUNCE_WINDOW" envDefault:"200ms"`
	BusyWait           time.Duration `env:"SCENEKITT_BUSY_WAIT" envDefault:"50ms"`
	LoadTimeout        time.Duration `env:"SCENEKITT_LOAD_TIMEOUT" envDefault:"5s"`
	OneShotMaxLifetime time.Duration `env:"SCENEKITT_ONESHOT_MAX_LIFETIME" envDefault:"10s"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SampleRate <= 0 {
		return Config{}, fmt.Errorf("parse env: SCENEKITT_SAMPLE_RATE must be positive, got %d", cfg.SampleRate)
	}
	return cfg, nil
}

// TransportOptions returns the transport timings.
func (c Config) TransportOptions() transport.Options {
	return transport.Options{
		FadeDuration:       c.FadeDuration,
		FadeStep:           c.FadeStep,
		DebounceWindow:     c.DebounceWindow,
		BusyWait:           c.BusyWait,
		LoadTimeout:        c.LoadTimeout,
		OneShotMaxLifetime: c.OneShotMaxLifetime,
	}
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Encoding: c.LogEncoding, OutputPath: c.LogOutput}
}
