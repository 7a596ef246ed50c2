// Package config loads localedit settings from environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/localedit/pkg/logger"
)

// Config is the full runtime configuration.
type Config struct {
	Logger          logger.Config
	LocalesRoot     string        `env:"LOCALES_ROOT"     envDefault:"./locales" validate:"required"`
	Address         string        `env:"ADDRESS"          envDefault:":8080"     validate:"required,hostname_port"`
	WatchDebounce   time.Duration `env:"WATCH_DEBOUNCE"   envDefault:"50ms"      validate:"gte=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"       validate:"gt=0"`
	WatchEnabled    bool          `env:"WATCH_ENABLED"    envDefault:"true"`
	EvictOnDelete   bool          `env:"EVICT_ON_DELETE"  envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. Call it again after overriding
// fields from flags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
