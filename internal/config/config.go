// Package config loads client configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pkg/errors"
)

// Config holds every tunable of the client. All values come from the
// environment; unset values fall back to the tagged defaults.
type Config struct {
	AppName string `env:"INVESTAI_APP_NAME" envDefault:"InvestAI"`

	// APIBaseURL is the root of the InvestAI backend.
	APIBaseURL string        `env:"INVESTAI_API_URL" envDefault:"https://api.investai.app"`
	APITimeout time.Duration `env:"INVESTAI_API_TIMEOUT" envDefault:"30s"`

	// TokenFile is where the session's token pair is persisted between runs.
	// Empty selects ~/.investai/tokens.enc.
	TokenFile string `env:"INVESTAI_TOKEN_FILE"`
	// TokenKey is the passphrase protecting the token file. Empty keeps the
	// store's built-in default key.
	TokenKey string `env:"INVESTAI_TOKEN_KEY"`

	// Currency is the display currency for aggregate views.
	Currency string `env:"INVESTAI_CURRENCY" envDefault:"EUR"`

	LogLevel string `env:"INVESTAI_LOG_LEVEL" envDefault:"warn"`
}

// Load parses the environment into a Config and resolves defaults that need
// the running user's home directory.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "[config.Load] parse environment")
	}
	if cfg.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.Wrap(err, "[config.Load] resolve home directory")
		}
		cfg.TokenFile = filepath.Join(home, ".investai", "tokens.enc")
	}
	return cfg, nil
}
