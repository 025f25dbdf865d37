// Package config loads environment-based configuration structs.
//
// Each package in this module declares its own env-tagged Config struct
// (token secrets, database URL, SMTP credentials, provider keys) and
// consumers load them at startup:
//
//	var cfg authtoken.Config
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is loaded once, if present, before
// the first parse so local development does not need exported variables.
package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer passed to Load")
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
)

var dotenvOnce sync.Once

// Load parses environment variables into the provided struct based on its
// `env` field tags.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// The .env file is optional; missing is not an error.
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Used for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
