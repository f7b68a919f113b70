package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config.nil_pointer")
	// ErrParsing wraps env parsing failures.
	ErrParsing = errors.New("config.parse_failed")
)

var dotenvOnce sync.Once

// Load fills v from environment variables based on its `env` field tags.
// The first call in the process also loads a .env file when one exists.
// Callers own the resulting value; there is no process-wide config cache, so
// tests construct configs directly.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// missing .env is fine
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
