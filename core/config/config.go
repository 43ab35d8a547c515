package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	envOnce sync.Once

	cacheMu sync.RWMutex
	cache   = map[reflect.Type]any{}
)

// loadDotEnv loads a .env file from the working directory exactly once per
// process. A missing .env file is not an error — production deployments set
// environment variables directly and never ship one.
func loadDotEnv() {
	envOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "config: .env load: %v\n", err)
		}
	})
}

// Load parses environment variables into cfg's fields using caarlos0/env
// struct tags, caching the result by cfg's type so repeated calls for the
// same configuration type return the identical cached value rather than
// re-parsing the environment.
func Load[T any](cfg *T) error {
	loadDotEnv()

	t := reflect.TypeOf(*cfg)
	cacheMu.RLock()
	if cached, ok := cache[t]; ok {
		cacheMu.RUnlock()
		*cfg = cached.(T)
		return nil
	}
	cacheMu.RUnlock()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	cacheMu.Lock()
	cache[t] = *cfg
	cacheMu.Unlock()
	return nil
}

// MustLoad is Load, panicking on failure. Intended for program start, where
// a misconfigured environment should fail fast rather than propagate an
// error through layers that have no sensible recovery.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
