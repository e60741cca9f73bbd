package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	loaded     sync.Map // reflect.Type -> value
)

// Load fills dst from the environment. A .env file in the working
// directory is read once, without overriding variables already set. Each
// type is parsed once and later calls get the cached value.
func Load[T any](dst *T) error {
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	key := reflect.TypeFor[T]()
	if v, ok := loaded.Load(key); ok {
		*dst = v.(T)
		return nil
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	v, _ := loaded.LoadOrStore(key, cfg)
	*dst = v.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}
