package tokenstore

import (
	"context"
	"errors"
	"time"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config selects and configures the token store driver.
type Config struct {
	Driver string `env:"TOKEN_STORE_DRIVER" envDefault:"file"`

	// FilePath defaults to DefaultPath() when empty.
	FilePath string `env:"TOKEN_STORE_PATH"`

	RedisURL            string        `env:"TOKEN_STORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKey            string        `env:"TOKEN_STORE_REDIS_KEY" envDefault:"pharmakit:session"`
	RedisRetryAttempts  int           `env:"TOKEN_STORE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RedisRetryInterval  time.Duration `env:"TOKEN_STORE_REDIS_RETRY_INTERVAL" envDefault:"1s"`
	RedisConnectTimeout time.Duration `env:"TOKEN_STORE_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Open builds the store described by cfg. Redis stores returned by Open own
// their client; release it with Close.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverFile, "":
		path := cfg.FilePath
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil

	case DriverRedis:
		client, err := connectRedis(ctx, cfg.RedisURL, cfg.RedisRetryAttempts, cfg.RedisRetryInterval, cfg.RedisConnectTimeout)
		if err != nil {
			return nil, err
		}
		store := NewRedisStore(client, cfg.RedisKey)
		store.owned = true
		return store, nil
	}

	return nil, errors.Join(ErrUnknownDriver, errors.New(cfg.Driver))
}
