package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-level settings read from the environment
type Config struct {
	// RedisAddr is the host:port of the Redis server
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword is the optional Redis auth password
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB is the Redis database number
	RedisDB int `env:"REDIS_DB" envDefault:"0"`

	// HTTPAddr is the listen address of the web server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// TickInterval is the cadence of play-time accrual
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	// SnapshotEveryTicks is how many ticks pass between background
	// snapshot flushes
	SnapshotEveryTicks int `env:"SNAPSHOT_EVERY_TICKS" envDefault:"5"`

	// LogLevel is the minimum level emitted: debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from a .env file when present, then from the
// environment
func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}
