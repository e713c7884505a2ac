// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/predictor/internal/adapters/repository"
	"github.com/okian/predictor/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Storage selects the backend: memory, file, postgres or redis.
	Storage string `koanf:"storage"`

	// DataDir holds predictions.json and results.json for the file backend.
	DataDir string `koanf:"data_dir"`

	// PostgresDSN is the lib/pq connection string for the postgres backend.
	PostgresDSN string `koanf:"postgres_dsn"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// JWTSecret verifies participant and admin tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the lifetime of tokens signed by this process (simulator).
	TokenTTL time.Duration `koanf:"token_ttl"`

	// LockOnResult rejects prediction submissions once a result is recorded.
	LockOnResult bool `koanf:"lock_on_result"`

	// Fixture describes the match being predicted.
	Fixture model.Fixture `koanf:"fixture"`

	// Players is the roster first scorer ids refer to.
	Players []model.Player `koanf:"players"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		Storage:        repository.BackendMemory,
		DataDir:        "data",
		RedisAddr:      "localhost:6379",
		RedisKeyPrefix: repository.DefaultRedisKeyPrefix,
		TokenTTL:       24 * time.Hour,
		Fixture: model.Fixture{
			HomeTeam: "Home",
			AwayTeam: "Away",
		},
		Players: []model.Player{},
	}
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%w: jwt_secret must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	switch c.Storage {
	case repository.BackendMemory:
	case repository.BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir is required for file storage", ErrInvalidConfig)
		}
	case repository.BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for postgres storage", ErrInvalidConfig)
		}
	case repository.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for redis storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}
	seen := make(map[int]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player id %d", ErrInvalidConfig, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// StorageOptions maps the storage settings onto repository options.
func (c *Config) StorageOptions() repository.Options {
	return repository.Options{
		Backend:        c.Storage,
		DataDir:        c.DataDir,
		PostgresDSN:    c.PostgresDSN,
		RedisAddr:      c.RedisAddr,
		RedisPassword:  c.RedisPassword,
		RedisDB:        c.RedisDB,
		RedisKeyPrefix: c.RedisKeyPrefix,
	}
}
