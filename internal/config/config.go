// Package config provides YAML-based configuration loading for tui-2048,
// with environment variable overrides applied on top of the file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the full program configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig holds engine parameters.
type GameConfig struct {
	Size              int     `yaml:"size" env:"T2048_GAME_SIZE"`
	WinTile           int     `yaml:"win_tile" env:"T2048_GAME_WIN_TILE"`
	Spawn4Probability float64 `yaml:"spawn4_probability" env:"T2048_GAME_SPAWN4_PROBABILITY"`
	Seed              int64   `yaml:"seed" env:"T2048_GAME_SEED"` // 0 = time based
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string      `yaml:"backend" env:"T2048_STORAGE_BACKEND"`
	Path    string      `yaml:"path" env:"T2048_STORAGE_PATH"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"T2048_REDIS_ADDR"`
	Password string `yaml:"password" env:"T2048_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"T2048_REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"T2048_REDIS_PREFIX"`
}

// SSHConfig configures the remote play server.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"T2048_SSH_ADDRESS"`
	HostKey     string        `yaml:"host_key" env:"T2048_SSH_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"T2048_SSH_IDLE_TIMEOUT"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"T2048_LOG_LEVEL"`
	File  string `yaml:"file" env:"T2048_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			Size:              4,
			WinTile:           2048,
			Spawn4Probability: 0.1,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "~/.t2048/t2048.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "t2048",
			},
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKey:     "~/.t2048/ssh_host_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.t2048/t2048.log",
		},
	}
}

// Validate checks value ranges and enum fields.
func (c Config) Validate() error {
	var errs []error

	if c.Game.Size < 2 || c.Game.Size > 8 {
		errs = append(errs, fmt.Errorf("game.size must be between 2 and 8, got %d", c.Game.Size))
	}
	if w := c.Game.WinTile; w < 4 || w&(w-1) != 0 {
		errs = append(errs, fmt.Errorf("game.win_tile must be a power of two >= 4, got %d", w))
	}
	if p := c.Game.Spawn4Probability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("game.spawn4_probability must be in [0,1], got %g", p))
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be %q or %q, got %q",
			BackendSQLite, BackendRedis, c.Storage.Backend))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if c.SSH.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("ssh.idle_timeout must not be negative, got %s", c.SSH.IdleTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
