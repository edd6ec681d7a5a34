package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// DefaultConfigFile is read when TODO_MANAGER_CONFIG is unset.
const DefaultConfigFile = "todo-manager.toml"

// Config keeps runtime settings for the manager.
type Config struct {
	StorageDriver string        // "file" or "sqlite"
	SnapshotPath  string        // file driver: JSON snapshot path
	DatabaseURL   string        // sqlite driver: DSN
	TickInterval  time.Duration // recurrence check period
	TelegramToken string        // empty disables the bot
}

// fileConfig is the TOML shape of the optional config file.
type fileConfig struct {
	StorageDriver    string `toml:"storage_driver"`
	SnapshotPath     string `toml:"snapshot_path"`
	DatabaseURL      string `toml:"database_url"`
	TickIntervalSecs int    `toml:"tick_interval_seconds"`
	TelegramToken    string `toml:"telegram_token"`
}

// Load reads configuration from an optional TOML file, then lets
// environment variables override it, with sane defaults for the rest.
func Load() (Config, error) {
	cfg := Config{
		StorageDriver: DriverFile,
		SnapshotPath:  "todo_manager.json",
		DatabaseURL:   "todo_manager.db",
		TickInterval:  60 * time.Second,
	}

	if err := applyFile(&cfg); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	switch cfg.StorageDriver {
	case DriverFile, DriverSQLite:
	default:
		return cfg, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.TickInterval <= 0 {
		return cfg, fmt.Errorf("tick interval must be positive")
	}

	return cfg, nil
}

func applyFile(cfg *Config) error {
	path := strings.TrimSpace(os.Getenv("TODO_MANAGER_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", path, err)
	}

	if fc.StorageDriver != "" {
		cfg.StorageDriver = fc.StorageDriver
	}
	if fc.SnapshotPath != "" {
		cfg.SnapshotPath = fc.SnapshotPath
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.TickIntervalSecs > 0 {
		cfg.TickInterval = time.Duration(fc.TickIntervalSecs) * time.Second
	}
	if fc.TelegramToken != "" {
		cfg.TelegramToken = fc.TelegramToken
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TODO_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_SNAPSHOT_PATH")); v != "" {
		cfg.SnapshotPath = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_TICK_INTERVAL_SECONDS")); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid TODO_TICK_INTERVAL_SECONDS %q", v)
		}
		cfg.TickInterval = time.Duration(seconds) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	return nil
}
