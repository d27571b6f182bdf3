package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"taskboard/internal/logging"
	"taskboard/internal/store"
)

// Config is the runtime configuration of the board.
type Config struct {
	Port    string        `mapstructure:"port"`
	DBPath  string        `mapstructure:"db_path"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
}

type RedisConfig struct {
	URL     string        `mapstructure:"url"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./data/taskboard.db")
	v.SetDefault("storage.backend", store.BackendSQLite)
	v.SetDefault("storage.key", "taskItems")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.breaker.max_failures", 3)
	v.SetDefault("redis.breaker.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load builds the configuration from defaults, an optional YAML file at path
// and the environment. A .env file in the working directory is read first
// when present. Environment variables use the key with dots replaced by
// underscores, e.g. PORT, DB_PATH, STORAGE_BACKEND, LOG_LEVEL.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		log.WithField("path", path).Debug("loaded config file")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be '%s', '%s', or '%s'", store.BackendSQLite, store.BackendRedis, store.BackendMemory)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key is required")
	}

	if c.Storage.Backend == store.BackendSQLite && c.DBPath == "" {
		return errors.New("db_path is required for the sqlite backend")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("log.format must be 'text' or 'json'")
	}

	return nil
}

// StoreOptions converts the storage settings for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:            c.Storage.Backend,
		SQLitePath:         c.DBPath,
		RedisURL:           c.Redis.URL,
		BreakerMaxFailures: c.Redis.Breaker.MaxFailures,
		BreakerTimeout:     c.Redis.Breaker.Timeout,
	}
}

// LogOptions converts the log settings for logging.Setup.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File:   c.Log.File,
	}
}
