package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/store"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Storage.Backend != store.BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "taskItems" {
		t.Errorf("expected key taskItems, got %s", cfg.Storage.Key)
	}
	if cfg.Redis.Breaker.Timeout != 5*time.Second {
		t.Errorf("expected breaker timeout 5s, got %v", cfg.Redis.Breaker.Timeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/board.db")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_BREAKER_MAX_FAILURES", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DBPath != "/tmp/board.db" {
		t.Errorf("expected db path override, got %s", cfg.DBPath)
	}
	if cfg.Storage.Backend != store.BackendRedis {
		t.Errorf("expected redis backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Redis.Breaker.MaxFailures != 7 {
		t.Errorf("expected 7 max failures, got %d", cfg.Redis.Breaker.MaxFailures)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	content := `
port: "7070"
storage:
  backend: memory
  key: boardItems
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Port)
	}
	if cfg.Storage.Backend != store.BackendMemory || cfg.Storage.Key != "boardItems" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Log.Format)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DBPath:  "./data/taskboard.db",
			Storage: StorageConfig{Backend: store.BackendSQLite, Key: "taskItems"},
			Log:     LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config passes", mutate: func(c *Config) {}},
		{name: "unknown backend fails", mutate: func(c *Config) { c.Storage.Backend = "mongo" }, wantErr: true},
		{name: "blank key fails", mutate: func(c *Config) { c.Storage.Key = " " }, wantErr: true},
		{name: "sqlite without path fails", mutate: func(c *Config) { c.DBPath = "" }, wantErr: true},
		{name: "memory without path passes", mutate: func(c *Config) {
			c.DBPath = ""
			c.Storage.Backend = store.BackendMemory
		}},
		{name: "bad level fails", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad format fails", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
