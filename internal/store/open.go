package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend            string
	SQLitePath         string
	RedisURL           string
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if opts.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(opts.SQLitePath)
	case BackendRedis:
		rs, err := NewRedisStore(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewBreakerStore(rs, BreakerSettings{
			Name:        "redis",
			MaxFailures: opts.BreakerMaxFailures,
			Timeout:     opts.BreakerTimeout,
		}), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
