package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

type flakyStore struct {
	err   error
	calls int
}

func (s *flakyStore) Get(context.Context, string) (string, bool, error) {
	s.calls++
	if s.err != nil {
		return "", false, s.err
	}
	return "", false, nil
}

func (s *flakyStore) Set(context.Context, string, string) error {
	s.calls++
	return s.err
}

func (s *flakyStore) Close() error { return nil }

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &flakyStore{err: errors.New("connection refused")}
	store := NewBreakerStore(next, BreakerSettings{MaxFailures: 2, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Set(ctx, "k", "v"); err == nil {
			t.Fatal("expected underlying error")
		}
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to be open, got %s", store.State())
	}

	err := store.Set(ctx, "k", "v")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if next.calls != 2 {
		t.Errorf("expected open breaker to skip the store, got %d calls", next.calls)
	}
}

func TestBreakerStore_MissingKeyIsNotAFailure(t *testing.T) {
	next := &flakyStore{}
	store := NewBreakerStore(next, BreakerSettings{MaxFailures: 1})

	for i := 0; i < 3; i++ {
		_, found, err := store.Get(context.Background(), "absent")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if found {
			t.Fatal("expected key to be absent")
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Errorf("expected breaker to stay closed, got %s", store.State())
	}
}

func TestBreakerStore_PassesValuesThrough(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), BreakerSettings{})
	ctx := context.Background()

	if err := store.Set(ctx, "taskItems", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, found, err := store.Get(ctx, "taskItems")
	if err != nil || !found || value != "[]" {
		t.Fatalf("unexpected Get result %q found=%v err=%v", value, found, err)
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, Options{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open memory failed: %v", err)
	}
	if _, ok := mem.(*MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", mem)
	}

	dbPath := filepath.Join(t.TempDir(), "nested", "board.db")
	sqlite, err := Open(ctx, Options{Backend: BackendSQLite, SQLitePath: dbPath})
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	if _, ok := sqlite.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", sqlite)
	}

	if _, err := Open(ctx, Options{Backend: "mongo"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
