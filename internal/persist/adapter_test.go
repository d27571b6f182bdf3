package persist

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"taskboard/internal/models"
	"taskboard/internal/store"
)

type failingStore struct {
	getErr error
	setErr error
}

func (s *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, s.getErr
}

func (s *failingStore) Set(context.Context, string, string) error {
	return s.setErr
}

func (s *failingStore) Close() error { return nil }

func sampleTasks() []models.Task {
	created := time.Date(2026, time.October, 1, 9, 30, 0, 123000000, time.UTC)
	return []models.Task{
		{ID: "a", Title: "Buy milk", Description: "", Status: models.StatusBacklog, Created: created},
		{ID: "b", Title: "Ship release", Description: "tag and publish", Status: models.StatusInProgress, Created: created.Add(time.Hour)},
		{ID: "c", Title: "Write notes", Description: "weekly", Status: models.StatusDone, Created: created.Add(2 * time.Hour)},
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	adapter := New(kv, "", nil)
	ctx := context.Background()

	tasks := sampleTasks()
	if err := adapter.Save(ctx, tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(tasks) {
		t.Fatalf("expected %d tasks, got %d", len(tasks), len(got))
	}
	for i := range tasks {
		if got[i].ID != tasks[i].ID || got[i].Title != tasks[i].Title ||
			got[i].Description != tasks[i].Description || got[i].Status != tasks[i].Status {
			t.Errorf("position %d: expected %+v, got %+v", i, tasks[i], got[i])
		}
		if !got[i].Created.Equal(tasks[i].Created) {
			t.Errorf("position %d: expected created %v, got %v", i, tasks[i].Created, got[i].Created)
		}
	}
}

func TestAdapter_UsesDefaultKey(t *testing.T) {
	kv := store.NewMemoryStore()
	adapter := New(kv, "", nil)
	if adapter.Key() != DefaultKey {
		t.Fatalf("expected key %q, got %q", DefaultKey, adapter.Key())
	}

	if err := adapter.Save(context.Background(), sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, found, _ := kv.Get(context.Background(), "taskItems"); !found {
		t.Error("expected collection under taskItems")
	}
}

func TestAdapter_SerializedLayout(t *testing.T) {
	raw, err := Encode(sampleTasks()[:1])
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	expected := `[{"id":"a","title":"Buy milk","description":"","status":"backlog","created":"2026-10-01T09:30:00.123Z"}]`
	if raw != expected {
		t.Errorf("unexpected layout:\n got: %s\nwant: %s", raw, expected)
	}
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	raw, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if raw != "[]" {
		t.Errorf("expected [], got %s", raw)
	}
}

func TestDecode_BrowserWrittenCollection(t *testing.T) {
	raw := `[{"id":"1718000000000","title":"From browser","description":"x","status":"todo","created":"2024-06-10T06:13:20.000Z"}]`

	tasks, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Status != models.StatusTodo {
		t.Errorf("expected status todo, got %q", tasks[0].Status)
	}
	want := time.Date(2024, time.June, 10, 6, 13, 20, 0, time.UTC)
	if !tasks[0].Created.Equal(want) {
		t.Errorf("expected created %v, got %v", want, tasks[0].Created)
	}
}

func TestAdapter_LoadDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		kv    store.Store
		setup func(kv store.Store)
	}{
		{
			name: "absent key",
			kv:   store.NewMemoryStore(),
		},
		{
			name: "unparsable content",
			kv:   store.NewMemoryStore(),
			setup: func(kv store.Store) {
				kv.Set(context.Background(), DefaultKey, "{not json")
			},
		},
		{
			name: "wrong shape",
			kv:   store.NewMemoryStore(),
			setup: func(kv store.Store) {
				kv.Set(context.Background(), DefaultKey, `{"id":"1"}`)
			},
		},
		{
			name: "json null",
			kv:   store.NewMemoryStore(),
			setup: func(kv store.Store) {
				kv.Set(context.Background(), DefaultKey, "null")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(tt.kv)
			}
			got, err := New(tt.kv, "", nil).Load(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil empty collection")
			}
			if len(got) != 0 {
				t.Errorf("expected empty collection, got %d tasks", len(got))
			}
		})
	}
}

func TestAdapter_LoadReturnsReadError(t *testing.T) {
	boom := errors.New("disk on fire")

	got, err := New(&failingStore{getErr: boom}, "", nil).Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no tasks on read error, got %d", len(got))
	}
}

func TestEncode_InvalidUTF8StaysValidJSON(t *testing.T) {
	tasks := []models.Task{{
		ID:      "a",
		Title:   "bad\xffutf8",
		Status:  models.StatusBacklog,
		Created: time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	}}

	raw, err := Encode(tasks)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !utf8.ValidString(raw) {
		t.Fatalf("encoded collection is not valid UTF-8: %q", raw)
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded[0].Title != "bad\uFFFDutf8" {
		t.Errorf("expected replacement character, got %q", decoded[0].Title)
	}
}

func TestAdapter_LoadLogsUnparsableContent(t *testing.T) {
	logger, hook := test.NewNullLogger()
	kv := store.NewMemoryStore()
	kv.Set(context.Background(), DefaultKey, "garbage")

	New(kv, "", logger).Load(context.Background())

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != log.WarnLevel {
		t.Errorf("expected warn level, got %s", entry.Level)
	}
	if entry.Data["key"] != DefaultKey {
		t.Errorf("expected key field %q, got %v", DefaultKey, entry.Data["key"])
	}
}

func TestAdapter_SaveReturnsStoreError(t *testing.T) {
	boom := errors.New("quota exceeded")
	adapter := New(&failingStore{setErr: boom}, "", nil)

	err := adapter.Save(context.Background(), sampleTasks())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestExport_Formats(t *testing.T) {
	tasks := sampleTasks()

	var jsonBuf bytes.Buffer
	if err := Export(&jsonBuf, tasks, FormatJSON); err != nil {
		t.Fatalf("json export failed: %v", err)
	}
	decoded, err := Decode(jsonBuf.String())
	if err != nil {
		t.Fatalf("exported json does not decode: %v", err)
	}
	ids := make([]string, 0, len(decoded))
	for _, task := range decoded {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Errorf("unexpected exported order %v", ids)
	}

	var yamlBuf bytes.Buffer
	if err := Export(&yamlBuf, tasks, FormatYAML); err != nil {
		t.Fatalf("yaml export failed: %v", err)
	}
	out := yamlBuf.String()
	if !strings.Contains(out, "title: Ship release") || !strings.Contains(out, "status: inprogress") {
		t.Errorf("unexpected yaml export:\n%s", out)
	}

	if err := Export(&bytes.Buffer{}, tasks, "csv"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
