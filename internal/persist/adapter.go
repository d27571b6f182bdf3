// Package persist mirrors the task collection to a key-value store as a
// single JSON document.
package persist

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/models"
	"taskboard/internal/store"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "taskItems"

// Adapter reads and writes the whole task collection under one key.
type Adapter struct {
	kv     store.Store
	key    string
	logger log.FieldLogger
}

// New creates an Adapter. An empty key selects DefaultKey.
func New(kv store.Store, key string, logger log.FieldLogger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Adapter{kv: kv, key: key, logger: logger.WithField("key", key)}
}

// Key returns the storage key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored collection. A missing key and content that does
// not parse yield an empty collection. A failed read is an error.
func (a *Adapter) Load(ctx context.Context) ([]models.Task, error) {
	raw, found, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read task collection: %w", err)
	}
	if !found {
		a.logger.Debug("no stored task collection")
		return []models.Task{}, nil
	}

	tasks, err := Decode(raw)
	if err != nil {
		a.logger.WithError(err).Warn("stored task collection is unparsable, starting empty")
		return []models.Task{}, nil
	}
	return tasks, nil
}

// Save serializes the full collection and writes it under the key.
func (a *Adapter) Save(ctx context.Context, tasks []models.Task) error {
	raw, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, raw); err != nil {
		return fmt.Errorf("failed to save task collection: %w", err)
	}
	return nil
}

// Encode renders tasks as a JSON array. A nil slice encodes as [] and
// invalid UTF-8 is replaced so the text stays valid JSON.
func Encode(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	raw, err := sonic.ConfigStd.MarshalToString(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode task collection: %w", err)
	}
	return raw, nil
}

// Decode parses a JSON array produced by Encode or by the browser board.
// A JSON null decodes as an empty collection.
func Decode(raw string) ([]models.Task, error) {
	var tasks []models.Task
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task collection: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
