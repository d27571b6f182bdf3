// Package board holds the task collection and the per-session view state
// that drives the kanban board.
package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/models"
)

// Persister loads and saves the full task collection.
type Persister interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
}

// ErrNotLoaded is returned by mutations after Initialize could not read the
// stored collection. Writing then would overwrite the saved board.
var ErrNotLoaded = errors.New("task collection was not loaded")

// Store is the single source of truth for the task list. Every mutation
// writes the whole collection back through the Persister; a failed write
// leaves the collection as it was.
type Store struct {
	mu        sync.Mutex
	persister Persister
	tasks     []models.Task
	newID     func() string
	now       func() time.Time
	logger    log.FieldLogger
	readOnly  bool
}

// Option customizes a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger log.FieldLogger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates an empty Store. Call Initialize to load saved tasks.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		tasks:     []models.Task{},
		newID:     uuid.NewString,
		now:       time.Now,
		logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the in-memory collection with the persisted one.
// Records that break the task invariants are dropped. When the store cannot
// be read the collection stays empty, mutations fail with ErrNotLoaded until
// a later Initialize succeeds, and the read error is returned.
func (s *Store) Initialize(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.readOnly = true
		s.mu.Unlock()
		s.logger.WithError(err).Error("failed to load task collection")
		return err
	}

	tasks := make([]models.Task, 0, len(loaded))
	seen := make(map[string]struct{}, len(loaded))
	for _, task := range loaded {
		if err := task.Validate(); err != nil {
			s.logger.WithError(err).WithField("task_id", task.ID).Warn("dropping invalid stored task")
			continue
		}
		if _, dup := seen[task.ID]; dup {
			s.logger.WithField("task_id", task.ID).Warn("dropping duplicate stored task")
			continue
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.readOnly = false
	s.mu.Unlock()

	s.logger.WithField("count", len(tasks)).Info("task collection loaded")
	return nil
}

// AddTask appends a new backlog task. A blank title is ignored and yields
// a nil task with no error.
func (s *Store) AddTask(ctx context.Context, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          s.uniqueID(),
		Title:       title,
		Description: description,
		Status:      models.StatusBacklog,
		Created:     s.now().UTC().Truncate(time.Millisecond),
	}

	next := make([]models.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, task)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return &task, nil
}

// MoveTask sets the status of the task with the given id. Unknown ids and
// moves to the current status are no-ops.
func (s *Store) MoveTask(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return models.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 || s.tasks[idx].Status == status {
		return nil
	}

	next := make([]models.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx].Status = status

	return s.commit(ctx, next)
}

// DeleteTask removes the task with the given id, if present.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]models.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)

	return s.commit(ctx, next)
}

// CurrentTasks returns a copy of the collection in insertion order.
func (s *Store) CurrentTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, false
	}
	return s.tasks[idx], true
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []models.Task) error {
	if s.readOnly {
		return ErrNotLoaded
	}
	if err := s.persister.Save(ctx, next); err != nil {
		s.logger.WithError(err).Error("failed to persist task collection")
		return err
	}
	s.tasks = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused. Callers hold s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}
