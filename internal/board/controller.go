package board

import (
	"context"
	"iter"
	"strings"
	"sync"

	"taskboard/internal/models"
)

const (
	// DeletePrompt is shown before a task is deleted.
	DeletePrompt = "Delete this task? This cannot be undone."
	// TitleRequiredMessage is shown on the creation form for a blank title.
	TitleRequiredMessage = "Task title is required"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// TaskStore is the part of Store the controller depends on.
type TaskStore interface {
	CurrentTasks() []models.Task
	Task(id string) (models.Task, bool)
	AddTask(ctx context.Context, title, description string) (*models.Task, error)
	MoveTask(ctx context.Context, id string, status models.Status) error
	DeleteTask(ctx context.Context, id string) error
}

// ColumnState is one rendered column.
type ColumnState struct {
	models.Column
	Tasks []models.Task
}

// Count returns the number of tasks in the column.
func (c ColumnState) Count() int {
	return len(c.Tasks)
}

// Controller holds the transient view state of one board session: the task
// being dragged, whether the creation form is open and which cards show
// their full description. Task data stays in the TaskStore.
type Controller struct {
	store TaskStore

	mu        sync.Mutex
	dragging  *models.Task
	formOpen  bool
	formError string
	expanded  map[string]bool
}

// NewController creates a controller in the Idle state with the form closed.
func NewController(store TaskStore) *Controller {
	return &Controller{
		store:    store,
		expanded: make(map[string]bool),
	}
}

// ColumnView yields the tasks in the given column in collection order.
// It reads the store each time it is ranged over.
func (c *Controller) ColumnView(status models.Status) iter.Seq[models.Task] {
	return func(yield func(models.Task) bool) {
		for _, task := range c.store.CurrentTasks() {
			if task.Status != status {
				continue
			}
			if !yield(task) {
				return
			}
		}
	}
}

// Board returns every column with its tasks, in display order.
func (c *Controller) Board() []ColumnState {
	tasks := c.store.CurrentTasks()
	cols := models.Columns()

	out := make([]ColumnState, 0, len(cols))
	for _, col := range cols {
		state := ColumnState{Column: col, Tasks: []models.Task{}}
		for _, task := range tasks {
			if task.Status == col.ID {
				state.Tasks = append(state.Tasks, task)
			}
		}
		out = append(out, state)
	}
	return out
}

// BeginDrag records task as the drag source.
func (c *Controller) BeginDrag(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = &task
}

// CancelDrag returns to Idle without moving anything.
func (c *Controller) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = nil
}

// Dragging returns the current drag source, if any.
func (c *Controller) Dragging() (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging == nil {
		return models.Task{}, false
	}
	return *c.dragging, true
}

// Drop moves the drag source into target when it sits in another column.
// The drag source is cleared whatever the outcome.
func (c *Controller) Drop(ctx context.Context, target models.Status) (bool, error) {
	c.mu.Lock()
	source := c.dragging
	c.dragging = nil
	c.mu.Unlock()

	if source == nil {
		return false, nil
	}
	if !target.Valid() {
		return false, models.ErrInvalidStatus
	}

	current, ok := c.store.Task(source.ID)
	if !ok || current.Status == target {
		return false, nil
	}

	if err := c.store.MoveTask(ctx, source.ID, target); err != nil {
		return false, err
	}
	return true, nil
}

// OpenCreationForm shows the creation form.
func (c *Controller) OpenCreationForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formOpen = true
}

// CloseCreationForm hides the creation form and clears its message.
func (c *Controller) CloseCreationForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formOpen = false
	c.formError = ""
}

func (c *Controller) FormOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formOpen
}

func (c *Controller) FormError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formError
}

// SubmitForm creates a task from the creation form. A blank title keeps the
// form open with a message and returns models.ErrTitleRequired.
func (c *Controller) SubmitForm(ctx context.Context, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		c.mu.Lock()
		c.formOpen = true
		c.formError = TitleRequiredMessage
		c.mu.Unlock()
		return nil, models.ErrTitleRequired
	}

	task, err := c.store.AddTask(ctx, title, description)
	if err != nil {
		return nil, err
	}

	c.CloseCreationForm()
	return task, nil
}

// ToggleDescription flips between the preview and the full description.
func (c *Controller) ToggleDescription(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expanded[id] {
		delete(c.expanded, id)
		return
	}
	c.expanded[id] = true
}

func (c *Controller) DescriptionExpanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[id]
}

// Delete removes a task once the confirmer agrees. It reports whether the
// deletion was confirmed.
func (c *Controller) Delete(ctx context.Context, id string, confirmer Confirmer) (bool, error) {
	if !confirmer.Confirm(ctx, DeletePrompt) {
		return false, nil
	}

	if err := c.store.DeleteTask(ctx, id); err != nil {
		return false, err
	}

	c.mu.Lock()
	delete(c.expanded, id)
	if c.dragging != nil && c.dragging.ID == id {
		c.dragging = nil
	}
	c.mu.Unlock()
	return true, nil
}
