package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// PreviewLength is the number of characters of a description shown on a collapsed card.
const PreviewLength = 80

var (
	// ErrTitleRequired is returned when a task is submitted without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned for a status outside the board's columns.
	ErrInvalidStatus = errors.New("status must be 'backlog', 'todo', 'inprogress', or 'done'")
)

// Task represents a single card on the board.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Status      Status    `json:"status" yaml:"status"`
	Created     time.Time `json:"created" yaml:"created"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is required")
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}

	if !t.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}

// DescriptionPreview returns the collapsed form of the description and whether
// it had to be shortened.
func (t *Task) DescriptionPreview() (string, bool) {
	if utf8.RuneCountInString(t.Description) <= PreviewLength {
		return t.Description, false
	}
	runes := []rune(t.Description)
	return string(runes[:PreviewLength]) + "...", true
}

// CreatedLabel formats the creation date for a card footer in now's time
// zone. The year is omitted for dates in the same year as now.
func (t *Task) CreatedLabel(now time.Time) string {
	created := t.Created.In(now.Location())
	if created.Year() != now.Year() {
		return created.Format("Jan 2, 2006")
	}
	return created.Format("Jan 2")
}
