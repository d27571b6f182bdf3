package models

// Status identifies the column a task sits in.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// Column describes one fixed column of the board.
type Column struct {
	ID    Status
	Title string
	Color string
}

var columns = []Column{
	{ID: StatusBacklog, Title: "Backlog", Color: "#718096"},
	{ID: StatusTodo, Title: "To-Do", Color: "#4299e1"},
	{ID: StatusInProgress, Title: "In Progress", Color: "#ed8936"},
	{ID: StatusDone, Title: "Done", Color: "#48bb78"},
}

// Columns returns the board layout in display order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// Valid reports whether s is one of the board's columns.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus converts a column id into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}
