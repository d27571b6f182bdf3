package handlers

import (
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

// BoardData holds data for the board page and its partials.
type BoardData struct {
	Title     string
	Columns   []ColumnData
	FormOpen  bool
	FormError string
	Dragging  string // id of the card being dragged, if any
}

// ColumnData is one column as rendered.
type ColumnData struct {
	models.Column
	Count int
	Cards []CardData
}

// CardData is one task card as rendered.
type CardData struct {
	models.Task
	Preview   string
	Truncated bool
	Expanded  bool
	Added     string // creation date label
}

func (h *Handlers) boardData(c *board.Controller) BoardData {
	now := h.now()

	cols := c.Board()
	data := BoardData{
		Title:     "My Task Board",
		Columns:   make([]ColumnData, 0, len(cols)),
		FormOpen:  c.FormOpen(),
		FormError: c.FormError(),
	}
	if dragged, ok := c.Dragging(); ok {
		data.Dragging = dragged.ID
	}

	for _, col := range cols {
		cd := ColumnData{Column: col.Column, Count: col.Count(), Cards: make([]CardData, 0, col.Count())}
		for _, task := range col.Tasks {
			preview, truncated := task.DescriptionPreview()
			cd.Cards = append(cd.Cards, CardData{
				Task:      task,
				Preview:   preview,
				Truncated: truncated,
				Expanded:  c.DescriptionExpanded(task.ID),
				Added:     task.CreatedLabel(now),
			})
		}
		data.Columns = append(data.Columns, cd)
	}

	return data
}

// Board renders the full board page.
func (h *Handlers) Board(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	h.renderTemplate(w, "board.html", h.boardData(c))
}

// renderBoard answers an htmx action with the refreshed board.
func (h *Handlers) renderBoard(w http.ResponseWriter, code int, c *board.Controller) {
	h.renderPartial(w, code, "board_content.html", h.boardData(c))
}

// OpenForm shows the task creation form.
func (h *Handlers) OpenForm(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	c.OpenCreationForm()
	h.renderBoard(w, http.StatusOK, c)
}

// CloseForm hides the task creation form.
func (h *Handlers) CloseForm(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	c.CloseCreationForm()
	h.renderBoard(w, http.StatusOK, c)
}
