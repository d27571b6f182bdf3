package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/models"
)

// ListTasks returns the whole collection as JSON.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.CurrentTasks())
}

// CreateTask creates a new backlog task from the creation form.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := h.controller(w, r)

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	_, err := c.SubmitForm(ctx, r.FormValue("title"), r.FormValue("description"))
	if errors.Is(err, models.ErrTitleRequired) {
		h.renderBoard(w, http.StatusBadRequest, c)
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}

	h.renderBoard(w, http.StatusOK, c)
}

// MoveTask sets the status of a task from the "status" form value.
func (h *Handlers) MoveTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := h.controller(w, r)

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	status, err := models.ParseStatus(r.FormValue("status"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.MoveTask(ctx, chi.URLParam(r, "id"), status); err != nil {
		respondServerError(w, err)
		return
	}

	h.renderBoard(w, http.StatusOK, c)
}

// requestConfirmer treats a delete as confirmed when the client sent
// confirm=true, which the page does after the browser prompt.
type requestConfirmer struct {
	r *http.Request
}

func (rc requestConfirmer) Confirm(_ context.Context, _ string) bool {
	return rc.r.FormValue("confirm") == "true" || rc.r.Header.Get("HX-Prompt-Confirmed") == "true"
}

// DeleteTask deletes a task after confirmation.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := h.controller(w, r)

	deleted, err := c.Delete(ctx, chi.URLParam(r, "id"), requestConfirmer{r: r})
	if err != nil {
		respondServerError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusConflict, "delete not confirmed")
		return
	}

	h.renderBoard(w, http.StatusOK, c)
}

// ToggleDescription expands or collapses a card's description.
func (h *Handlers) ToggleDescription(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	c.ToggleDescription(chi.URLParam(r, "id"))
	h.renderBoard(w, http.StatusOK, c)
}
