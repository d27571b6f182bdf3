package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BeginDrag records a card as the session's drag source.
func (h *Handlers) BeginDrag(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)

	task, ok := h.store.Task(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}

	c.BeginDrag(task)
	w.WriteHeader(http.StatusNoContent)
}

// CancelDrag abandons the current drag.
func (h *Handlers) CancelDrag(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	c.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

// Drop moves the drag source into the target column.
func (h *Handlers) Drop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := h.controller(w, r)

	status, err := parseStatus(r, "status")
	if err != nil {
		c.CancelDrag()
		respondError(w, http.StatusBadRequest, "invalid column")
		return
	}

	if _, err := c.Drop(ctx, status); err != nil {
		respondServerError(w, err)
		return
	}

	h.renderBoard(w, http.StatusOK, c)
}
