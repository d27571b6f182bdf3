package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store     board.TaskStore
	templates *template.Template
	sessions  *sessions
	now       func() time.Time
}

// New creates a new Handlers instance.
func New(s board.TaskStore, tmpl *template.Template) *Handlers {
	return &Handlers{
		store:     s,
		templates: tmpl,
		sessions:  newSessions(s, sessionTTL, maxSessions),
		now:       time.Now,
	}
}

// Routes registers the board routes on r.
func (h *Handlers) Routes(r chi.Router) {
	// Page routes
	r.Get("/", h.Board)
	r.Post("/form/open", h.OpenForm)
	r.Post("/form/close", h.CloseForm)

	// Task API routes
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Post("/api/tasks/{id}/move", h.MoveTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	r.Post("/api/tasks/{id}/description", h.ToggleDescription)

	// Drag and drop
	r.Post("/api/tasks/{id}/drag", h.BeginDrag)
	r.Post("/api/drag/cancel", h.CancelDrag)
	r.Post("/api/columns/{status}/drop", h.Drop)
}

// parseStatus extracts a column id from URL parameters.
func parseStatus(r *http.Request, param string) (models.Status, error) {
	return models.ParseStatus(chi.URLParam(r, param))
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.WithError(err).Error("internal server error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		respondServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func (h *Handlers) render(w http.ResponseWriter, code int, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.WithError(err).WithField("template", name).Error("failed to render template")
	}
}

// renderTemplate renders a full page.
func (h *Handlers) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.render(w, http.StatusOK, name, data)
}

// renderPartial renders a partial template (for htmx responses).
func (h *Handlers) renderPartial(w http.ResponseWriter, code int, name string, data interface{}) {
	h.render(w, code, name, data)
}
