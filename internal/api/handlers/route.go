package handlers

import (
	"delivery-tracker/internal/api/dto"
	"delivery-tracker/internal/notify"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"net/http"
)

// RouteHandler exposes the active route summary.
type RouteHandler struct {
	Route   *state.ActiveRoute
	Surface ports.MapSurface
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	route, ok := h.Route.Get()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no active route")
		return
	}

	res := dto.RouteView{
		ID:     route.ID,
		Name:   route.Name,
		Status: string(route.Status),
		Legs:   len(route.Legs),
		Steps:  route.StepCount(),
	}
	if u, err := h.Surface.NavigationURL(route); err == nil {
		res.NavigationURL = u
	}

	writeJSON(w, r, http.StatusOK, res)
}

// NotesHandler lists recent driver notifications.
type NotesHandler struct {
	Notes *notify.Recorder
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	notes := h.Notes.Notes()
	res := dto.ListNotesResponse{Notes: make([]dto.NoteView, 0, len(notes))}
	for _, n := range notes {
		res.Notes = append(res.Notes, dto.NoteView{
			Kind:     n.Kind,
			Severity: string(n.Severity),
			Title:    n.Title,
			Message:  n.Message,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
