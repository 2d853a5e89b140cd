package handlers

import (
	"delivery-tracker/internal/state"
	"net/http"
)

// HealthHandler reports liveness plus whether a route is loaded.
type HealthHandler struct {
	Route *state.ActiveRoute
	Book  *state.PackageBook
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	_, active := h.Route.Get()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":       "ok",
		"route_loaded": active,
		"packages":     h.Book.Len(),
	})
}
