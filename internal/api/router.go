package api

import (
	"delivery-tracker/internal/api/handlers"
	"delivery-tracker/internal/notify"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"net/http"
)

// NewRouter wires the read-only status handlers over the session state.
func NewRouter(
	book *state.PackageBook,
	route *state.ActiveRoute,
	surface ports.MapSurface,
	notes *notify.Recorder,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Route: route, Book: book}
	pkgHandler := &handlers.PackageHandler{Book: book}
	routeHandler := &handlers.RouteHandler{Route: route, Surface: surface}
	notesHandler := &handlers.NotesHandler{Notes: notes}

	mux.HandleFunc("/health", healthHandler.Get)
	mux.HandleFunc("/packages", pkgHandler.List)
	mux.HandleFunc("/route", routeHandler.Get)
	mux.HandleFunc("/notifications", notesHandler.List)

	return loggingMiddleware(mux)
}
