package ports

import "delivery-tracker/internal/domain"

// MapSurface is the embedded map that shows the route and the driver's car.
type MapSurface interface {
	RenderRoute(route domain.Route) error
	MoveMarker(pos domain.Coordinates) error
	// Return a turn-by-turn navigation URL for an external app.
	NavigationURL(route domain.Route) (string, error)
}
