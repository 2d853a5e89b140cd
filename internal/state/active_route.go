package state

import (
	"delivery-tracker/internal/domain"
	"sync"
)

// ActiveRoute holds the driver's current route for the session.
type ActiveRoute struct {
	mu    sync.RWMutex
	route *domain.Route
}

func NewActiveRoute() *ActiveRoute {
	return &ActiveRoute{}
}

// Set replaces the active route with a copy of r.
func (a *ActiveRoute) Set(r domain.Route) {
	c := r.Clone()

	a.mu.Lock()
	a.route = &c
	a.mu.Unlock()
}

// Get returns a copy of the active route.
func (a *ActiveRoute) Get() (domain.Route, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.route == nil {
		return domain.Route{}, false
	}
	return a.route.Clone(), true
}

func (a *ActiveRoute) Clear() {
	a.mu.Lock()
	a.route = nil
	a.mu.Unlock()
}
