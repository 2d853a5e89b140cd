package domain

// RouteStatus is the lifecycle state of a delivery run.
type RouteStatus string

const (
	RoutePlanned   RouteStatus = "PLANNED"
	RouteActive    RouteStatus = "ACTIVE"
	RouteCompleted RouteStatus = "COMPLETED"
)

// ParseRouteStatus maps a backend status string onto a RouteStatus.
// Unknown values report ok=false.
func ParseRouteStatus(s string) (RouteStatus, bool) {
	switch RouteStatus(s) {
	case RoutePlanned, RouteActive, RouteCompleted:
		return RouteStatus(s), true
	}
	return "", false
}

// Represents one sub-segment of a leg; the unit of simulated movement.
type Step struct {
	Start Coordinates
	End   Coordinates
}

// Represents one origin-to-stop segment of a multi-stop route.
type Leg struct {
	Start Coordinates
	End   Coordinates
	Steps []Step
}

// Represents the full multi-stop path assigned to one driver for one delivery run.
// Legs are traversed in slice order, and steps within a leg in slice order.
type Route struct {
	ID          string
	Name        string
	Source      Coordinates
	Destination Coordinates
	Legs        []Leg
	Status      RouteStatus
	DriverID    string
}

// StepCount returns the number of steps across all legs.
func (r *Route) StepCount() int {
	n := 0
	for _, leg := range r.Legs {
		n += len(leg.Steps)
	}
	return n
}

// LegIndex returns the index of the first leg whose end matches c at two
// decimals, or -1.
func (r *Route) LegIndex(c Coordinates) int {
	key := c.Key2()
	for i, leg := range r.Legs {
		if leg.End.Key2() == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	out := r
	out.Legs = make([]Leg, len(r.Legs))
	for i, leg := range r.Legs {
		out.Legs[i] = leg
		out.Legs[i].Steps = append([]Step(nil), leg.Steps...)
	}
	return out
}
