package domain

import "slices"

// Stage is the progression view of a package within an active route.
type Stage string

const (
	StagePending   Stage = "PENDING"
	StageEnRoute   Stage = "EN_ROUTE"
	StageDelivered Stage = "DELIVERED"
)

// NextIndex returns the index of the next stop: the first package that is
// not delivered yet. It returns -1 when every package is delivered.
func NextIndex(pkgs []Package) int {
	for i := range pkgs {
		if !pkgs[i].Delivered() {
			return i
		}
	}
	return -1
}

// Stages derives the progression stage of each package. At most one
// package is EN_ROUTE at a time.
func Stages(pkgs []Package) []Stage {
	next := NextIndex(pkgs)
	out := make([]Stage, len(pkgs))
	for i := range pkgs {
		switch {
		case pkgs[i].Delivered():
			out[i] = StageDelivered
		case i == next:
			out[i] = StageEnRoute
		default:
			out[i] = StagePending
		}
	}
	return out
}

// SortByLegs orders packages to follow the legs of the route, matching each
// package destination against leg ends at two decimals.
//
// Packages that match no leg go after every matched package and keep their
// relative order. The sort is stable, so re-sorting a sorted list is a no-op.
func SortByLegs(pkgs []Package, route *Route) {
	if route == nil || len(pkgs) < 2 {
		return
	}

	unmatched := len(route.Legs)
	rank := func(p Package) int {
		if i := route.LegIndex(p.Destination); i >= 0 {
			return i
		}
		return unmatched
	}

	slices.SortStableFunc(pkgs, func(a, b Package) int {
		return rank(a) - rank(b)
	})
}
