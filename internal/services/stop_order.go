package services

import (
	"delivery-tracker/internal/domain"
	"math"
)

// NearestNeighborStops orders destinations for route creation with a greedy
// nearest-neighbor walk from origin by great-circle distance. Packages
// sharing a destination (at two decimals) become one stop.
//
// The walk does not attempt global optimization; ties go to the stop that
// was linked first, so the result is deterministic.
func NearestNeighborStops(origin domain.Coordinates, pkgs []domain.Package) []domain.Coordinates {
	if len(pkgs) == 0 {
		return []domain.Coordinates{}
	}

	seen := make(map[string]struct{}, len(pkgs))
	remaining := make([]domain.Coordinates, 0, len(pkgs))
	for _, p := range pkgs {
		key := p.Destination.Key2()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		remaining = append(remaining, p.Destination)
	}

	stops := make([]domain.Coordinates, 0, len(remaining))
	current := origin

	for len(remaining) > 0 {
		best := -1
		minDistance := math.MaxFloat64

		for i, d := range remaining {
			if dist := domain.DistanceMeters(current, d); dist < minDistance {
				minDistance = dist
				best = i
			}
		}

		// Non-finite coordinates compare false against everything.
		if best < 0 {
			stops = append(stops, remaining...)
			break
		}

		current = remaining[best]
		stops = append(stops, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return stops
}
