package geocode

import (
	"context"
	"delivery-tracker/internal/domain"
	"fmt"
)

// StaticGeocoder answers from a fixed table keyed by CacheKey.
type StaticGeocoder struct {
	m map[string]string
}

func NewStaticGeocoder(addresses map[domain.Coordinates]string) *StaticGeocoder {
	m := make(map[string]string, len(addresses))
	for c, a := range addresses {
		m[CacheKey(c)] = a
	}
	return &StaticGeocoder{m: m}
}

func (s *StaticGeocoder) ReverseGeocode(_ context.Context, at domain.Coordinates) (string, error) {
	a, ok := s.m[CacheKey(at)]
	if !ok {
		return "", fmt.Errorf("reverse geocode %s: %w", at, ErrNoAddress)
	}
	return a, nil
}

// CoordinateGeocoder renders the coordinates themselves. Used when no
// geocoding provider is configured.
type CoordinateGeocoder struct{}

func (CoordinateGeocoder) ReverseGeocode(_ context.Context, at domain.Coordinates) (string, error) {
	return fmt.Sprintf("%.5f, %.5f", at.Lat, at.Lng), nil
}
