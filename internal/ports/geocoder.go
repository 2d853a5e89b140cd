package ports

import (
	"context"
	"delivery-tracker/internal/domain"
)

// Contract for resolving coordinates to a human readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error)
}

// AddressCache stores reverse geocoding results by coordinate key.
type AddressCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	PutMany(ctx context.Context, addresses map[string]string) error
}
