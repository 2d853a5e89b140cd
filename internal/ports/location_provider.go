package ports

import (
	"context"
	"delivery-tracker/internal/domain"
	"time"
)

type Accuracy int

const (
	AccuracyBalanced Accuracy = iota
	AccuracyHigh
)

// WatchOptions configures the sampling of a location subscription.
type WatchOptions struct {
	Accuracy          Accuracy
	MinInterval       time.Duration
	MinDistanceMeters float64
}

// LocationProvider is the device location source.
type LocationProvider interface {
	// Report whether the app may read the device location.
	RequestPermission(ctx context.Context) (bool, error)
	// Return a single current position.
	CurrentPosition(ctx context.Context, accuracy Accuracy) (domain.Coordinates, error)
	// Deliver sampled positions to fn until ctx is cancelled or the source ends.
	// fn is called sequentially in provider order.
	Watch(ctx context.Context, opts WatchOptions, fn func(domain.Coordinates)) error
}
