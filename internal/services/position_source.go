package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
	"time"
)

const (
	// SimulationStepInterval is the pause after every simulated position.
	SimulationStepInterval = 2 * time.Second

	liveMinInterval = 2 * time.Second
	liveMinDistance = 1.0 // meters
)

// EmitFunc receives each position in order.
type EmitFunc func(ctx context.Context, c domain.Coordinates)

// PositionSource produces a timed sequence of driver positions.
type PositionSource interface {
	// Run emits positions until the source is exhausted or ctx is cancelled.
	Run(ctx context.Context, emit EmitFunc) error
}

// Pauser waits between simulated positions.
type Pauser interface {
	Pause(ctx context.Context, d time.Duration) error
}

// TimerPauser sleeps on a timer and wakes early on cancellation.
type TimerPauser struct{}

func (TimerPauser) Pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SimulationSource plays a route back: for every leg, for every step, the
// step start then the step end, each followed by a pause.
type SimulationSource struct {
	route    domain.Route
	pause    Pauser
	interval time.Duration
}

func NewSimulationSource(route domain.Route, pause Pauser) *SimulationSource {
	if pause == nil {
		pause = TimerPauser{}
	}
	return &SimulationSource{
		route:    route.Clone(),
		pause:    pause,
		interval: SimulationStepInterval,
	}
}

func (s *SimulationSource) Run(ctx context.Context, emit EmitFunc) error {
	for _, leg := range s.route.Legs {
		for _, step := range leg.Steps {
			for _, c := range [2]domain.Coordinates{step.Start, step.End} {
				if err := ctx.Err(); err != nil {
					return err
				}
				emit(ctx, c)
				if err := s.pause.Pause(ctx, s.interval); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// LiveSource forwards device positions sampled at high accuracy, at most
// one every two seconds and one per meter moved.
type LiveSource struct {
	provider ports.LocationProvider
	notifier ports.Notifier
	opts     ports.WatchOptions
}

func NewLiveSource(provider ports.LocationProvider, notifier ports.Notifier) *LiveSource {
	return &LiveSource{
		provider: provider,
		notifier: notifier,
		opts: ports.WatchOptions{
			Accuracy:          ports.AccuracyHigh,
			MinInterval:       liveMinInterval,
			MinDistanceMeters: liveMinDistance,
		},
	}
}

func (l *LiveSource) Run(ctx context.Context, emit EmitFunc) error {
	if err := authorizeLocation(ctx, l.provider); err != nil {
		if errors.Is(err, ErrLocationPermissionDenied) {
			l.notifier.Block(liveLocationRequired)
		}
		return err
	}

	err := l.provider.Watch(ctx, l.opts, func(c domain.Coordinates) {
		emit(ctx, c)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return ctxErr
		}
		return fmt.Errorf("live position: %w", err)
	}
	return ctx.Err()
}

const (
	locationDenied       = "Location permission denied. Enable location access to track deliveries."
	liveLocationRequired = "Live tracking needs access to your location. Enable location access or switch to simulation mode."
)

func authorizeLocation(ctx context.Context, provider ports.LocationProvider) error {
	ok, err := provider.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("request location permission: %w", err)
	}
	if !ok {
		return ErrLocationPermissionDenied
	}
	return nil
}
