package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"errors"
	"fmt"
)

// Starter hands the linked packages to the driver and asks the backend
// for a route through every destination, nearest stop first.
type Starter struct {
	api       ports.DeliveryAPI
	book      *state.PackageBook
	session   SessionState
	location  ports.LocationProvider
	simOrigin domain.Coordinates
	notifier  ports.Notifier
}

func NewStarter(
	api ports.DeliveryAPI,
	book *state.PackageBook,
	session SessionState,
	location ports.LocationProvider,
	simOrigin domain.Coordinates,
	notifier ports.Notifier,
) *Starter {
	return &Starter{
		api:       api,
		book:      book,
		session:   session,
		location:  location,
		simOrigin: simOrigin,
		notifier:  notifier,
	}
}

func (s *Starter) Start(ctx context.Context) error {
	pkgs := s.book.Snapshot()
	if len(pkgs) == 0 {
		s.notifier.Toast(ports.SeverityWarning, "Scan at least one package first.")
		return ErrNoPackages
	}

	driver, err := driverID(ctx, s.session)
	if err != nil {
		return fmt.Errorf("start deliveries: %w", err)
	}

	origin, err := s.origin(ctx)
	if err != nil {
		if !errors.Is(err, ErrLocationPermissionDenied) {
			s.notifier.Toast(ports.SeverityError, "Could not read your location.")
		}
		return fmt.Errorf("start deliveries: %w", err)
	}

	ids := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		ids = append(ids, p.ID)
	}
	dests := NearestNeighborStops(origin, pkgs)

	if err := s.api.AssociateDriver(ctx, driver, ids, origin); err != nil {
		s.notifier.Toast(ports.SeverityError, "Could not start deliveries.")
		return fmt.Errorf("start deliveries: %w", err)
	}
	if err := s.api.CreateRoute(ctx, driver, origin, dests); err != nil {
		s.notifier.Toast(ports.SeverityError, "Could not start deliveries.")
		return fmt.Errorf("start deliveries: %w", err)
	}

	s.notifier.Toast(ports.SeveritySuccess, "Deliveries started.")
	return nil
}

// origin is the configured point in simulation mode, the device position
// otherwise.
func (s *Starter) origin(ctx context.Context) (domain.Coordinates, error) {
	sim, err := s.session.SimulationMode(ctx)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if sim {
		return s.simOrigin, nil
	}

	if err := authorizeLocation(ctx, s.location); err != nil {
		if errors.Is(err, ErrLocationPermissionDenied) {
			s.notifier.Toast(ports.SeverityWarning, locationDenied)
		}
		return domain.Coordinates{}, err
	}
	return s.location.CurrentPosition(ctx, ports.AccuracyHigh)
}
