package services

import (
	"context"
	"errors"
)

var (
	ErrInvalidCode              = errors.New("scanned code is not a package id")
	ErrAlreadyLinked            = errors.New("package already linked")
	ErrNoPackages               = errors.New("no packages linked")
	ErrLocationPermissionDenied = errors.New("location permission denied")
	ErrNotSignedIn              = errors.New("driver is not signed in")
)

// SessionState is the part of the driver session the flows read and update.
type SessionState interface {
	DriverID(ctx context.Context) (string, error)
	SimulationMode(ctx context.Context) (bool, error)
	SetSimulationMode(ctx context.Context, on bool) error
	SetRouteID(ctx context.Context, routeID string) error
	ClearRouteID(ctx context.Context) error
}

func driverID(ctx context.Context, s SessionState) (string, error) {
	id, err := s.DriverID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrNotSignedIn
	}
	return id, nil
}
