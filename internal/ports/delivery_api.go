package ports

import (
	"context"
	"delivery-tracker/internal/domain"
	"errors"
)

var (
	// ErrUnauthorized is returned when the API rejects the stored access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoActiveRoute is returned when the driver has no active route.
	ErrNoActiveRoute = errors.New("no active route")
)

// Credentials submitted by a driver at login.
type Credentials struct {
	Email    string
	Password string
}

// DriverSession is the result of a successful driver login.
type DriverSession struct {
	AccessToken string
	Name        string
	DriverID    string
}

// Contract for authenticating drivers against the delivery API.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (DriverSession, error)
}

// Contract for package lookup and driver association.
type PackageAPI interface {
	// Return a single package by identifier.
	GetPackage(ctx context.Context, packageID string) (domain.Package, error)
	// Link packages to a driver at the driver's current location.
	AssociateDriver(ctx context.Context, driverID string, packageIDs []string, at domain.Coordinates) error
	// Return the packages of one route assigned to a driver.
	RoutePackages(ctx context.Context, driverID string, routeID string) ([]domain.Package, error)
	// Mark one package as delivered.
	FinishDelivery(ctx context.Context, packageID string) error
}

// Contract for route creation, lookup and completion.
type RouteAPI interface {
	// Request a multi-stop route from origin through every destination.
	CreateRoute(ctx context.Context, driverID string, origin domain.Coordinates, destinations []domain.Coordinates) error
	// Return the active route of a driver, or ErrNoActiveRoute.
	ActiveRoute(ctx context.Context, driverID string) (domain.Route, error)
	// Mark a route as finished.
	FinishRoute(ctx context.Context, routeID string) error
}

// DeliveryAPI is the full remote HTTP API consumed by the driver client.
type DeliveryAPI interface {
	AuthAPI
	PackageAPI
	RouteAPI
}
