package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AddressNotFound is shown for packages whose address could not be resolved.
const AddressNotFound = "address not found"

// Loader fetches the driver's active route and its packages.
type Loader struct {
	api      ports.DeliveryAPI
	route    *state.ActiveRoute
	book     *state.PackageBook
	session  SessionState
	surface  ports.MapSurface
	geocoder ports.Geocoder
}

func NewLoader(
	api ports.DeliveryAPI,
	route *state.ActiveRoute,
	book *state.PackageBook,
	session SessionState,
	surface ports.MapSurface,
	geocoder ports.Geocoder,
) *Loader {
	return &Loader{
		api:      api,
		route:    route,
		book:     book,
		session:  session,
		surface:  surface,
		geocoder: geocoder,
	}
}

// Load makes the backend's active route the session route and orders the
// packages along it. Packages are only fetched when the list is empty.
func (l *Loader) Load(ctx context.Context) (domain.Route, error) {
	driver, err := driverID(ctx, l.session)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: %w", err)
	}

	route, err := l.api.ActiveRoute(ctx, driver)
	if err != nil {
		return domain.Route{}, fmt.Errorf("load route: %w", err)
	}

	l.route.Set(route)
	if err := l.session.SetRouteID(ctx, route.ID); err != nil {
		logrus.WithError(err).Warn("store route id")
	}
	if err := l.surface.RenderRoute(route); err != nil {
		logrus.WithError(err).Warn("render route")
	}

	if l.book.Len() > 0 {
		l.book.SortByLegs(&route)
		return route, nil
	}

	owner := route.DriverID
	if owner == "" {
		owner = driver
	}
	pkgs, err := l.api.RoutePackages(ctx, owner, route.ID)
	if err != nil {
		return route, fmt.Errorf("load route packages: %w", err)
	}

	domain.SortByLegs(pkgs, &route)
	l.book.Replace(pkgs)

	logrus.WithFields(logrus.Fields{
		"route_id": route.ID,
		"legs":     len(route.Legs),
		"packages": len(pkgs),
	}).Info("route loaded")
	return route, nil
}

// PackageAddress pairs a package with its resolved address.
type PackageAddress struct {
	Package domain.Package
	Stage   domain.Stage
	Address string
}

// Addresses resolves the destination of every package, in list order.
func (l *Loader) Addresses(ctx context.Context) []PackageAddress {
	pkgs := l.book.Snapshot()
	stages := domain.Stages(pkgs)

	out := make([]PackageAddress, 0, len(pkgs))
	for i, p := range pkgs {
		addr, err := l.geocoder.ReverseGeocode(ctx, p.Destination)
		if err != nil {
			logrus.WithError(err).WithField("package_id", p.ID).Debug("reverse geocode")
			addr = AddressNotFound
		}
		out = append(out, PackageAddress{Package: p, Stage: stages[i], Address: addr})
	}
	return out
}
