package deliveryapi

import (
	"context"
	"delivery-tracker/internal/api/dto"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/httpx"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (_ ports.DriverSession, err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.login")(&err)

	var out dto.LoginResponse
	err = c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/driver",
		body:   dto.LoginRequest{Email: creds.Email, Password: creds.Password},
		out:    &out,
	})
	if err != nil {
		if httpx.HasStatus(err, http.StatusUnauthorized) {
			return ports.DriverSession{}, fmt.Errorf("login: %w: %w", ports.ErrUnauthorized, err)
		}
		return ports.DriverSession{}, fmt.Errorf("login: %w", err)
	}
	if out.AccessToken == "" {
		return ports.DriverSession{}, errors.New("login: response carries no access token")
	}

	return ports.DriverSession{
		AccessToken: out.AccessToken,
		Name:        out.Name,
		DriverID:    out.ID,
	}, nil
}

func (c *Client) GetPackage(ctx context.Context, packageID string) (_ domain.Package, err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.getPackage")(&err)

	var out dto.PackageResponse
	err = c.do(ctx, call{
		method: http.MethodGet,
		path:   "/package/" + url.PathEscape(packageID),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return domain.Package{}, fmt.Errorf("get package %s: %w", packageID, err)
	}
	return out.ToDomain(), nil
}

func (c *Client) AssociateDriver(
	ctx context.Context,
	driverID string,
	packageIDs []string,
	at domain.Coordinates,
) (err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.associateDriver")(&err)

	err = c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/package/associate-driver",
		body: dto.AssociateDriverRequest{
			DriverID:   driverID,
			PackageIDs: packageIDs,
			Localizacao: dto.Location{
				Latitude:  strconv.FormatFloat(at.Lat, 'f', -1, 64),
				Longitude: strconv.FormatFloat(at.Lng, 'f', -1, 64),
			},
		},
		auth: true,
	})
	if err != nil {
		return fmt.Errorf("associate %d packages with driver %s: %w", len(packageIDs), driverID, err)
	}
	return nil
}

func (c *Client) RoutePackages(ctx context.Context, driverID, routeID string) (_ []domain.Package, err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.routePackages")(&err)

	var out []dto.PackageResponse
	err = c.do(ctx, call{
		method: http.MethodGet,
		path:   "/package/driver/" + url.PathEscape(driverID) + "/route/" + url.PathEscape(routeID),
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("list packages of route %s: %w", routeID, err)
	}

	pkgs := make([]domain.Package, 0, len(out))
	for _, p := range out {
		pkgs = append(pkgs, p.ToDomain())
	}
	return pkgs, nil
}

func (c *Client) FinishDelivery(ctx context.Context, packageID string) (err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.finishDelivery")(&err)

	err = c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/package/" + url.PathEscape(packageID) + "/finish-delivery",
		auth:   true,
	})
	if err != nil {
		return fmt.Errorf("finish delivery of package %s: %w", packageID, err)
	}
	return nil
}

func (c *Client) CreateRoute(
	ctx context.Context,
	driverID string,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.createRoute")(&err)

	req := dto.CreateRouteRequest{
		DriverID: driverID,
		Origem:   dto.NewLatLng(origin),
		Destinos: make([]dto.LatLng, 0, len(destinations)),
	}
	for _, d := range destinations {
		req.Destinos = append(req.Destinos, dto.NewLatLng(d))
	}

	err = c.do(ctx, call{
		method: http.MethodPost,
		path:   "/routes",
		body:   req,
		auth:   true,
	})
	if err != nil {
		return fmt.Errorf("create route for driver %s: %w", driverID, err)
	}
	return nil
}

func (c *Client) ActiveRoute(ctx context.Context, driverID string) (_ domain.Route, err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.activeRoute")(&err)

	var out *dto.RouteResponse
	err = c.do(ctx, call{
		method: http.MethodGet,
		path:   "/routes/active/" + url.PathEscape(driverID),
		out:    &out,
		auth:   true,
	})
	switch {
	case httpx.HasStatus(err, http.StatusNotFound):
		return domain.Route{}, fmt.Errorf("active route of driver %s: %w", driverID, ports.ErrNoActiveRoute)
	case err != nil && errors.Is(err, io.EOF):
		return domain.Route{}, fmt.Errorf("active route of driver %s: %w", driverID, ports.ErrNoActiveRoute)
	case err != nil:
		return domain.Route{}, fmt.Errorf("active route of driver %s: %w", driverID, err)
	case out == nil || out.ID == "":
		return domain.Route{}, fmt.Errorf("active route of driver %s: %w", driverID, ports.ErrNoActiveRoute)
	}

	return out.ToDomain(), nil
}

func (c *Client) FinishRoute(ctx context.Context, routeID string) (err error) {
	ctx = obs.WithRequestID(ctx)
	defer obs.Time(ctx, "api.finishRoute")(&err)

	err = c.do(ctx, call{
		method: http.MethodPatch,
		path:   "/routes/" + url.PathEscape(routeID),
		auth:   true,
	})
	if err != nil {
		return fmt.Errorf("finish route %s: %w", routeID, err)
	}
	return nil
}
