package dto

import (
	"delivery-tracker/internal/domain"
	"strconv"
	"strings"
)

// LatLng is an outgoing coordinate pair; the backend expects strings.
type LatLng struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

func NewLatLng(c domain.Coordinates) LatLng {
	return LatLng{
		Lat: strconv.FormatFloat(c.Lat, 'f', -1, 64),
		Lng: strconv.FormatFloat(c.Lng, 'f', -1, 64),
	}
}

type CreateRouteRequest struct {
	DriverID string   `json:"idMotorista"`
	Origem   LatLng   `json:"origem"`
	Destinos []LatLng `json:"destinos"`
}

// Point is an incoming coordinate pair, numbers or numeric strings.
type Point struct {
	Lat domain.Degrees `json:"lat"`
	Lng domain.Degrees `json:"lng"`
}

func (p Point) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: float64(p.Lat), Lng: float64(p.Lng)}
}

type StepResponse struct {
	StartLocation Point `json:"start_location"`
	EndLocation   Point `json:"end_location"`
}

type LegResponse struct {
	StartLocation Point          `json:"start_location"`
	EndLocation   Point          `json:"end_location"`
	Steps         []StepResponse `json:"steps"`
}

type DirectionsResponse struct {
	Routes []struct {
		Legs []LegResponse `json:"legs"`
	} `json:"routes"`
}

type RouteDriverResponse struct {
	ID   string `json:"id_Motorista"`
	Nome string `json:"nome"`
}

type RouteResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Source      Point               `json:"source"`
	Destination Point               `json:"destination"`
	Status      string              `json:"status"`
	Directions  DirectionsResponse  `json:"directions"`
	Motorista   RouteDriverResponse `json:"motorista"`
}

// ToDomain maps the first directions alternative onto a domain route.
// A route fetched as "active" with an unknown status is reported ACTIVE.
func (r RouteResponse) ToDomain() domain.Route {
	status, ok := domain.ParseRouteStatus(strings.ToUpper(r.Status))
	if !ok {
		status = domain.RouteActive
	}

	route := domain.Route{
		ID:          r.ID,
		Name:        r.Name,
		Source:      r.Source.Coordinates(),
		Destination: r.Destination.Coordinates(),
		Status:      status,
		DriverID:    r.Motorista.ID,
	}

	if len(r.Directions.Routes) == 0 {
		return route
	}

	legs := r.Directions.Routes[0].Legs
	route.Legs = make([]domain.Leg, 0, len(legs))
	for _, l := range legs {
		leg := domain.Leg{
			Start: l.StartLocation.Coordinates(),
			End:   l.EndLocation.Coordinates(),
			Steps: make([]domain.Step, 0, len(l.Steps)),
		}
		for _, s := range l.Steps {
			leg.Steps = append(leg.Steps, domain.Step{
				Start: s.StartLocation.Coordinates(),
				End:   s.EndLocation.Coordinates(),
			})
		}
		route.Legs = append(route.Legs, leg)
	}
	return route
}
