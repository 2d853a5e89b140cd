package mapview

import (
	"delivery-tracker/internal/domain"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const navigationBaseURL = "https://www.google.com/maps/dir/"

func latLng(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// NavigationURL builds a driving directions link for an external maps app:
// origin is the route source, destination its last stop and every stop in
// between a waypoint.
func NavigationURL(route domain.Route) (string, error) {
	if len(route.Legs) == 0 {
		return "", errors.New("navigation url: route has no legs")
	}

	first, last := route.Legs[0], route.Legs[len(route.Legs)-1]

	origin := route.Source
	if origin == (domain.Coordinates{}) {
		origin = first.Start
	}
	destination := route.Destination
	if destination == (domain.Coordinates{}) {
		destination = last.End
	}

	waypoints := make([]string, 0, len(route.Legs))
	for _, leg := range route.Legs[1:] {
		waypoints = append(waypoints, latLng(leg.Start))
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", latLng(origin))
	q.Set("destination", latLng(destination))
	if len(waypoints) > 0 {
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}
	q.Set("travelmode", "driving")

	return navigationBaseURL + "?" + q.Encode(), nil
}
