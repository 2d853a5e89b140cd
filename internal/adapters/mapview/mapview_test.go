package mapview

import (
	"delivery-tracker/internal/domain"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

func threeStopRoute() domain.Route {
	a := domain.Coordinates{Lat: -23.50, Lng: -46.60}
	b := domain.Coordinates{Lat: -23.55, Lng: -46.63}
	c := domain.Coordinates{Lat: -23.61, Lng: -46.70}
	d := domain.Coordinates{Lat: -23.40, Lng: -46.50}
	return domain.Route{
		ID:          "r1",
		Source:      a,
		Destination: d,
		Legs: []domain.Leg{
			{Start: a, End: b, Steps: []domain.Step{{Start: a, End: b}}},
			{Start: b, End: c},
			{Start: c, End: d},
		},
	}
}

func TestNavigationURL(t *testing.T) {
	raw, err := NavigationURL(threeStopRoute())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()

	checks := map[string]string{
		"api":         "1",
		"origin":      "-23.5,-46.6",
		"destination": "-23.4,-46.5",
		"waypoints":   "-23.55,-46.63|-23.61,-46.7",
		"travelmode":  "driving",
	}
	for k, want := range checks {
		if got := q.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}

	if _, err := NavigationURL(domain.Route{}); err == nil {
		t.Fatalf("expected error for route without legs")
	}
}

func TestGeoJSONSurfaceWritesCollection(t *testing.T) {
	p := filepath.Join(t.TempDir(), "map.geojson")
	s := NewGeoJSONSurface(p)

	if err := s.RenderRoute(threeStopRoute()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := s.MoveMarker(domain.Coordinates{Lat: -23.52, Lng: -46.61}); err != nil {
		t.Fatalf("move: %v", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read map: %v", err)
	}

	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(b); err != nil {
		t.Fatalf("decode geojson: %v", err)
	}

	// origin + 3 legs + 3 stops + car
	if got := len(fc.Features); got != 8 {
		t.Fatalf("features = %d, want 8", got)
	}

	car := fc.Features[len(fc.Features)-1]
	pt, ok := car.Geometry.(*geom.Point)
	if !ok {
		t.Fatalf("car geometry = %T, want *geom.Point", car.Geometry)
	}
	if pt.X() != -46.61 || pt.Y() != -23.52 {
		t.Fatalf("car = (%v, %v), want (-46.61, -23.52)", pt.X(), pt.Y())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	b, _ = os.ReadFile(p)
	var empty geojson.FeatureCollection
	if err := empty.UnmarshalJSON(b); err != nil {
		t.Fatalf("decode cleared geojson: %v", err)
	}
	if len(empty.Features) != 0 {
		t.Fatalf("features after clear = %d, want 0", len(empty.Features))
	}
}
