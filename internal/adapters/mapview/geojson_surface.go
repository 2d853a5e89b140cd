package mapview

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSONSurface renders the route and the car marker into a GeoJSON
// FeatureCollection file that any map viewer can reload. Each change
// rewrites the file atomically.
type GeoJSONSurface struct {
	path string

	mu    sync.Mutex
	route *domain.Route
	car   *domain.Coordinates
}

var _ ports.MapSurface = (*GeoJSONSurface)(nil)

func NewGeoJSONSurface(path string) *GeoJSONSurface {
	return &GeoJSONSurface{path: path}
}

func (s *GeoJSONSurface) RenderRoute(route domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := route.Clone()
	s.route = &r
	return s.writeLocked()
}

func (s *GeoJSONSurface) MoveMarker(pos domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.car = &pos
	return s.writeLocked()
}

func (s *GeoJSONSurface) NavigationURL(route domain.Route) (string, error) {
	return NavigationURL(route)
}

// Clear drops the route and marker, leaving an empty collection.
func (s *GeoJSONSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route, s.car = nil, nil
	return s.writeLocked()
}

func point(c domain.Coordinates) *geom.Point {
	return geom.NewPointFlat(geom.XY, c.CoordsToList())
}

func legLine(leg domain.Leg) *geom.LineString {
	flat := append([]float64{}, leg.Start.CoordsToList()...)
	for _, st := range leg.Steps {
		flat = append(flat, st.End.CoordsToList()...)
	}
	if len(leg.Steps) == 0 {
		flat = append(flat, leg.End.CoordsToList()...)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

// Features builds the collection for the current route and marker.
func Features(route *domain.Route, car *domain.Coordinates) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	if route != nil {
		if len(route.Legs) > 0 {
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       "origin",
				Geometry: point(route.Legs[0].Start),
				Properties: map[string]interface{}{
					"kind":     "origin",
					"route_id": route.ID,
				},
			})
		}
		for i, leg := range route.Legs {
			fc.Features = append(fc.Features,
				&geojson.Feature{
					ID:       fmt.Sprintf("leg-%d", i),
					Geometry: legLine(leg),
					Properties: map[string]interface{}{
						"kind":  "leg",
						"index": i,
						"steps": len(leg.Steps),
					},
				},
				&geojson.Feature{
					ID:       fmt.Sprintf("stop-%d", i+1),
					Geometry: point(leg.End),
					Properties: map[string]interface{}{
						"kind":  "stop",
						"label": fmt.Sprint(i + 1),
					},
				},
			)
		}
	}

	if car != nil {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         "car",
			Geometry:   point(*car),
			Properties: map[string]interface{}{"kind": "car"},
		})
	}

	return fc
}

func (s *GeoJSONSurface) writeLocked() error {
	b, err := Features(s.route, s.car).MarshalJSON()
	if err != nil {
		return fmt.Errorf("map surface: encode geojson: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".map-*.geojson")
	if err != nil {
		return fmt.Errorf("map surface: create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("map surface: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("map surface: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("map surface: replace %s: %w", s.path, err)
	}
	return nil
}
