package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func testRoute() *Route {
	return &Route{
		ID: "r1",
		Legs: []Leg{
			{Start: Coordinates{Lat: -23.5000, Lng: -46.6000}, End: Coordinates{Lat: -23.5512, Lng: -46.6331}},
			{Start: Coordinates{Lat: -23.5512, Lng: -46.6331}, End: Coordinates{Lat: -23.6101, Lng: -46.7022}},
			{Start: Coordinates{Lat: -23.6101, Lng: -46.7022}, End: Coordinates{Lat: -23.4004, Lng: -46.5009}},
		},
	}
}

func ids(pkgs []Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.ID)
	}
	return out
}

func TestSortByLegs(t *testing.T) {
	route := testRoute()

	pkgs := []Package{
		{ID: "x", Destination: Coordinates{Lat: 10, Lng: 10}},
		{ID: "c", Destination: Coordinates{Lat: -23.4011, Lng: -46.5012}},
		{ID: "a", Destination: Coordinates{Lat: -23.5498, Lng: -46.6302}},
		{ID: "y", Destination: Coordinates{Lat: 20, Lng: 20}},
		{ID: "b", Destination: Coordinates{Lat: -23.6123, Lng: -46.7001}},
	}

	SortByLegs(pkgs, route)

	want := []string{"a", "b", "c", "x", "y"}
	got := ids(pkgs)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByLegsIdempotent(t *testing.T) {
	route := testRoute()

	pkgs := []Package{
		{ID: "u1", Destination: Coordinates{Lat: 1, Lng: 1}},
		{ID: "b", Destination: Coordinates{Lat: -23.61, Lng: -46.70}},
		{ID: "u2", Destination: Coordinates{Lat: 2, Lng: 2}},
		{ID: "a", Destination: Coordinates{Lat: -23.55, Lng: -46.63}},
		{ID: "a2", Destination: Coordinates{Lat: -23.5512, Lng: -46.6331}},
	}

	SortByLegs(pkgs, route)
	first := ids(pkgs)

	SortByLegs(pkgs, route)
	second := ids(pkgs)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("re-sort changed order: %v -> %v", first, second)
		}
	}
	if first[len(first)-2] != "u1" || first[len(first)-1] != "u2" {
		t.Fatalf("unmatched packages should trail in input order, got %v", first)
	}
}

func TestStagesAndNextIndex(t *testing.T) {
	pkgs := []Package{
		{ID: "1", Status: StatusDelivered},
		{ID: "2", Status: StatusEnRoute},
		{ID: "3", Status: StatusAssigned},
	}

	if got := NextIndex(pkgs); got != 1 {
		t.Fatalf("NextIndex = %d, want 1", got)
	}

	stages := Stages(pkgs)
	want := []Stage{StageDelivered, StageEnRoute, StagePending}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage[%d] = %s, want %s", i, stages[i], want[i])
		}
	}

	pkgs[1].Status = StatusDelivered
	pkgs[2].Status = StatusDelivered
	if got := NextIndex(pkgs); got != -1 {
		t.Fatalf("NextIndex = %d, want -1", got)
	}
}

func TestPackageAdvance(t *testing.T) {
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	pkg := Package{ID: "p1", Status: StatusAssigned}

	if err := pkg.Advance(StatusDelivered, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.DeliveredAt == nil || !pkg.DeliveredAt.Equal(at) {
		t.Fatalf("DeliveredAt = %v, want %v", pkg.DeliveredAt, at)
	}

	err := pkg.Advance(StatusEnRoute, at)
	if !errors.Is(err, ErrStatusRegression) {
		t.Fatalf("err = %v, want ErrStatusRegression", err)
	}
	if pkg.Status != StatusDelivered {
		t.Fatalf("status = %s, want DELIVERED", pkg.Status)
	}
}

func TestParseStatusLegacy(t *testing.T) {
	cases := map[string]PackageStatus{
		"A_CAMINHO": StatusEnRoute,
		"ENTREGUE":  StatusDelivered,
		"ASSIGNED":  StatusAssigned,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseStatus("LOST"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestDegreesAcceptsStringsAndNumbers(t *testing.T) {
	var v struct {
		A Degrees `json:"a"`
		B Degrees `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"-23.55","b":-46.63}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.A != -23.55 || v.B != -46.63 {
		t.Fatalf("got a=%v b=%v", v.A, v.B)
	}
}

func TestDegreesRejectsNonFinite(t *testing.T) {
	for _, in := range []string{`"NaN"`, `"Inf"`, `"-Inf"`, `"+Infinity"`} {
		var d Degrees
		err := json.Unmarshal([]byte(in), &d)
		if !errors.Is(err, ErrNonFiniteDegrees) {
			t.Fatalf("Unmarshal(%s) err = %v, want ErrNonFiniteDegrees", in, err)
		}
	}
}

func TestRouteStepCountAndClone(t *testing.T) {
	r := Route{Legs: []Leg{
		{Steps: []Step{{}, {}}},
		{Steps: []Step{{}, {}, {}}},
	}}
	if got := r.StepCount(); got != 5 {
		t.Fatalf("StepCount = %d, want 5", got)
	}

	c := r.Clone()
	c.Legs[0].Steps[0].Start.Lat = 99
	if r.Legs[0].Steps[0].Start.Lat == 99 {
		t.Fatalf("clone shares steps with original")
	}
}
