package deliveryapi

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (f *fakeTokens) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared = true
	return nil
}

const packageJSON = `{
	"id": "0b6c7a4e-1f2d-4c3b-9a8e-7d6c5b4a3f21",
	"destino": "{\"latitude\":\"-23.5512\",\"longitude\":\"-46.6331\"}",
	"status": "A_CAMINHO",
	"codigo_Rastreio": "BR123",
	"data_Criacao": "2026-02-01T10:00:00Z",
	"data_Atualizacao": "2026-02-01T11:00:00Z",
	"data_Entrega": null,
	"cliente": {"id": "c1", "nome": "Maria"},
	"motorista": {"id": "d1", "nome": "Joao"}
}`

const routeJSON = `{
	"id": "r1",
	"name": "Zona Sul",
	"source": {"lat": "-23.50", "lng": "-46.60"},
	"destination": {"lat": -23.61, "lng": -46.70},
	"status": "ACTIVE",
	"motorista": {"id_Motorista": "d1", "nome": "Joao"},
	"directions": {"routes": [{"legs": [
		{"start_location": {"lat": -23.50, "lng": -46.60}, "end_location": {"lat": -23.55, "lng": -46.63},
		 "steps": [{"start_location": {"lat": -23.50, "lng": -46.60}, "end_location": {"lat": -23.52, "lng": -46.61}},
		           {"start_location": {"lat": -23.52, "lng": -46.61}, "end_location": {"lat": -23.55, "lng": -46.63}}]},
		{"start_location": {"lat": -23.55, "lng": -46.63}, "end_location": {"lat": -23.61, "lng": -46.70},
		 "steps": [{"start_location": {"lat": -23.55, "lng": -46.63}, "end_location": {"lat": -23.61, "lng": -46.70}}]}
	]}]}
}`

type backend struct {
	t       *testing.T
	mu      sync.Mutex
	auth    []string
	created map[string]any
	assoc   map[string]any
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	b := &backend{t: t}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.auth = append(b.auth, req.Header.Get("Authorization"))
			b.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	r.HandleFunc("/auth/driver", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body["password"] != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","name":"Joao","id":"d1"}`))
	}).Methods(http.MethodPost)

	r.HandleFunc("/package/associate-driver", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewDecoder(req.Body).Decode(&b.assoc)
	}).Methods(http.MethodPatch)

	r.HandleFunc("/package/{id}", func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)["id"] == "expired" {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(packageJSON))
	}).Methods(http.MethodGet)

	r.HandleFunc("/package/driver/{driver}/route/{route}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("[" + packageJSON + "]"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/routes", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewDecoder(req.Body).Decode(&b.created)
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)

	r.HandleFunc("/routes/active/{driver}", func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)["driver"] != "d1" {
			http.Error(w, "no route", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(routeJSON))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func TestLogin(t *testing.T) {
	_, srv := newBackend(t)
	c := NewClient(srv.URL, srv.Client(), nil)

	s, err := c.Login(context.Background(), ports.Credentials{Email: "j@x.com", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AccessToken != "tok-1" || s.DriverID != "d1" || s.Name != "Joao" {
		t.Fatalf("session = %+v", s)
	}

	_, err = c.Login(context.Background(), ports.Credentials{Email: "j@x.com", Password: "wrong"})
	if !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestGetPackageDecodesLegacyPayload(t *testing.T) {
	b, srv := newBackend(t)
	c := NewClient(srv.URL, srv.Client(), &fakeTokens{token: "tok-1"})

	p, err := c.GetPackage(context.Background(), "0b6c7a4e-1f2d-4c3b-9a8e-7d6c5b4a3f21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.StatusEnRoute {
		t.Fatalf("status = %s, want EN_ROUTE", p.Status)
	}
	if p.Destination.Lat != -23.5512 || p.Destination.Lng != -46.6331 {
		t.Fatalf("destination = %v", p.Destination)
	}
	if p.ClientName != "Maria" || p.DeliveredAt != nil {
		t.Fatalf("package = %+v", p)
	}
	if got := b.auth[len(b.auth)-1]; got != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", got)
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	_, srv := newBackend(t)
	tokens := &fakeTokens{token: "stale"}
	c := NewClient(srv.URL, srv.Client(), tokens)

	_, err := c.GetPackage(context.Background(), "expired")
	if !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !tokens.cleared {
		t.Fatalf("token was not cleared")
	}
}

func TestActiveRoute(t *testing.T) {
	_, srv := newBackend(t)
	c := NewClient(srv.URL, srv.Client(), &fakeTokens{token: "tok-1"})

	r, err := c.ActiveRoute(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Legs) != 2 || r.StepCount() != 3 {
		t.Fatalf("legs = %d steps = %d, want 2 and 3", len(r.Legs), r.StepCount())
	}
	if r.DriverID != "d1" || r.Source.Lat != -23.50 {
		t.Fatalf("route = %+v", r)
	}

	_, err = c.ActiveRoute(context.Background(), "d2")
	if !errors.Is(err, ports.ErrNoActiveRoute) {
		t.Fatalf("err = %v, want ErrNoActiveRoute", err)
	}
}

func TestStartDeliveryRequests(t *testing.T) {
	b, srv := newBackend(t)
	c := NewClient(srv.URL, srv.Client(), &fakeTokens{token: "tok-1"})
	ctx := context.Background()

	origin := domain.Coordinates{Lat: -23.5, Lng: -46.6}
	if err := c.AssociateDriver(ctx, "d1", []string{"p1", "p2"}, origin); err != nil {
		t.Fatalf("associate: %v", err)
	}
	dests := []domain.Coordinates{{Lat: -23.55, Lng: -46.63}}
	if err := c.CreateRoute(ctx, "d1", origin, dests); err != nil {
		t.Fatalf("create route: %v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	loc := b.assoc["localizacao"].(map[string]any)
	if loc["latitude"] != "-23.5" || b.assoc["idMotorista"] != "d1" {
		t.Fatalf("associate body = %v", b.assoc)
	}
	if got := len(b.assoc["packages_ids"].([]any)); got != 2 {
		t.Fatalf("packages_ids = %d, want 2", got)
	}
	origem := b.created["origem"].(map[string]any)
	if origem["lng"] != "-46.6" {
		t.Fatalf("origem = %v", origem)
	}
	if got := len(b.created["destinos"].([]any)); got != 1 {
		t.Fatalf("destinos = %d, want 1", got)
	}
}

func TestRoutePackages(t *testing.T) {
	_, srv := newBackend(t)
	c := NewClient(srv.URL, srv.Client(), &fakeTokens{token: "tok-1"})

	pkgs, err := c.RoutePackages(context.Background(), "d1", "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].TrackingCode != "BR123" {
		t.Fatalf("packages = %+v", pkgs)
	}
}
