package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"errors"
	"sync"
	"time"
)

var errBackend = errors.New("backend unavailable")

type fakeAPI struct {
	mu sync.Mutex

	packages      map[string]domain.Package
	routePackages []domain.Package
	active        *domain.Route

	failFinishDelivery bool
	failFinishRoute    bool

	// runs inside FinishDelivery, after the call is recorded
	onFinishDelivery func(id string)

	gets             []string
	finishedPackages []string
	finishedRoutes   []string
	associated       []string
	associatedAt     domain.Coordinates
	routeOrigin      domain.Coordinates
	routeDests       []domain.Coordinates
}

func (f *fakeAPI) Login(context.Context, ports.Credentials) (ports.DriverSession, error) {
	return ports.DriverSession{AccessToken: "tok", Name: "Ana", DriverID: "d1"}, nil
}

func (f *fakeAPI) GetPackage(_ context.Context, id string) (domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, id)
	p, ok := f.packages[id]
	if !ok {
		return domain.Package{}, errBackend
	}
	return p, nil
}

func (f *fakeAPI) AssociateDriver(_ context.Context, _ string, ids []string, at domain.Coordinates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.associated = append([]string(nil), ids...)
	f.associatedAt = at
	return nil
}

func (f *fakeAPI) RoutePackages(context.Context, string, string) ([]domain.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Package(nil), f.routePackages...), nil
}

func (f *fakeAPI) FinishDelivery(_ context.Context, id string) error {
	f.mu.Lock()
	if f.failFinishDelivery {
		f.mu.Unlock()
		return errBackend
	}
	f.finishedPackages = append(f.finishedPackages, id)
	hook := f.onFinishDelivery
	f.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	return nil
}

func (f *fakeAPI) CreateRoute(_ context.Context, _ string, origin domain.Coordinates, dests []domain.Coordinates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routeOrigin = origin
	f.routeDests = append([]domain.Coordinates(nil), dests...)
	return nil
}

func (f *fakeAPI) ActiveRoute(context.Context, string) (domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		return domain.Route{}, ports.ErrNoActiveRoute
	}
	return f.active.Clone(), nil
}

func (f *fakeAPI) FinishRoute(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFinishRoute {
		return errBackend
	}
	f.finishedRoutes = append(f.finishedRoutes, id)
	return nil
}

type fakeSession struct {
	mu      sync.Mutex
	driver  string
	sim     bool
	routeID string
}

func (s *fakeSession) DriverID(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver, nil
}

func (s *fakeSession) SimulationMode(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim, nil
}

func (s *fakeSession) SetSimulationMode(_ context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim = on
	return nil
}

func (s *fakeSession) SetRouteID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeID = id
	return nil
}

func (s *fakeSession) ClearRouteID(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeID = ""
	return nil
}

type note struct {
	kind     string
	severity ports.Severity
	message  string
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *fakeNotifier) Toast(sev ports.Severity, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{kind: "toast", severity: sev, message: msg})
}

func (n *fakeNotifier) Alert(_, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{kind: "alert", message: msg})
}

func (n *fakeNotifier) Block(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{kind: "block", message: msg})
}

func (n *fakeNotifier) last() note {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

// sink records both map and channel deliveries into one ordered log.
type sink struct {
	mu       sync.Mutex
	log      []string
	events   []domain.PositionEvent
	rendered int
	connects int
	closed   bool
	emitErr  error
}

func (s *sink) RenderRoute(domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered++
	return nil
}

func (s *sink) MoveMarker(c domain.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, "map "+c.String())
	return nil
}

func (s *sink) NavigationURL(domain.Route) (string, error) { return "", nil }

func (s *sink) Connect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	return nil
}

func (s *sink) Emit(_ context.Context, ev domain.PositionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emitErr != nil {
		return s.emitErr
	}
	s.log = append(s.log, "channel "+domain.Coordinates{Lat: ev.Lat, Lng: ev.Lng}.String())
	s.events = append(s.events, ev)
	return nil
}

func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *sink) snapshot() ([]string, []domain.PositionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...), append([]domain.PositionEvent(nil), s.events...)
}

// countingPauser never sleeps; it records requested pauses and can cancel
// the run after a number of them.
type countingPauser struct {
	mu       sync.Mutex
	pauses   []time.Duration
	cancelAt int
	cancel   context.CancelFunc
}

func (p *countingPauser) Pause(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	p.pauses = append(p.pauses, d)
	n := len(p.pauses)
	p.mu.Unlock()

	if p.cancel != nil && n == p.cancelAt {
		p.cancel()
	}
	return ctx.Err()
}

func (p *countingPauser) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pauses)
}

// blockingPauser waits until cancelled.
type blockingPauser struct{}

func (blockingPauser) Pause(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

type fakeLocation struct {
	allowed bool
	fixes   []domain.Coordinates
	opts    ports.WatchOptions
	current domain.Coordinates
}

func (l *fakeLocation) RequestPermission(context.Context) (bool, error) { return l.allowed, nil }

func (l *fakeLocation) CurrentPosition(context.Context, ports.Accuracy) (domain.Coordinates, error) {
	return l.current, nil
}

func (l *fakeLocation) Watch(ctx context.Context, opts ports.WatchOptions, fn func(domain.Coordinates)) error {
	l.opts = opts
	for _, c := range l.fixes {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(c)
	}
	return nil
}

func c(lat, lng float64) domain.Coordinates { return domain.Coordinates{Lat: lat, Lng: lng} }

// twoByTwo is a route with 2 legs of 2 steps each.
func twoByTwo() domain.Route {
	return domain.Route{
		ID:       "r1",
		DriverID: "d1",
		Legs: []domain.Leg{
			{Start: c(0, 0), End: c(2, 2), Steps: []domain.Step{
				{Start: c(0, 0), End: c(1, 1)},
				{Start: c(1, 1), End: c(2, 2)},
			}},
			{Start: c(2, 2), End: c(4, 4), Steps: []domain.Step{
				{Start: c(2, 2), End: c(3, 3)},
				{Start: c(3, 3), End: c(4, 4)},
			}},
		},
	}
}
