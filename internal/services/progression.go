package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const commitAttempts = 3

// CompletionResult reports what one CompleteNext call changed.
type CompletionResult struct {
	Delivered     *domain.Package
	RouteFinished bool
}

// Progression advances deliveries along the active route. Completions are
// serialized; the package book changes only after the backend confirmed.
type Progression struct {
	mu sync.Mutex

	api      ports.DeliveryAPI
	book     *state.PackageBook
	route    *state.ActiveRoute
	session  SessionState
	notifier ports.Notifier
	now      func() time.Time
}

func NewProgression(
	api ports.DeliveryAPI,
	book *state.PackageBook,
	route *state.ActiveRoute,
	session SessionState,
	notifier ports.Notifier,
) *Progression {
	return &Progression{
		api:      api,
		book:     book,
		route:    route,
		session:  session,
		notifier: notifier,
		now:      time.Now,
	}
}

// Next returns the package the driver is heading to.
func (p *Progression) Next() (domain.Package, bool) {
	pkgs := p.book.Snapshot()
	i := domain.NextIndex(pkgs)
	if i < 0 {
		return domain.Package{}, false
	}
	return pkgs[i], true
}

// CompleteNext marks the next package delivered. When no package is left
// pending afterwards, or none was pending to begin with, the route is
// finished too.
func (p *Progression) CompleteNext(ctx context.Context) (CompletionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The draft is taken before the backend call; anything that changes the
	// book while the call is in flight makes it stale.
	draft := p.book.Draft()
	i := domain.NextIndex(draft.Packages)
	if i < 0 {
		if err := p.finishRouteLocked(ctx); err != nil {
			return CompletionResult{}, err
		}
		return CompletionResult{RouteFinished: true}, nil
	}

	next := draft.Packages[i]
	if err := p.api.FinishDelivery(ctx, next.ID); err != nil {
		p.notifier.Alert("Delivery", "Could not finish the delivery. Try again.")
		return CompletionResult{}, fmt.Errorf("complete next: %w", err)
	}

	delivered, err := p.commitDelivered(draft, next.ID)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("complete next: %w", err)
	}
	res := CompletionResult{Delivered: &delivered}

	logrus.WithFields(logrus.Fields{
		"package_id": delivered.ID,
		"tracking":   delivered.TrackingCode,
	}).Info("delivery finished")

	if domain.NextIndex(p.book.Snapshot()) >= 0 {
		return res, nil
	}

	if err := p.finishRouteLocked(ctx); err != nil {
		return res, err
	}
	res.RouteFinished = true
	return res, nil
}

// FinishRoute closes the active route on the backend and clears the
// local route and packages.
func (p *Progression) FinishRoute(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.finishRouteLocked(ctx)
}

// commitDelivered applies the confirmed delivery to draft and commits it,
// redrafting when the book changed underneath (for example a scan).
func (p *Progression) commitDelivered(draft *state.Draft, id string) (domain.Package, error) {
	at := p.now()

	for attempt := 0; attempt < commitAttempts; attempt++ {
		if attempt > 0 {
			draft = p.book.Draft()
		}

		idx := -1
		for i := range draft.Packages {
			if strings.EqualFold(draft.Packages[i].ID, id) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.Package{}, fmt.Errorf("package %s left the book", id)
		}

		if err := draft.Packages[idx].Advance(domain.StatusDelivered, at); err != nil {
			return domain.Package{}, err
		}

		err := p.book.Commit(draft)
		if errors.Is(err, state.ErrStaleDraft) {
			continue
		}
		if err != nil {
			return domain.Package{}, err
		}
		return draft.Packages[idx].Clone(), nil
	}
	return domain.Package{}, state.ErrStaleDraft
}

func (p *Progression) finishRouteLocked(ctx context.Context) error {
	route, ok := p.route.Get()
	if !ok {
		return fmt.Errorf("finish route: %w", ports.ErrNoActiveRoute)
	}

	if err := p.api.FinishRoute(ctx, route.ID); err != nil {
		p.notifier.Alert("Route", "Could not finish the route. Try again.")
		return fmt.Errorf("finish route: %w", err)
	}

	p.route.Clear()
	p.book.Clear()
	if err := p.session.ClearRouteID(ctx); err != nil {
		logrus.WithError(err).Warn("clear stored route")
	}

	logrus.WithField("route_id", route.ID).Info("route finished")
	p.notifier.Alert("Route", "Route finished. All deliveries are complete.")
	return nil
}
