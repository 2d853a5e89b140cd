package services

import (
	"context"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/state"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Tracker owns the position playback of the active route. At most one
// playback runs at a time; Stop releases it before another starts.
type Tracker struct {
	session     SessionState
	route       *state.ActiveRoute
	channel     ports.Channel
	broadcaster *Broadcaster
	location    ports.LocationProvider
	notifier    ports.Notifier
	pauser      Pauser

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

func NewTracker(
	session SessionState,
	route *state.ActiveRoute,
	channel ports.Channel,
	broadcaster *Broadcaster,
	location ports.LocationProvider,
	notifier ports.Notifier,
	pauser Pauser,
) *Tracker {
	if pauser == nil {
		pauser = TimerPauser{}
	}
	return &Tracker{
		session:     session,
		route:       route,
		channel:     channel,
		broadcaster: broadcaster,
		location:    location,
		notifier:    notifier,
		pauser:      pauser,
	}
}

// Open prepares the session. In live mode the channel is connected up
// front; simulation connects when playback starts.
func (t *Tracker) Open(ctx context.Context) error {
	sim, err := t.session.SimulationMode(ctx)
	if err != nil {
		return fmt.Errorf("open tracker: %w", err)
	}
	if sim {
		return nil
	}
	if err := t.channel.Connect(ctx); err != nil {
		logrus.WithError(err).Warn("connect position channel")
	}
	return nil
}

// Start begins playback of the active route using the session's mode.
// Starting while a playback runs is a no-op.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runningLocked() {
		return nil
	}

	route, ok := t.route.Get()
	if !ok {
		return fmt.Errorf("start tracking: %w", ports.ErrNoActiveRoute)
	}
	driver, err := driverID(ctx, t.session)
	if err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}
	sim, err := t.session.SimulationMode(ctx)
	if err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}

	var src PositionSource
	if sim {
		if err := t.channel.Connect(ctx); err != nil {
			logrus.WithError(err).Warn("connect position channel")
		}
		src = NewSimulationSource(route, t.pauser)
	} else {
		src = NewLiveSource(t.location, t.notifier)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done, t.lastErr = cancel, done, nil

	emit := t.broadcaster.For(route.ID, driver)
	log := logrus.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"simulation": sim,
	})
	log.Info("tracking started")

	go func() {
		defer close(done)
		defer cancel()

		err := src.Run(runCtx, emit)
		if errors.Is(err, context.Canceled) {
			err = nil
		}

		t.mu.Lock()
		t.lastErr = err
		t.mu.Unlock()

		if err != nil {
			log.WithError(err).Warn("tracking ended")
			return
		}
		log.Info("tracking ended")
	}()

	return nil
}

// Stop cancels the running playback and waits for it to release.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current playback ends and returns its error.
// Cancellation is not an error.
func (t *Tracker) Wait() error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runningLocked()
}

func (t *Tracker) runningLocked() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// SetSimulationMode stores the mode and restarts a running playback under
// the new policy.
func (t *Tracker) SetSimulationMode(ctx context.Context, on bool) error {
	if err := t.session.SetSimulationMode(ctx, on); err != nil {
		return fmt.Errorf("set simulation mode: %w", err)
	}

	if !t.Running() {
		if !on {
			return t.Open(ctx)
		}
		return nil
	}

	t.Stop()
	if !on {
		if err := t.Open(ctx); err != nil {
			return err
		}
	}
	return t.Start(ctx)
}

// Close stops playback and closes the channel.
func (t *Tracker) Close() error {
	t.Stop()
	return t.channel.Close()
}
