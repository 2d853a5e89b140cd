package location

import (
	"bufio"
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoFix is returned when the device stream ends without a usable fix.
var ErrNoFix = errors.New("no position fix available")

// StreamProvider reads JSON-lines position fixes from a device path
// (a serial device, a FIFO fed by gpsd tooling, or a recorded file).
// Lines that do not decode are skipped.
type StreamProvider struct {
	path string
	open func(string) (io.ReadCloser, error)
	now  func() time.Time
}

var _ ports.LocationProvider = (*StreamProvider)(nil)

func NewStreamProvider(path string) *StreamProvider {
	return &StreamProvider{
		path: path,
		open: func(p string) (io.ReadCloser, error) { return os.Open(p) },
		now:  time.Now,
	}
}

// RequestPermission reports whether the device path can be opened.
func (p *StreamProvider) RequestPermission(ctx context.Context) (bool, error) {
	if strings.TrimSpace(p.path) == "" {
		return false, nil
	}

	rc, err := p.open(p.path)
	if errors.Is(err, os.ErrPermission) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("location permission: open %s: %w", p.path, err)
	}
	_ = rc.Close()
	return true, nil
}

func (p *StreamProvider) CurrentPosition(ctx context.Context, accuracy ports.Accuracy) (domain.Coordinates, error) {
	var (
		found domain.Coordinates
		ok    bool
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := p.stream(ctx, func(f Fix) bool {
		if limit, has := maxErrorMeters[accuracy]; has && f.Accuracy > limit {
			return true
		}
		found, ok = f.Coordinates(), true
		return false
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return domain.Coordinates{}, fmt.Errorf("current position: %w", err)
	}
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("current position: %w", ErrNoFix)
	}
	return found, nil
}

// Watch delivers sampled fixes to fn until ctx is cancelled or the stream
// ends. Cancellation returns ctx.Err().
func (p *StreamProvider) Watch(ctx context.Context, opts ports.WatchOptions, fn func(domain.Coordinates)) error {
	sampler := NewSampler(opts)
	return p.stream(ctx, func(f Fix) bool {
		if sampler.Accept(f) {
			fn(f.Coordinates())
		}
		return true
	})
}

// stream decodes fixes and hands them to next until it returns false.
func (p *StreamProvider) stream(ctx context.Context, next func(Fix) bool) error {
	rc, err := p.open(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.path, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = rc.Close()
		case <-done:
			_ = rc.Close()
		}
	}()

	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var f Fix
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			logrus.WithError(err).WithField("device", p.path).Debug("skip malformed fix")
			continue
		}
		if f.TS.IsZero() {
			f.TS = p.now()
		}

		if !next(f) {
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", p.path, err)
	}
	return nil
}
