package location

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"time"
)

// Fix is one position reading from the device.
type Fix struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Accuracy float64   `json:"accuracy,omitempty"` // meters, 0 when unknown
	TS       time.Time `json:"ts"`
}

func (f Fix) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: f.Lat, Lng: f.Lng}
}

// Worst horizontal accuracy accepted per requested accuracy level.
var maxErrorMeters = map[ports.Accuracy]float64{
	ports.AccuracyHigh:     25,
	ports.AccuracyBalanced: 100,
}

// Sampler drops fixes that arrive sooner than MinInterval or closer than
// MinDistanceMeters to the last accepted fix. Both thresholds must be met.
type Sampler struct {
	opts ports.WatchOptions

	last    Fix
	hasLast bool
}

func NewSampler(opts ports.WatchOptions) *Sampler {
	return &Sampler{opts: opts}
}

func (s *Sampler) Accept(f Fix) bool {
	if limit, ok := maxErrorMeters[s.opts.Accuracy]; ok && f.Accuracy > limit {
		return false
	}

	if !s.hasLast {
		s.last, s.hasLast = f, true
		return true
	}

	if f.TS.Sub(s.last.TS) < s.opts.MinInterval {
		return false
	}
	if domain.DistanceMeters(s.last.Coordinates(), f.Coordinates()) < s.opts.MinDistanceMeters {
		return false
	}

	s.last = f
	return true
}
