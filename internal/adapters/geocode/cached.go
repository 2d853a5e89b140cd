package geocode

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CacheKey identifies a point in the address cache, rounded to about a meter.
func CacheKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// Cached serves addresses from a persistent cache and stores fresh results.
// Cache failures are logged and fall through to the inner geocoder.
type Cached struct {
	inner ports.Geocoder
	cache ports.AddressCache
}

var _ ports.Geocoder = (*Cached)(nil)

func NewCached(inner ports.Geocoder, cache ports.AddressCache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) ReverseGeocode(ctx context.Context, at domain.Coordinates) (string, error) {
	key := CacheKey(at)

	hits, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		logrus.WithError(err).WithField("coord", key).Warn("address cache lookup failed")
	} else if addr, ok := hits[key]; ok {
		return addr, nil
	}

	addr, err := c.inner.ReverseGeocode(ctx, at)
	if err != nil {
		return "", err
	}

	if err := c.cache.PutMany(ctx, map[string]string{key: addr}); err != nil {
		logrus.WithError(err).WithField("coord", key).Warn("address cache store failed")
	}
	return addr, nil
}
