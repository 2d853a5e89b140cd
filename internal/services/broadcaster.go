package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"

	"github.com/sirupsen/logrus"
)

// Broadcaster forwards each position to the map marker, then to the
// real-time channel. Failures on either sink are logged and dropped.
type Broadcaster struct {
	surface ports.MapSurface
	channel ports.Channel
	log     logrus.FieldLogger
}

func NewBroadcaster(surface ports.MapSurface, channel ports.Channel) *Broadcaster {
	return &Broadcaster{
		surface: surface,
		channel: channel,
		log:     logrus.WithField("component", "broadcaster"),
	}
}

// For returns an EmitFunc that tags positions with the route and driver.
func (b *Broadcaster) For(routeID, driverID string) EmitFunc {
	return func(ctx context.Context, c domain.Coordinates) {
		b.Broadcast(ctx, domain.NewPositionEvent(routeID, driverID, c))
	}
}

func (b *Broadcaster) Broadcast(ctx context.Context, ev domain.PositionEvent) {
	pos := domain.Coordinates{Lat: ev.Lat, Lng: ev.Lng}

	if err := b.surface.MoveMarker(pos); err != nil {
		b.log.WithError(err).Warn("move marker")
	}

	if err := b.channel.Emit(ctx, ev); err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"route_id": ev.RouteID,
			"pos":      pos.String(),
		}).Warn("emit position dropped")
	}
}
