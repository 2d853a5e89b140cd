package channel

import (
	"delivery-tracker/internal/domain"
	"time"
)

// EventNewPoints is the event name listeners subscribe to.
const EventNewPoints = "new-points"

// Envelope frames one event on the wire.
type Envelope struct {
	Event  string               `json:"event"`
	Data   domain.PositionEvent `json:"data"`
	SentAt time.Time            `json:"sent_at"`
}

func newEnvelope(ev domain.PositionEvent) Envelope {
	return Envelope{Event: EventNewPoints, Data: ev, SentAt: time.Now().UTC()}
}
