package ports

import (
	"context"
	"delivery-tracker/internal/domain"
	"errors"
)

// ErrChannelNotConnected is returned by Emit before Connect succeeded.
var ErrChannelNotConnected = errors.New("channel not connected")

// Channel is the persistent real-time channel that receives position events.
// Delivery is best effort: no acknowledgement, no retry.
type Channel interface {
	// Establish the connection. Connecting an open channel is a no-op.
	Connect(ctx context.Context) error
	// Push one position event.
	Emit(ctx context.Context, event domain.PositionEvent) error
	Close() error
}
