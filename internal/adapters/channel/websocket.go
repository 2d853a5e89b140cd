package channel

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// WebSocketChannel emits position events as JSON text frames.
// It is safe for concurrent use; writes are serialized.
type WebSocketChannel struct {
	url    string
	header http.Header
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ ports.Channel = (*WebSocketChannel)(nil)

func NewWebSocketChannel(url string, header http.Header) *WebSocketChannel {
	return &WebSocketChannel{
		url:    url,
		header: header,
		dialer: websocket.DefaultDialer,
	}
}

func (c *WebSocketChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket connect %s: status %d: %w", c.url, resp.StatusCode, err)
		}
		return fmt.Errorf("websocket connect %s: %w", c.url, err)
	}

	// Drain control frames so close and ping from the server are handled.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				c.drop(conn)
				return
			}
		}
	}()

	c.conn = conn
	logrus.WithField("url", c.url).Info("websocket channel connected")
	return nil
}

func (c *WebSocketChannel) Emit(ctx context.Context, ev domain.PositionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ports.ErrChannelNotConnected
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)

	if err := c.conn.WriteJSON(newEnvelope(ev)); err != nil {
		_ = c.conn.Close()
		c.conn = nil
		return fmt.Errorf("websocket emit: %w", err)
	}
	return nil
}

func (c *WebSocketChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("websocket close: %w", err)
	}
	return nil
}

// drop forgets conn after the reader saw it fail, unless it was replaced.
func (c *WebSocketChannel) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		_ = conn.Close()
		c.conn = nil
		logrus.WithField("url", c.url).Warn("websocket channel disconnected")
	}
}
