package channel

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPChannel publishes position events to a topic exchange. Subscribers
// bind on "position.<route id>" or "position.#".
type AMQPChannel struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

var _ ports.Channel = (*AMQPChannel)(nil)

func NewAMQPChannel(url, exchange string) *AMQPChannel {
	return &AMQPChannel{url: url, exchange: exchange}
}

// RoutingKey returns the topic a position event is published under.
func RoutingKey(ev domain.PositionEvent) string {
	return "position." + ev.RouteID
}

func (a *AMQPChannel) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ch != nil && !a.ch.IsClosed() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := amqp091.Dial(a.url)
	if err != nil {
		return fmt.Errorf("amqp connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		a.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("amqp declare exchange %s: %w", a.exchange, err)
	}

	a.conn, a.ch = conn, ch
	logrus.WithField("exchange", a.exchange).Info("amqp channel connected")
	return nil
}

func (a *AMQPChannel) Emit(ctx context.Context, ev domain.PositionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ch == nil || a.ch.IsClosed() {
		return ports.ErrChannelNotConnected
	}

	body, err := json.Marshal(newEnvelope(ev))
	if err != nil {
		return fmt.Errorf("amqp emit: marshal event: %w", err)
	}

	err = a.ch.PublishWithContext(ctx,
		a.exchange,
		RoutingKey(ev),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Type:        EventNewPoints,
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("amqp emit to %s: %w", RoutingKey(ev), err)
	}
	return nil
}

func (a *AMQPChannel) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn, a.ch = nil, nil
	if err != nil {
		return fmt.Errorf("amqp close: %w", err)
	}
	return nil
}
