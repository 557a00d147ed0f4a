package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/restaurant-pos/internal/retry"
)

const Exchange = "pos_events"

// AMQPPublisher publishes JSON events to a durable topic exchange. The
// connection is re-dialled lazily after it drops.
type AMQPPublisher struct {
	url      string
	attempts int
	base     time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(ctx context.Context, url string, attempts int, base time.Duration) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, attempts: attempts, base: base}
	if _, err := p.connection(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// dialTimeout bounds a single TCP + handshake attempt.
const dialTimeout = 5 * time.Second

func (p *AMQPPublisher) current() *amqp.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn
	}
	return nil
}

// connection returns the live connection, dialling a new one when it has
// dropped. Dialling happens outside the lock.
func (p *AMQPPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	if c := p.current(); c != nil {
		return c, nil
	}
	var conn *amqp.Connection
	err := retry.Do(ctx, p.attempts, p.base, func(ctx context.Context) error {
		c, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("events: connect to RabbitMQ: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		// another publisher reconnected first
		_ = conn.Close()
		return p.conn, nil
	}
	p.conn = conn
	log.Info().Msg("[events] connected to RabbitMQ")
	return conn, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("events: open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("events: declare exchange: %w", err)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}
	err = ch.PublishWithContext(ctx, Exchange, RoutingKey(ev), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		MessageId:    ev.OrderID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
