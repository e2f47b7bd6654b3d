package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// redialInterval is the minimum gap between reconnect attempts while the
// broker is unreachable.
const redialInterval = 5 * time.Second

var ErrPublisherClosed = errors.New("publisher closed")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// session is one connection and its publishing channel.
type session struct {
	ch   publishChannel
	conn io.Closer
}

func (s *session) close() {
	_ = s.ch.Close()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func dialSession(url, exchange string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &session{ch: ch, conn: conn}, nil
}

// AMQPPublisher sends events to a durable topic exchange. The routing key is
// the event type, e.g. "reservation.created". A channel closed by the broker
// is replaced on the next publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	exchange string
	connect  func() (*session, error)
	now      func() time.Time

	sess       *session
	lastDialAt time.Time
	closed     bool
}

// NewAMQPPublisher dials once so a bad URL fails at startup.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	return newPublisher(exchange, func() (*session, error) { return dialSession(url, exchange) }, time.Now)
}

func newPublisher(exchange string, connect func() (*session, error), now func() time.Time) (*AMQPPublisher, error) {
	p := &AMQPPublisher{exchange: exchange, connect: connect, now: now}
	sess, err := connect()
	if err != nil {
		return nil, err
	}
	p.sess = sess
	p.lastDialAt = now()
	return p, nil
}

// channel returns a live channel, redialling when the current one is gone.
// Callers hold p.mu.
func (p *AMQPPublisher) channel() (publishChannel, error) {
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.sess != nil && !p.sess.ch.IsClosed() {
		return p.sess.ch, nil
	}
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
	if since := p.now().Sub(p.lastDialAt); since < redialInterval {
		return nil, fmt.Errorf("rabbitmq unavailable, next reconnect in %s", redialInterval-since)
	}
	p.lastDialAt = p.now()
	sess, err := p.connect()
	if err != nil {
		return nil, fmt.Errorf("reconnect: %w", err)
	}
	p.sess = sess
	return sess.ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e domain.ReservationEvent) error {
	msg := NewMessage(e)
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// amqp091 channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, p.exchange, msg.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Type:         msg.Type,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
	return nil
}
