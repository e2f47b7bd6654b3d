package events

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	closed    bool
	published []amqp.Publishing
	keys      []string
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.closed {
		return amqp.ErrClosed
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeBroker struct {
	now      time.Time
	channels []*fakeChannel
	down     bool
}

func (b *fakeBroker) connect() (*session, error) {
	if b.down {
		return nil, errors.New("connection refused")
	}
	ch := &fakeChannel{}
	b.channels = append(b.channels, ch)
	return &session{ch: ch}, nil
}

func (b *fakeBroker) clock() time.Time { return b.now }

func TestAMQPPublisher_ReconnectsAfterChannelClose(t *testing.T) {
	broker := &fakeBroker{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	p, err := newPublisher("courtbook.events", broker.connect, broker.clock)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, sampleEvent()))
	require.Len(t, broker.channels, 1)
	assert.Equal(t, []string{"reservation.created"}, broker.channels[0].keys)
	assert.Equal(t, amqp.Persistent, broker.channels[0].published[0].DeliveryMode)

	// Broker restart: the channel is closed and the broker is briefly down.
	broker.channels[0].closed = true
	broker.down = true
	broker.now = broker.now.Add(redialInterval)
	assert.Error(t, p.Publish(ctx, sampleEvent()))

	broker.down = false
	broker.now = broker.now.Add(time.Second)
	assert.Error(t, p.Publish(ctx, sampleEvent()), "redial is rate limited")
	require.Len(t, broker.channels, 1)

	broker.now = broker.now.Add(redialInterval)
	require.NoError(t, p.Publish(ctx, sampleEvent()))
	require.Len(t, broker.channels, 2)
	assert.Len(t, broker.channels[1].published, 1)

	require.NoError(t, p.Close())
	assert.True(t, broker.channels[1].closed)
	assert.ErrorIs(t, p.Publish(ctx, sampleEvent()), ErrPublisherClosed)
}

func TestAMQPPublisher_InitialDialFailure(t *testing.T) {
	broker := &fakeBroker{down: true}
	_, err := newPublisher("courtbook.events", broker.connect, broker.clock)
	assert.Error(t, err)
}
