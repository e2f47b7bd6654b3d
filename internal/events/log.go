package events

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// LogPublisher writes events to the log instead of a broker. It is used when
// no AMQP URL is configured.
type LogPublisher struct {
	log logrus.FieldLogger
}

func NewLogPublisher(logger logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{log: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e domain.ReservationEvent) error {
	msg := NewMessage(e)
	p.log.WithFields(logrus.Fields{
		"event":     msg.Type,
		"event_id":  msg.ID,
		"actor":     msg.Actor,
		"reference": msg.Reference,
		"count":     len(msg.Reservations),
	}).Debug("reservation event")
	return nil
}
