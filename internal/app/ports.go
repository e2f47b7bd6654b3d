package app

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// AvailabilityCache holds the live reservation rows of a court for a date
// range for a short time. It serves reads only; commits always go to the
// store.
//
// Version is taken before reading the store and handed back to Set, which
// drops the rows if any date in the range was invalidated in between.
type AvailabilityCache interface {
	Get(ctx context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, bool, error)
	Version(ctx context.Context, courtID int64, from, to time.Time) (int64, error)
	Set(ctx context.Context, courtID int64, from, to time.Time, version int64, rows []domain.Reservation) error
	Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error
}

// EventPublisher delivers reservation lifecycle events. Delivery is best
// effort.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReservationEvent) error
}

type noCache struct{}

func (noCache) Get(context.Context, int64, time.Time, time.Time) ([]domain.Reservation, bool, error) {
	return nil, false, nil
}

func (noCache) Version(context.Context, int64, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (noCache) Set(context.Context, int64, time.Time, time.Time, int64, []domain.Reservation) error {
	return nil
}

func (noCache) Invalidate(context.Context, int64, ...time.Time) error { return nil }

type noEvents struct{}

func (noEvents) Publish(context.Context, domain.ReservationEvent) error { return nil }

// notifier runs the post-commit side effects shared by every write path.
// Failures are logged and never returned.
type notifier struct {
	cache  AvailabilityCache
	events EventPublisher
	clock  clock.Clock
	log    logrus.FieldLogger
}

func newNotifier(cache AvailabilityCache, events EventPublisher, clk clock.Clock, logger logrus.FieldLogger) notifier {
	if cache == nil {
		cache = noCache{}
	}
	if events == nil {
		events = noEvents{}
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return notifier{cache: cache, events: events, clock: clk, log: logger}
}

func (n notifier) afterWrite(ctx context.Context, eventType string, actor domain.Actor, rows []domain.Reservation) {
	if len(rows) == 0 {
		return
	}

	byCourt := make(map[int64][]time.Time)
	for _, r := range rows {
		byCourt[r.CourtID] = append(byCourt[r.CourtID], r.Date)
	}
	for courtID, dates := range byCourt {
		if err := n.cache.Invalidate(ctx, courtID, dates...); err != nil {
			n.log.WithError(err).WithField("court_id", courtID).Warn("availability cache invalidation failed")
		}
	}

	event := domain.ReservationEvent{
		Type:         eventType,
		OccurredAt:   n.clock.Now(),
		Actor:        actor,
		Reservations: rows,
	}
	if err := n.events.Publish(ctx, event); err != nil {
		n.log.WithError(err).WithFields(logrus.Fields{
			"event":     eventType,
			"reference": rows[0].Reference,
		}).Warn("publish reservation event failed")
	}
}
