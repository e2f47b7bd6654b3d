package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func sampleEvent() domain.ReservationEvent {
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	return domain.ReservationEvent{
		Type:       domain.EventReservationCreated,
		OccurredAt: at,
		Actor:      domain.TenantActor(7),
		Reservations: []domain.Reservation{
			{
				ID:        1,
				TenantID:  7,
				CourtID:   1,
				CourtName: "Court A",
				Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				StartTime: domain.NewTimeOfDay(19, 0),
				EndTime:   domain.NewTimeOfDay(20, 0),
				Status:    domain.StatusPending,
				Class:     domain.ClassFree,
				Reference: "BK7-1-2025-06-02-AB12",

				LightSurcharge: 50000,
			},
		},
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(sampleEvent())

	_, err := uuid.Parse(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "reservation.created", msg.Type)
	assert.Equal(t, "tenant:7", msg.Actor)
	assert.Equal(t, "BK7-1-2025-06-02-AB12", msg.Reference)
	assert.Equal(t, time.UTC, msg.OccurredAt.Location())

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	rows := decoded["reservations"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "2025-06-10", row["date"])
	assert.Equal(t, "19:00", row["start_time"])
	assert.Equal(t, "20:00", row["end_time"])
	assert.Equal(t, "free", row["booking_class"])
	assert.EqualValues(t, 50000, row["light_surcharge"])
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a := NewMessage(sampleEvent())
	b := NewMessage(sampleEvent())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLogPublisher(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	require.NoError(t, NewLogPublisher(logger).Publish(context.Background(), sampleEvent()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "reservation.created", entry.Data["event"])
	assert.Equal(t, 1, entry.Data["count"])
}
