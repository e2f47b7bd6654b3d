package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func TestResolveAnnotatesSlots(t *testing.T) {
	t.Parallel()

	court := domain.Court{ID: 1, Name: "Court A", LightSurcharge: 50000, Active: true}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, jakarta)
	window := Classifier{}.Window(now, nil)
	rows := []domain.Reservation{
		reservation(1, 7, 1, "2025-06-10", hm(10, 0), hm(11, 0), domain.StatusConfirmed),
		reservation(2, 8, 1, "2025-06-10", hm(14, 0), hm(15, 0), domain.StatusPending),
		reservation(3, 9, 1, "2025-06-10", hm(16, 0), hm(17, 0), domain.StatusCancelled),
	}

	av := Resolve(court, date("2025-06-10"), date("2025-06-10"), now, window, NewPricing(DefaultPremiumPrice), rows)
	require.Len(t, av.Slots, SlotsPerDay)

	byKey := make(map[string]AnnotatedSlot, len(av.Slots))
	for _, s := range av.Slots {
		byKey[s.Key.String()] = s
	}

	assert.Equal(t, SlotBooked, byKey["2025-06-10 10:00"].Status)
	assert.Equal(t, int64(1), byKey["2025-06-10 10:00"].Reservation.ID)
	assert.Equal(t, SlotPending, byKey["2025-06-10 14:00"].Status)
	assert.Equal(t, SlotOpen, byKey["2025-06-10 16:00"].Status)
	assert.True(t, byKey["2025-06-10 16:00"].Selectable)
	assert.False(t, byKey["2025-06-10 10:00"].Selectable)

	peak := byKey["2025-06-10 19:00"]
	assert.True(t, peak.IsPeak)
	assert.Equal(t, int64(50000), peak.Quote.LightSurcharge)
	assert.Equal(t, domain.ClassFree, peak.Class)
	assert.Zero(t, peak.Quote.Price)
}

func TestResolveMarksPastSlots(t *testing.T) {
	t.Parallel()

	court := domain.Court{ID: 1, Name: "Court A", Active: true}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, jakarta)
	window := Classifier{}.Window(now, nil)

	av := Resolve(court, date("2025-06-10"), date("2025-06-10"), now, window, Pricing{}, nil)
	for _, s := range av.Slots {
		if s.Key.Start.Hour() <= 12 {
			assert.Equal(t, SlotPast, s.Status, s.Key.String())
			assert.False(t, s.Selectable)
		} else {
			assert.Equal(t, SlotOpen, s.Status, s.Key.String())
			// Today is outside both windows.
			assert.False(t, s.Selectable)
		}
	}
}

func TestResolveOverlappingReservationOccupiesEverySlotItTouches(t *testing.T) {
	t.Parallel()

	court := domain.Court{ID: 2, Name: "Court B", Active: true}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, jakarta)
	rows := []domain.Reservation{
		reservation(1, 7, 2, "2025-06-10", hm(10, 30), hm(11, 30), domain.StatusConfirmed),
	}

	av := Resolve(court, date("2025-06-10"), date("2025-06-10"), now, Classifier{}.Window(now, nil), Pricing{}, rows)

	assert.False(t, av.Selectable(domain.NewSlotKey(date("2025-06-10"), hm(10, 0))))
	assert.False(t, av.Selectable(domain.NewSlotKey(date("2025-06-10"), hm(11, 0))))
	assert.True(t, av.Selectable(domain.NewSlotKey(date("2025-06-10"), hm(12, 0))))
	assert.False(t, av.Selectable(domain.NewSlotKey(date("2025-06-20"), hm(12, 0))))
}
