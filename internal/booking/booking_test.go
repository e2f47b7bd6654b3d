package booking

import (
	"testing"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func date(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func key(t *testing.T, s string) domain.SlotKey {
	t.Helper()
	k, err := domain.ParseSlotKey(s)
	if err != nil {
		t.Fatalf("parse slot key %q: %v", s, err)
	}
	return k
}

func hm(h, m int) domain.TimeOfDay { return domain.NewTimeOfDay(h, m) }

func reservation(id, tenantID, courtID int64, day string, start, end domain.TimeOfDay, status domain.ReservationStatus) domain.Reservation {
	return domain.Reservation{
		ID:         id,
		TenantID:   tenantID,
		CourtID:    courtID,
		Date:       date(day),
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		Class:      domain.ClassFree,
		WeekAnchor: domain.WeekAnchor(date(day)),
	}
}
