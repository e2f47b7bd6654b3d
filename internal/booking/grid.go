// Package booking holds the pure parts of the court booking engine: the slot
// grid, date classification, availability annotation, quota and conflict
// checks, pricing and reference generation. Nothing here does I/O; callers
// pass in the clock reading and the reservation rows they loaded.
package booking

import (
	"fmt"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const (
	OpeningHour   = 8
	ClosingHour   = 22
	PeakStartHour = 18
	SlotMinutes   = 60
	SlotsPerDay   = (ClosingHour - OpeningHour) * 60 / SlotMinutes
)

// Slot is one cell of the daily grid.
type Slot struct {
	Key    domain.SlotKey
	End    domain.TimeOfDay
	IsPeak bool
}

func (s Slot) Interval() domain.Interval {
	return domain.Interval{Date: s.Key.Date, Start: s.Key.Start, End: s.End}
}

func IsPeak(start domain.TimeOfDay) bool {
	return start.Hour() >= PeakStartHour
}

func SlotFor(key domain.SlotKey) Slot {
	return Slot{
		Key:    key,
		End:    key.Start.AddMinutes(SlotMinutes),
		IsPeak: IsPeak(key.Start),
	}
}

// DailySlots returns the fixed grid for one date, earliest first.
func DailySlots(date time.Time) []Slot {
	out := make([]Slot, 0, SlotsPerDay)
	for h := OpeningHour; h < ClosingHour; h++ {
		out = append(out, SlotFor(domain.NewSlotKey(date, domain.NewTimeOfDay(h, 0))))
	}
	return out
}

// Grid returns the slots for every date in [from, to], inclusive.
func Grid(from, to time.Time) []Slot {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if to.Before(from) {
		return nil
	}
	days := int(to.Sub(from).Hours()/24) + 1
	out := make([]Slot, 0, days*SlotsPerDay)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DailySlots(d)...)
	}
	return out
}

// ValidateSlotKey rejects keys that are not on the grid.
func ValidateSlotKey(k domain.SlotKey) error {
	if k.Date.IsZero() {
		return fmt.Errorf("%w: missing date", domain.ErrInvalidSlot)
	}
	if k.Start.Minute() != 0 {
		return fmt.Errorf("%w: %s does not start on the hour", domain.ErrInvalidSlot, k)
	}
	if k.Start.Hour() < OpeningHour || k.Start.Hour() >= ClosingHour {
		return fmt.Errorf("%w: %s is outside operating hours %02d:00-%02d:00",
			domain.ErrInvalidSlot, k, OpeningHour, ClosingHour)
	}
	return nil
}
