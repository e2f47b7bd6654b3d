package booking

import (
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

type SlotStatus string

const (
	SlotOpen    SlotStatus = "open"
	SlotBooked  SlotStatus = "booked"
	SlotPending SlotStatus = "pending"
	SlotPast    SlotStatus = "past"
)

// AnnotatedSlot is a grid slot with its status for one court.
type AnnotatedSlot struct {
	Slot
	Status      SlotStatus
	Class       domain.BookingClass
	Selectable  bool
	Quote       Quote
	Reservation *domain.Reservation
}

type Availability struct {
	Court  domain.Court
	From   time.Time
	To     time.Time
	Window Window
	Slots  []AnnotatedSlot
}

// Resolve annotates the grid for [from, to] with the given reservations.
// Cancelled rows are ignored. now must be in the site's location; a slot is
// past once its start instant is not after now.
func Resolve(court domain.Court, from, to, now time.Time, window Window, pricing Pricing, reservations []domain.Reservation) Availability {
	occupied := indexOccupancy(reservations)
	grid := Grid(from, to)

	out := Availability{
		Court:  court,
		From:   domain.DateOf(from),
		To:     domain.DateOf(to),
		Window: window,
		Slots:  make([]AnnotatedSlot, 0, len(grid)),
	}
	for _, s := range grid {
		a := AnnotatedSlot{
			Slot:  s,
			Class: window.Classify(s.Key.Date),
		}
		a.Quote = pricing.Quote(court, a.Class, s.Key.Start)
		if r, ok := occupied[s.Key.String()]; ok {
			a.Reservation = r
		}
		switch {
		case !s.Key.At(now.Location()).After(now):
			a.Status = SlotPast
		case a.Reservation != nil && a.Reservation.Status == domain.StatusConfirmed:
			a.Status = SlotBooked
		case a.Reservation != nil:
			a.Status = SlotPending
		default:
			a.Status = SlotOpen
		}
		a.Selectable = a.Status == SlotOpen && a.Class.Bookable()
		out.Slots = append(out.Slots, a)
	}
	return out
}

// indexOccupancy maps every grid slot overlapped by an active reservation to
// that reservation. A confirmed row wins over a pending one.
func indexOccupancy(reservations []domain.Reservation) map[string]*domain.Reservation {
	out := make(map[string]*domain.Reservation, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		if !r.Status.Active() {
			continue
		}
		iv := r.Interval()
		for h := r.StartTime.Hour(); h < ClosingHour; h++ {
			slot := SlotFor(domain.NewSlotKey(r.Date, domain.NewTimeOfDay(h, 0)))
			if !slot.Interval().Overlaps(iv) {
				if slot.Key.Start >= r.EndTime {
					break
				}
				continue
			}
			key := slot.Key.String()
			if prev, ok := out[key]; ok && prev.Status == domain.StatusConfirmed {
				continue
			}
			out[key] = r
		}
	}
	return out
}

// Selectable reports whether key is open and bookable in a. Keys outside a's
// range are not selectable.
func (a Availability) Selectable(key domain.SlotKey) bool {
	for _, s := range a.Slots {
		if s.Key.String() == key.String() {
			return s.Selectable
		}
	}
	return false
}
