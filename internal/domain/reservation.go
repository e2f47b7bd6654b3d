package domain

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s ReservationStatus) Active() bool { return s != StatusCancelled }

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Staying in the same non-terminal status is allowed so edits can leave the
// status untouched.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusPending || next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusConfirmed || next == StatusCancelled
	}
	return false
}

// BookingClass is the eligibility class a date falls into.
type BookingClass string

const (
	ClassFree    BookingClass = "free"
	ClassPremium BookingClass = "premium"
	ClassNone    BookingClass = "none"
)

func ParseBookingClass(s string) (BookingClass, error) {
	switch c := BookingClass(s); c {
	case ClassFree, ClassPremium, ClassNone:
		return c, nil
	}
	return "", ErrInvalidBookingClass
}

// Bookable reports whether reservations may carry this class.
func (c BookingClass) Bookable() bool {
	return c == ClassFree || c == ClassPremium
}

// Reservation is one persisted booking of one slot. CourtName is a read-side
// join used for conflict display and is not stored on the row.
type Reservation struct {
	ID         int64
	TenantID   int64
	CourtID    int64
	CourtName  string
	Date       time.Time
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	Status     ReservationStatus
	Class      BookingClass
	WeekAnchor time.Time

	Price          int64
	LightSurcharge int64
	IsPeak         bool
	Reference      string

	Notes              string
	CancellationReason string

	CreatedBy   string
	CreatedAt   time.Time
	ApprovedBy  string
	ApprovedAt  *time.Time
	CancelledBy string
	CancelledAt *time.Time
	EditedBy    string
	EditedAt    *time.Time
}

func (r Reservation) Slot() SlotKey {
	return NewSlotKey(r.Date, r.StartTime)
}

func (r Reservation) Interval() Interval {
	return Interval{Date: DateOf(r.Date), Start: r.StartTime, End: r.EndTime}
}

// ReservationEvent is emitted after reservation rows change.
type ReservationEvent struct {
	Type         string
	OccurredAt   time.Time
	Actor        Actor
	Reservations []Reservation
}

const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationUpdated   = "reservation.updated"
)
