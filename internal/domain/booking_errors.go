package domain

import (
	"fmt"
	"strings"
	"time"
)

// SlotConflictError lists slots on a court that are already held by a
// non-cancelled reservation.
type SlotConflictError struct {
	CourtID int64
	Slots   []SlotKey
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotConflict, joinSlots(e.Slots))
}

func (e *SlotConflictError) Unwrap() error { return ErrSlotConflict }

// CrossCourtConflict describes one reservation (or in-flight selection) on
// another court that overlaps a candidate slot.
type CrossCourtConflict struct {
	Slot      SlotKey
	CourtID   int64
	CourtName string
	Start     TimeOfDay
	End       TimeOfDay
	Reference string
}

func (c CrossCourtConflict) String() string {
	s := fmt.Sprintf("%s %s %s-%s", c.CourtName, c.Slot.Date.Format(DateLayout), c.Start, c.End)
	if c.Reference != "" {
		s += " (" + c.Reference + ")"
	}
	return s
}

type CrossCourtConflictError struct {
	Conflicts []CrossCourtConflict
}

func (e *CrossCourtConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("%s: %s", ErrCrossCourtConflict, strings.Join(parts, ", "))
}

func (e *CrossCourtConflictError) Unwrap() error { return ErrCrossCourtConflict }

type QuotaRule string

const (
	QuotaDailyCap   QuotaRule = "daily_cap"
	QuotaWeeklyDays QuotaRule = "weekly_day_cap"
)

// QuotaViolation names the broken rule and the offending count. For the
// weekly rule Date is the week anchor.
type QuotaViolation struct {
	Rule  QuotaRule
	Date  time.Time
	Count int
	Limit int
}

func (v QuotaViolation) Reason() string {
	switch v.Rule {
	case QuotaDailyCap:
		return fmt.Sprintf("daily cap exceeded on %s: %d slots booked, limit %d",
			v.Date.Format(DateLayout), v.Count, v.Limit)
	case QuotaWeeklyDays:
		return fmt.Sprintf("weekly cap exceeded for week of %s: %d distinct days booked, limit %d",
			v.Date.Format(DateLayout), v.Count, v.Limit)
	}
	return string(v.Rule)
}

type QuotaExceededError struct {
	Violations []QuotaViolation
}

func (e *QuotaExceededError) Error() string {
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		reasons = append(reasons, v.Reason())
	}
	return fmt.Sprintf("%s: %s", ErrQuotaExceeded, strings.Join(reasons, "; "))
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// WindowClosedError lists slots whose date is not bookable right now.
type WindowClosedError struct {
	Slots []SlotKey
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBookingWindowClosed, joinSlots(e.Slots))
}

func (e *WindowClosedError) Unwrap() error { return ErrBookingWindowClosed }

// PersistenceError wraps a storage failure. The batch it belongs to was
// rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistenceFailure, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistenceFailure, e.Err} }

func joinSlots(slots []SlotKey) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
