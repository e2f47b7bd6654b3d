package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (seconds must be zero).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSlot, s)
	}
	if t.Second() != 0 {
		return 0, fmt.Errorf("%w: time %q has seconds", ErrInvalidSlot, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) AddMinutes(m int) TimeOfDay { return t + TimeOfDay(m) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// DateOf truncates t to its calendar date (in t's own location) and returns
// it as midnight UTC, which is how dates are compared and stored.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// WeekAnchor returns the Monday of the ISO week containing d.
func WeekAnchor(d time.Time) time.Time {
	d = DateOf(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// SlotKey identifies one bookable unit on a court: a date plus a start time.
type SlotKey struct {
	Date  time.Time
	Start TimeOfDay
}

func NewSlotKey(date time.Time, start TimeOfDay) SlotKey {
	return SlotKey{Date: DateOf(date), Start: start}
}

// ParseSlotKey accepts "YYYY-MM-DD HH:MM" or "YYYY-MM-DDTHH:MM".
func ParseSlotKey(s string) (SlotKey, error) {
	s = strings.TrimSpace(s)
	datePart, timePart, ok := strings.Cut(s, " ")
	if !ok {
		datePart, timePart, ok = strings.Cut(s, "T")
	}
	if !ok {
		return SlotKey{}, fmt.Errorf("%w: malformed key %q", ErrInvalidSlot, s)
	}
	date, err := ParseDate(datePart)
	if err != nil {
		return SlotKey{}, fmt.Errorf("%w: malformed key %q", ErrInvalidSlot, s)
	}
	start, err := ParseTimeOfDay(timePart)
	if err != nil {
		return SlotKey{}, err
	}
	return NewSlotKey(date, start), nil
}

func (k SlotKey) String() string {
	return k.Date.Format(DateLayout) + " " + k.Start.String()
}

// At returns the instant the slot starts in loc.
func (k SlotKey) At(loc *time.Location) time.Time {
	return time.Date(k.Date.Year(), k.Date.Month(), k.Date.Day(), k.Start.Hour(), k.Start.Minute(), 0, 0, loc)
}

func (k SlotKey) WeekAnchor() time.Time { return WeekAnchor(k.Date) }

// Interval is a [Start, End) span of wall-clock time on one date.
type Interval struct {
	Date  time.Time
	Start TimeOfDay
	End   TimeOfDay
}

func (i Interval) Overlaps(o Interval) bool {
	if !DateOf(i.Date).Equal(DateOf(o.Date)) {
		return false
	}
	return i.Start < o.End && o.Start < i.End
}
