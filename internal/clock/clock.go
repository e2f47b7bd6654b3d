package clock

import "time"

// Clock allows injecting time in domain/services.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystem returns a clock backed by time.Now, reporting instants in loc.
// A nil loc means UTC.
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
// The instant keeps its location so date math happens in the caller's zone.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// In returns a clock that reports c's instants in loc.
func In(c Clock, loc *time.Location) Clock {
	return locatedClock{base: c, loc: loc}
}

type locatedClock struct {
	base Clock
	loc  *time.Location
}

func (c locatedClock) Now() time.Time {
	return c.base.Now().In(c.loc)
}
