package booking

import (
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// DefaultPremiumOpenDay is the day of month premium booking opens when no
// override exists for that month.
const DefaultPremiumOpenDay = 25

// PremiumOverrides maps a month to its explicit premium-opening date.
type PremiumOverrides map[YearMonth]time.Time

type YearMonth struct {
	Year  int
	Month time.Month
}

func NewPremiumOverrides(list []domain.PremiumWindowOverride) PremiumOverrides {
	out := make(PremiumOverrides, len(list))
	for _, o := range list {
		out[YearMonth{Year: o.Year, Month: o.Month}] = domain.DateOf(o.OpensOn)
	}
	return out
}

// Window is the set of booking windows derived from one clock reading.
type Window struct {
	Today          time.Time
	FreeStart      time.Time
	FreeEnd        time.Time
	PremiumEnd     time.Time
	PremiumOpensOn time.Time
}

// PremiumOpen reports whether today is the premium-opening date.
func (w Window) PremiumOpen() bool {
	return w.Today.Equal(w.PremiumOpensOn)
}

// Classifier maps dates to booking classes. The zero value uses
// DefaultPremiumOpenDay.
type Classifier struct {
	OpenDay int
}

func NewClassifier(openDay int) Classifier {
	return Classifier{OpenDay: openDay}
}

// Window computes the booking windows for now. now must already be in the
// site's location.
func (c Classifier) Window(now time.Time, overrides PremiumOverrides) Window {
	today := domain.DateOf(now)
	freeStart := domain.WeekAnchor(today).AddDate(0, 0, 7)
	return Window{
		Today:          today,
		FreeStart:      freeStart,
		FreeEnd:        freeStart.AddDate(0, 0, 6),
		PremiumEnd:     time.Date(today.Year(), today.Month()+2, 0, 0, 0, 0, 0, time.UTC),
		PremiumOpensOn: c.openingDate(today, overrides),
	}
}

// Classify returns free, premium or none for date.
func (c Classifier) Classify(date, now time.Time, overrides PremiumOverrides) domain.BookingClass {
	return c.Window(now, overrides).Classify(date)
}

func (w Window) Classify(date time.Time) domain.BookingClass {
	d := domain.DateOf(date)
	if !d.Before(w.FreeStart) && !d.After(w.FreeEnd) {
		return domain.ClassFree
	}
	if d.After(w.FreeEnd) && !d.After(w.PremiumEnd) && w.PremiumOpen() {
		return domain.ClassPremium
	}
	return domain.ClassNone
}

// openingDate is this month's opening date, or next month's once this
// month's has passed.
func (c Classifier) openingDate(today time.Time, overrides PremiumOverrides) time.Time {
	current := c.openingFor(today.Year(), today.Month(), overrides)
	if !today.After(current) {
		return current
	}
	next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return c.openingFor(next.Year(), next.Month(), overrides)
}

func (c Classifier) openingFor(year int, month time.Month, overrides PremiumOverrides) time.Time {
	if d, ok := overrides[YearMonth{Year: year, Month: month}]; ok {
		return d
	}
	day := c.OpenDay
	if day <= 0 {
		day = DefaultPremiumOpenDay
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return time.Date(year, month, min(day, last), 0, 0, 0, 0, time.UTC)
}
