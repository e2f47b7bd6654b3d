package domain

import "time"

// PremiumWindowOverride replaces the default premium-opening day for one
// calendar month.
type PremiumWindowOverride struct {
	Year    int
	Month   time.Month
	OpensOn time.Time
}

func (o PremiumWindowOverride) Validate() error {
	if o.Month < time.January || o.Month > time.December || o.Year < 2000 {
		return ErrInvalidOverride
	}
	if o.OpensOn.IsZero() {
		return ErrInvalidOverride
	}
	return nil
}
