package domain

import "time"

// Court is bookable reference data maintained by an operator.
// Amounts are whole currency units.
type Court struct {
	ID             int64
	Name           string
	HourlyRate     int64
	LightSurcharge int64
	Active         bool
	CreatedAt      time.Time
}
