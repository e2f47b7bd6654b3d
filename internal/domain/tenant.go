package domain

import "time"

// Tenant books courts. Zero quota fields mean "use the site default".
type Tenant struct {
	ID             int64
	DisplayName    string
	Active         bool
	MaxDaysPerWeek int
	MaxSlotsPerDay int
	CreatedAt      time.Time
}

// QuotaSnapshot is derived from reservation rows on demand; it is never stored.
type QuotaSnapshot struct {
	TenantID       int64
	Date           time.Time
	WeekAnchor     time.Time
	DaysUsed       int
	MaxDays        int
	SlotsOnDate    int
	MaxSlotsPerDay int
}

func (s QuotaSnapshot) DaysRemaining() int {
	return max(s.MaxDays-s.DaysUsed, 0)
}

func (s QuotaSnapshot) SlotsRemaining() int {
	return max(s.MaxSlotsPerDay-s.SlotsOnDate, 0)
}
