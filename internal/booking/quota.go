package booking

import (
	"sort"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const (
	DefaultMaxSlotsPerDay = 2
	DefaultMaxDaysPerWeek = 3
)

type QuotaLimits struct {
	MaxSlotsPerDay int
	MaxDaysPerWeek int
}

func DefaultQuotaLimits() QuotaLimits {
	return QuotaLimits{MaxSlotsPerDay: DefaultMaxSlotsPerDay, MaxDaysPerWeek: DefaultMaxDaysPerWeek}
}

// ForTenant applies the tenant's own limits where it has any.
func (l QuotaLimits) ForTenant(t domain.Tenant) QuotaLimits {
	if t.MaxSlotsPerDay > 0 {
		l.MaxSlotsPerDay = t.MaxSlotsPerDay
	}
	if t.MaxDaysPerWeek > 0 {
		l.MaxDaysPerWeek = t.MaxDaysPerWeek
	}
	return l
}

type QuotaResult struct {
	Violations []domain.QuotaViolation
}

func (r QuotaResult) OK() bool { return len(r.Violations) == 0 }

func (r QuotaResult) Reasons() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Reason())
	}
	return out
}

// Err returns a *domain.QuotaExceededError, or nil when every rule holds.
func (r QuotaResult) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.QuotaExceededError{Violations: r.Violations}
}

// CourtSlot is one selected slot on a specific court. The same hour picked on
// two courts is two units of quota.
type CourtSlot struct {
	CourtID int64
	Key     domain.SlotKey
}

// CourtSlots qualifies keys selected on one court.
func CourtSlots(courtID int64, keys []domain.SlotKey) []CourtSlot {
	out := make([]CourtSlot, 0, len(keys))
	for _, k := range keys {
		out = append(out, CourtSlot{CourtID: courtID, Key: k})
	}
	return out
}

// CheckQuota evaluates both caps over existing ∪ selected. It always
// recomputes from scratch so removing a slot can free quota for the rest of
// the selection. Cancelled rows in existing are ignored; a slot selected twice
// on the same court counts once.
func CheckQuota(limits QuotaLimits, existing []domain.Reservation, selected []CourtSlot) QuotaResult {
	u := newUsage()
	for _, r := range existing {
		if r.Status.Active() {
			u.add(r.Date)
		}
	}
	seen := make(map[CourtSlot]struct{}, len(selected))
	for _, s := range selected {
		s.Key.Date = domain.DateOf(s.Key.Date)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		u.add(s.Key.Date)
	}

	var res QuotaResult
	for _, date := range u.sortedDates() {
		if n := u.perDate[date]; n > limits.MaxSlotsPerDay {
			res.Violations = append(res.Violations, domain.QuotaViolation{
				Rule:  domain.QuotaDailyCap,
				Date:  date,
				Count: n,
				Limit: limits.MaxSlotsPerDay,
			})
		}
	}
	for _, week := range u.sortedWeeks() {
		if n := len(u.perWeek[week]); n > limits.MaxDaysPerWeek {
			res.Violations = append(res.Violations, domain.QuotaViolation{
				Rule:  domain.QuotaWeeklyDays,
				Date:  week,
				Count: n,
				Limit: limits.MaxDaysPerWeek,
			})
		}
	}
	return res
}

// Snapshot reports the tenant's usage for date's day and week.
func Snapshot(tenant domain.Tenant, limits QuotaLimits, existing []domain.Reservation, date time.Time) domain.QuotaSnapshot {
	limits = limits.ForTenant(tenant)
	u := newUsage()
	for _, r := range existing {
		if r.Status.Active() {
			u.add(r.Date)
		}
	}
	date = domain.DateOf(date)
	week := domain.WeekAnchor(date)
	return domain.QuotaSnapshot{
		TenantID:       tenant.ID,
		Date:           date,
		WeekAnchor:     week,
		DaysUsed:       len(u.perWeek[week]),
		MaxDays:        limits.MaxDaysPerWeek,
		SlotsOnDate:    u.perDate[date],
		MaxSlotsPerDay: limits.MaxSlotsPerDay,
	}
}

type usage struct {
	perDate map[time.Time]int
	perWeek map[time.Time]map[time.Time]struct{}
}

func newUsage() *usage {
	return &usage{
		perDate: make(map[time.Time]int),
		perWeek: make(map[time.Time]map[time.Time]struct{}),
	}
}

func (u *usage) add(date time.Time) {
	date = domain.DateOf(date)
	u.perDate[date]++
	week := domain.WeekAnchor(date)
	days, ok := u.perWeek[week]
	if !ok {
		days = make(map[time.Time]struct{})
		u.perWeek[week] = days
	}
	days[date] = struct{}{}
}

func (u *usage) sortedDates() []time.Time {
	return sortedKeys(u.perDate)
}

func (u *usage) sortedWeeks() []time.Time {
	return sortedKeys(u.perWeek)
}

func sortedKeys[V any](m map[time.Time]V) []time.Time {
	out := make([]time.Time, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
