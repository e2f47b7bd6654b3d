package booking

import (
	"sort"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// Selection is a slot the tenant is selecting on some court but has not yet
// committed.
type Selection struct {
	CourtID   int64
	CourtName string
	Interval  domain.Interval
}

// ConflictInput carries everything the detector needs for one tenant's
// candidate slots on one court.
type ConflictInput struct {
	TenantID int64
	CourtID  int64
	// Candidates are the intervals being booked on CourtID.
	Candidates []domain.Interval
	// CourtReservations are rows on CourtID for the candidates' dates.
	CourtReservations []domain.Reservation
	// TenantReservations are the tenant's rows on any court for those dates.
	TenantReservations []domain.Reservation
	// Concurrent are the tenant's other in-flight selections.
	Concurrent []Selection
	CrossCourt bool
}

type ConflictReport struct {
	SlotConflicts       []domain.SlotKey
	CrossCourtConflicts []domain.CrossCourtConflict
	courtID             int64
}

func (r ConflictReport) OK() bool {
	return len(r.SlotConflicts) == 0 && len(r.CrossCourtConflicts) == 0
}

// Err reports same-slot conflicts first since they cannot be fixed by the
// tenant's own bookings elsewhere.
func (r ConflictReport) Err() error {
	if len(r.SlotConflicts) > 0 {
		return &domain.SlotConflictError{CourtID: r.courtID, Slots: r.SlotConflicts}
	}
	if len(r.CrossCourtConflicts) > 0 {
		return &domain.CrossCourtConflictError{Conflicts: r.CrossCourtConflicts}
	}
	return nil
}

func DetectConflicts(in ConflictInput) ConflictReport {
	rep := ConflictReport{
		courtID:       in.CourtID,
		SlotConflicts: SameSlotConflicts(in.CourtID, in.Candidates, in.CourtReservations),
	}
	if in.CrossCourt {
		rep.CrossCourtConflicts = CrossCourtConflicts(in.CourtID, in.Candidates, in.TenantReservations, in.Concurrent)
	}
	return rep
}

// SameSlotConflicts returns the candidates already occupied on courtID by any
// tenant's active reservation.
func SameSlotConflicts(courtID int64, candidates []domain.Interval, reservations []domain.Reservation) []domain.SlotKey {
	var out []domain.SlotKey
	for _, c := range candidates {
		for _, r := range reservations {
			if r.CourtID != courtID || !r.Status.Active() {
				continue
			}
			if r.Interval().Overlaps(c) {
				out = append(out, domain.NewSlotKey(c.Date, c.Start))
				break
			}
		}
	}
	SortSlotKeys(out)
	return out
}

// CrossCourtConflicts returns the tenant's reservations and selections on
// other courts that overlap a candidate.
func CrossCourtConflicts(courtID int64, candidates []domain.Interval, held []domain.Reservation, concurrent []Selection) []domain.CrossCourtConflict {
	var out []domain.CrossCourtConflict
	for _, c := range candidates {
		key := domain.NewSlotKey(c.Date, c.Start)
		for _, r := range held {
			if r.CourtID == courtID || !r.Status.Active() {
				continue
			}
			if r.Interval().Overlaps(c) {
				out = append(out, domain.CrossCourtConflict{
					Slot:      key,
					CourtID:   r.CourtID,
					CourtName: r.CourtName,
					Start:     r.StartTime,
					End:       r.EndTime,
					Reference: r.Reference,
				})
			}
		}
		for _, s := range concurrent {
			if s.CourtID == courtID {
				continue
			}
			if s.Interval.Overlaps(c) {
				out = append(out, domain.CrossCourtConflict{
					Slot:      key,
					CourtID:   s.CourtID,
					CourtName: s.CourtName,
					Start:     s.Interval.Start,
					End:       s.Interval.End,
				})
			}
		}
	}
	return out
}

// Intervals converts grid keys into candidate intervals.
func Intervals(keys []domain.SlotKey) []domain.Interval {
	out := make([]domain.Interval, 0, len(keys))
	for _, k := range keys {
		out = append(out, SlotFor(k).Interval())
	}
	return out
}

// SortSlotKeys orders keys by date then start time.
func SortSlotKeys(keys []domain.SlotKey) {
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date.Equal(keys[j].Date) {
			return keys[i].Date.Before(keys[j].Date)
		}
		return keys[i].Start < keys[j].Start
	})
}
