package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func TestCheckQuota(t *testing.T) {
	t.Parallel()

	// Week of Monday 2025-06-09.
	twoDays := []domain.Reservation{
		reservation(1, 7, 1, "2025-06-09", hm(10, 0), hm(11, 0), domain.StatusConfirmed),
		reservation(2, 7, 1, "2025-06-10", hm(10, 0), hm(11, 0), domain.StatusConfirmed),
		reservation(3, 7, 2, "2025-06-10", hm(12, 0), hm(13, 0), domain.StatusPending),
	}
	threeDays := append([]domain.Reservation{
		reservation(4, 7, 1, "2025-06-11", hm(9, 0), hm(10, 0), domain.StatusConfirmed),
	}, twoDays...)

	tests := []struct {
		name     string
		existing []domain.Reservation
		selected []string
		want     []domain.QuotaRule
	}{
		{
			name:     "third distinct day fits",
			existing: twoDays,
			selected: []string{"2025-06-12 10:00"},
		},
		{
			name:     "fourth distinct day breaks weekly cap",
			existing: threeDays,
			selected: []string{"2025-06-12 10:00"},
			want:     []domain.QuotaRule{domain.QuotaWeeklyDays},
		},
		{
			name:     "second slot on a used day fits",
			existing: twoDays,
			selected: []string{"2025-06-09 15:00"},
		},
		{
			name:     "third slot on a full day breaks daily cap",
			existing: twoDays,
			selected: []string{"2025-06-10 15:00"},
			want:     []domain.QuotaRule{domain.QuotaDailyCap},
		},
		{
			name:     "both rules",
			existing: threeDays,
			selected: []string{"2025-06-10 15:00", "2025-06-13 10:00"},
			want:     []domain.QuotaRule{domain.QuotaDailyCap, domain.QuotaWeeklyDays},
		},
		{
			name:     "selection alone over daily cap",
			selected: []string{"2025-06-12 10:00", "2025-06-12 11:00", "2025-06-12 12:00"},
			want:     []domain.QuotaRule{domain.QuotaDailyCap},
		},
		{
			name:     "duplicate keys count once",
			selected: []string{"2025-06-12 10:00", "2025-06-12 10:00", "2025-06-12 11:00"},
		},
		{
			name:     "other week does not count",
			existing: threeDays,
			selected: []string{"2025-06-16 10:00"},
		},
		{
			name: "cancelled rows are ignored",
			existing: []domain.Reservation{
				reservation(1, 7, 1, "2025-06-12", hm(10, 0), hm(11, 0), domain.StatusCancelled),
				reservation(2, 7, 1, "2025-06-12", hm(11, 0), hm(12, 0), domain.StatusCancelled),
			},
			selected: []string{"2025-06-12 15:00", "2025-06-12 16:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := make([]domain.SlotKey, 0, len(tt.selected))
			for _, s := range tt.selected {
				keys = append(keys, key(t, s))
			}
			res := CheckQuota(DefaultQuotaLimits(), tt.existing, CourtSlots(1, keys))

			var got []domain.QuotaRule
			for _, v := range res.Violations {
				got = append(got, v.Rule)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, res.OK())
			if !res.OK() {
				err := res.Err()
				if !errors.Is(err, domain.ErrQuotaExceeded) {
					t.Fatalf("expected ErrQuotaExceeded, got %v", err)
				}
				assert.Len(t, res.Reasons(), len(tt.want))
			}
		})
	}
}

func TestCheckQuotaReportsCounts(t *testing.T) {
	t.Parallel()

	existing := []domain.Reservation{
		reservation(1, 7, 1, "2025-06-10", hm(10, 0), hm(11, 0), domain.StatusConfirmed),
		reservation(2, 7, 1, "2025-06-10", hm(11, 0), hm(12, 0), domain.StatusConfirmed),
	}
	res := CheckQuota(DefaultQuotaLimits(), existing, CourtSlots(1, []domain.SlotKey{key(t, "2025-06-10 15:00")}))
	require.Len(t, res.Violations, 1)

	v := res.Violations[0]
	assert.Equal(t, date("2025-06-10"), v.Date)
	assert.Equal(t, 3, v.Count)
	assert.Equal(t, 2, v.Limit)
	assert.Contains(t, v.Reason(), "2025-06-10")
}

func TestQuotaLimitsForTenant(t *testing.T) {
	t.Parallel()

	l := DefaultQuotaLimits().ForTenant(domain.Tenant{MaxDaysPerWeek: 5})
	assert.Equal(t, 5, l.MaxDaysPerWeek)
	assert.Equal(t, DefaultMaxSlotsPerDay, l.MaxSlotsPerDay)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	existing := []domain.Reservation{
		reservation(1, 7, 1, "2025-06-09", hm(10, 0), hm(11, 0), domain.StatusConfirmed),
		reservation(2, 7, 1, "2025-06-10", hm(10, 0), hm(11, 0), domain.StatusPending),
		reservation(3, 7, 1, "2025-06-10", hm(12, 0), hm(13, 0), domain.StatusCancelled),
	}
	snap := Snapshot(domain.Tenant{ID: 7}, DefaultQuotaLimits(), existing, date("2025-06-10"))

	assert.Equal(t, int64(7), snap.TenantID)
	assert.Equal(t, date("2025-06-09"), snap.WeekAnchor)
	assert.Equal(t, 2, snap.DaysUsed)
	assert.Equal(t, 1, snap.SlotsOnDate)
	assert.Equal(t, 1, snap.DaysRemaining())
	assert.Equal(t, 1, snap.SlotsRemaining())
}

func TestCheckQuotaCountsSameHourOnEachCourt(t *testing.T) {
	t.Parallel()

	ten := key(t, "2025-06-10 10:00")
	selected := append(CourtSlots(1, []domain.SlotKey{ten, key(t, "2025-06-10 11:00")}), CourtSlot{CourtID: 2, Key: ten})
	res := CheckQuota(DefaultQuotaLimits(), nil, selected)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, domain.QuotaDailyCap, res.Violations[0].Rule)
	assert.Equal(t, 3, res.Violations[0].Count)

	again := CheckQuota(DefaultQuotaLimits(), nil, append(CourtSlots(1, []domain.SlotKey{ten}), CourtSlot{CourtID: 1, Key: ten}))
	assert.True(t, again.OK(), "the same slot on the same court counts once")
}
