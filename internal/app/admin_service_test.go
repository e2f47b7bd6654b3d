package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func TestAdminService_Courts(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewAdminService(store, clock.NewFixed(mondayMorning))

	got, err := svc.CreateCourt(context.Background(), CourtInput{Name: "  Court D ", HourlyRate: 100000, LightSurcharge: 40000})
	require.NoError(t, err)
	assert.Equal(t, "Court D", got.Name)
	assert.True(t, got.Active)
	assert.NotZero(t, got.ID)

	_, err = svc.CreateCourt(context.Background(), CourtInput{Name: "Court D"})
	assert.ErrorIs(t, err, domain.ErrCourtAlreadyExists)
	_, err = svc.CreateCourt(context.Background(), CourtInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrCourtNameRequired)
	_, err = svc.CreateCourt(context.Background(), CourtInput{Name: "Court E", LightSurcharge: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	inactive := false
	updated, err := svc.UpdateCourt(context.Background(), got.ID, CourtInput{Name: "Court D", LightSurcharge: 45000, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.EqualValues(t, 45000, updated.LightSurcharge)

	_, err = svc.UpdateCourt(context.Background(), 0, CourtInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.UpdateCourt(context.Background(), 99, CourtInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrCourtNotFound)

	courts, err := svc.ListCourts(context.Background())
	require.NoError(t, err)
	assert.Len(t, courts, 4)
}

func TestAdminService_Tenants(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewAdminService(store, clock.NewFixed(mondayMorning))

	got, err := svc.CreateTenant(context.Background(), TenantInput{DisplayName: " D-01 ", MaxDaysPerWeek: 4})
	require.NoError(t, err)
	assert.Equal(t, "D-01", got.DisplayName)
	assert.True(t, got.Active)
	assert.Equal(t, 4, got.MaxDaysPerWeek)

	tests := []struct {
		name string
		in   TenantInput
		want error
	}{
		{name: "blank name", in: TenantInput{}, want: domain.ErrTenantNameRequired},
		{name: "more than seven days", in: TenantInput{DisplayName: "x", MaxDaysPerWeek: 8}, want: domain.ErrInvalidQuota},
		{name: "negative daily cap", in: TenantInput{DisplayName: "x", MaxSlotsPerDay: -1}, want: domain.ErrInvalidQuota},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTenant(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	tenants, err := svc.ListTenants(context.Background())
	require.NoError(t, err)
	assert.Len(t, tenants, 4)
}

func TestAdminService_PremiumOverrides(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewAdminService(store, clock.NewFixed(mondayMorning))

	got, err := svc.SetPremiumOverride(context.Background(), domain.PremiumWindowOverride{
		Year:    2025,
		Month:   time.July,
		OpensOn: time.Date(2025, 6, 20, 15, 0, 0, 0, wib),
	})
	require.NoError(t, err)
	assert.Equal(t, day("2025-06-20"), got.OpensOn)

	_, err = svc.SetPremiumOverride(context.Background(), domain.PremiumWindowOverride{Year: 2025, Month: time.July, OpensOn: day("2025-06-22")})
	require.NoError(t, err)

	list, err := svc.ListPremiumOverrides(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, day("2025-06-22"), list[0].OpensOn)

	_, err = svc.SetPremiumOverride(context.Background(), domain.PremiumWindowOverride{Year: 2025, Month: time.May, OpensOn: day("2025-04-25")})
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
	_, err = svc.SetPremiumOverride(context.Background(), domain.PremiumWindowOverride{Year: 2025, Month: 13, OpensOn: day("2025-04-25")})
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)

	require.NoError(t, svc.DeletePremiumOverride(context.Background(), 2025, time.July))
	assert.ErrorIs(t, svc.DeletePremiumOverride(context.Background(), 2025, time.July), domain.ErrOverrideNotFound)
	assert.ErrorIs(t, svc.DeletePremiumOverride(context.Background(), 2025, 0), domain.ErrInvalidOverride)
}
