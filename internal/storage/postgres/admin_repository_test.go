package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/testutil"
)

func TestAdminRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewAdminRepository(pool)

	t.Run("courts", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		court, err := repo.CreateCourt(ctx, domain.Court{Name: "Court A", HourlyRate: 100000, LightSurcharge: 50000, Active: true})
		require.NoError(t, err)
		assert.NotZero(t, court.ID)
		assert.False(t, court.CreatedAt.IsZero())

		_, err = repo.CreateCourt(ctx, domain.Court{Name: "court a", Active: true})
		assert.ErrorIs(t, err, domain.ErrCourtAlreadyExists)

		court.Active = false
		court.LightSurcharge = 60000
		updated, err := repo.UpdateCourt(ctx, court)
		require.NoError(t, err)
		assert.False(t, updated.Active)
		assert.EqualValues(t, 60000, updated.LightSurcharge)

		_, err = repo.UpdateCourt(ctx, domain.Court{ID: court.ID + 100, Name: "Ghost"})
		assert.ErrorIs(t, err, domain.ErrCourtNotFound)

		_, err = repo.CreateCourt(ctx, domain.Court{Name: "Court B", Active: true})
		require.NoError(t, err)

		all, err := repo.ListCourts(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		active, err := repo.ListCourts(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Court B", active[0].Name)

		got, err := repo.GetCourt(ctx, court.ID)
		require.NoError(t, err)
		assert.Equal(t, "Court A", got.Name)
		_, err = repo.GetCourt(ctx, court.ID+100)
		assert.ErrorIs(t, err, domain.ErrCourtNotFound)
	})

	t.Run("tenants", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		tenant, err := repo.CreateTenant(ctx, domain.Tenant{DisplayName: "A-07", Active: true, MaxDaysPerWeek: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, tenant.MaxDaysPerWeek)

		_, err = repo.CreateTenant(ctx, domain.Tenant{DisplayName: "a-07", Active: true})
		assert.ErrorIs(t, err, domain.ErrTenantAlreadyExists)

		list, err := repo.ListTenants(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		locked, err := repo.LockTenant(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, locked.ID)
		_, err = repo.GetTenant(ctx, tenant.ID+100)
		assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	})

	t.Run("premium overrides", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		require.NoError(t, repo.UpsertPremiumOverride(ctx, domain.PremiumWindowOverride{Year: 2025, Month: time.June, OpensOn: day("2025-06-02")}))
		require.NoError(t, repo.UpsertPremiumOverride(ctx, domain.PremiumWindowOverride{Year: 2025, Month: time.June, OpensOn: day("2025-06-03")}))
		require.NoError(t, repo.UpsertPremiumOverride(ctx, domain.PremiumWindowOverride{Year: 2025, Month: time.July, OpensOn: day("2025-06-28")}))

		list, err := repo.ListPremiumOverrides(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, time.June, list[0].Month)
		assert.True(t, list[0].OpensOn.Equal(day("2025-06-03")))

		require.NoError(t, repo.DeletePremiumOverride(ctx, 2025, 6))
		assert.ErrorIs(t, repo.DeletePremiumOverride(ctx, 2025, 6), domain.ErrOverrideNotFound)
	})
}
