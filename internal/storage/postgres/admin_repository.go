package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

type AdminRepository struct {
	store
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{store: store{pool: pool}}
}

func (r *AdminRepository) CreateCourt(ctx context.Context, court domain.Court) (domain.Court, error) {
	const stmt = `
INSERT INTO courts (name, hourly_rate, light_surcharge, active)
VALUES ($1, $2, $3, $4)
RETURNING ` + courtColumns
	created, err := scanCourt(r.queryRow(ctx, stmt, court.Name, court.HourlyRate, court.LightSurcharge, court.Active))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Court{}, domain.ErrCourtAlreadyExists
		}
		if isCheckViolation(err) {
			return domain.Court{}, domain.ErrInvalidRate
		}
		return domain.Court{}, fmt.Errorf("create court: %w", err)
	}
	return created, nil
}

func (r *AdminRepository) UpdateCourt(ctx context.Context, court domain.Court) (domain.Court, error) {
	const stmt = `
UPDATE courts
SET name = $2, hourly_rate = $3, light_surcharge = $4, active = $5
WHERE id = $1
RETURNING ` + courtColumns
	updated, err := scanCourt(r.queryRow(ctx, stmt, court.ID, court.Name, court.HourlyRate, court.LightSurcharge, court.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Court{}, domain.ErrCourtNotFound
		}
		if isUniqueViolation(err) {
			return domain.Court{}, domain.ErrCourtAlreadyExists
		}
		if isCheckViolation(err) {
			return domain.Court{}, domain.ErrInvalidRate
		}
		return domain.Court{}, fmt.Errorf("update court: %w", err)
	}
	return updated, nil
}

func (r *AdminRepository) CreateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	const stmt = `
INSERT INTO tenants (display_name, active, max_days_per_week, max_slots_per_day)
VALUES ($1, $2, $3, $4)
RETURNING ` + tenantColumns
	created, err := scanTenant(r.queryRow(ctx, stmt, tenant.DisplayName, tenant.Active, tenant.MaxDaysPerWeek, tenant.MaxSlotsPerDay))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Tenant{}, domain.ErrTenantAlreadyExists
		}
		if isCheckViolation(err) {
			return domain.Tenant{}, domain.ErrInvalidQuota
		}
		return domain.Tenant{}, fmt.Errorf("create tenant: %w", err)
	}
	return created, nil
}

func (r *AdminRepository) UpsertPremiumOverride(ctx context.Context, o domain.PremiumWindowOverride) error {
	const stmt = `
INSERT INTO premium_window_overrides (year, month, opens_on)
VALUES ($1, $2, $3)
ON CONFLICT (year, month) DO UPDATE SET opens_on = EXCLUDED.opens_on, updated_at = NOW()`
	if _, err := r.exec(ctx, stmt, o.Year, int(o.Month), domain.DateOf(o.OpensOn)); err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidOverride
		}
		return fmt.Errorf("upsert premium override: %w", err)
	}
	return nil
}

func (r *AdminRepository) DeletePremiumOverride(ctx context.Context, year, month int) error {
	tag, err := r.exec(ctx, `DELETE FROM premium_window_overrides WHERE year = $1 AND month = $2`, year, month)
	if err != nil {
		return fmt.Errorf("delete premium override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOverrideNotFound
	}
	return nil
}
