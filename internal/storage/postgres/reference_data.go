package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const courtColumns = `id, name, hourly_rate, light_surcharge, active, created_at`

const tenantColumns = `id, display_name, active, max_days_per_week, max_slots_per_day, created_at`

func scanCourt(row pgx.Row) (domain.Court, error) {
	var c domain.Court
	err := row.Scan(&c.ID, &c.Name, &c.HourlyRate, &c.LightSurcharge, &c.Active, &c.CreatedAt)
	return c, err
}

func scanTenant(row pgx.Row) (domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.DisplayName, &t.Active, &t.MaxDaysPerWeek, &t.MaxSlotsPerDay, &t.CreatedAt)
	return t, err
}

func (s store) GetCourt(ctx context.Context, id int64) (domain.Court, error) {
	c, err := scanCourt(s.queryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Court{}, domain.ErrCourtNotFound
		}
		return domain.Court{}, fmt.Errorf("get court: %w", err)
	}
	return c, nil
}

func (s store) ListCourts(ctx context.Context, activeOnly bool) ([]domain.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []domain.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		courts = append(courts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate courts: %w", rows.Err())
	}
	return courts, nil
}

func (s store) GetTenant(ctx context.Context, id int64) (domain.Tenant, error) {
	return s.getTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
}

// LockTenant loads the tenant and holds a row lock on it until the
// surrounding transaction ends. Commits for one tenant serialize on it.
func (s store) LockTenant(ctx context.Context, id int64) (domain.Tenant, error) {
	return s.getTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1 FOR UPDATE`, id)
}

func (s store) getTenant(ctx context.Context, query string, id int64) (domain.Tenant, error) {
	t, err := scanTenant(s.queryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func (s store) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := s.query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY display_name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tenants: %w", rows.Err())
	}
	return tenants, nil
}

func (s store) ListPremiumOverrides(ctx context.Context) ([]domain.PremiumWindowOverride, error) {
	const query = `
SELECT year, month, opens_on
FROM premium_window_overrides
ORDER BY year ASC, month ASC`
	rows, err := s.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list premium overrides: %w", err)
	}
	defer rows.Close()

	var out []domain.PremiumWindowOverride
	for rows.Next() {
		var o domain.PremiumWindowOverride
		var month int
		var opensOn time.Time
		if err := rows.Scan(&o.Year, &month, &opensOn); err != nil {
			return nil, fmt.Errorf("scan premium override: %w", err)
		}
		o.Month = time.Month(month)
		o.OpensOn = domain.DateOf(opensOn)
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate premium overrides: %w", rows.Err())
	}
	return out, nil
}
