package app

import (
	"context"
	"strings"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

type AdminRepository interface {
	GetCourt(ctx context.Context, id int64) (domain.Court, error)
	ListCourts(ctx context.Context, activeOnly bool) ([]domain.Court, error)
	CreateCourt(ctx context.Context, court domain.Court) (domain.Court, error)
	UpdateCourt(ctx context.Context, court domain.Court) (domain.Court, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	CreateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	ListPremiumOverrides(ctx context.Context) ([]domain.PremiumWindowOverride, error)
	UpsertPremiumOverride(ctx context.Context, o domain.PremiumWindowOverride) error
	DeletePremiumOverride(ctx context.Context, year, month int) error
}

// AdminService maintains the reference data operators own: courts, tenants
// and premium window overrides.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

type CourtInput struct {
	Name           string
	HourlyRate     int64
	LightSurcharge int64
	Active         *bool
}

func (in CourtInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ErrCourtNameRequired
	}
	if in.HourlyRate < 0 || in.LightSurcharge < 0 {
		return domain.ErrInvalidRate
	}
	return nil
}

func (s *AdminService) CreateCourt(ctx context.Context, in CourtInput) (domain.Court, error) {
	if err := in.validate(); err != nil {
		return domain.Court{}, err
	}
	court := domain.Court{
		Name:           strings.TrimSpace(in.Name),
		HourlyRate:     in.HourlyRate,
		LightSurcharge: in.LightSurcharge,
		Active:         true,
	}
	if in.Active != nil {
		court.Active = *in.Active
	}
	return s.repo.CreateCourt(ctx, court)
}

func (s *AdminService) UpdateCourt(ctx context.Context, id int64, in CourtInput) (domain.Court, error) {
	if id <= 0 {
		return domain.Court{}, domain.ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return domain.Court{}, err
	}
	court, err := s.repo.GetCourt(ctx, id)
	if err != nil {
		return domain.Court{}, err
	}
	court.Name = strings.TrimSpace(in.Name)
	court.HourlyRate = in.HourlyRate
	court.LightSurcharge = in.LightSurcharge
	if in.Active != nil {
		court.Active = *in.Active
	}
	return s.repo.UpdateCourt(ctx, court)
}

func (s *AdminService) ListCourts(ctx context.Context) ([]domain.Court, error) {
	return s.repo.ListCourts(ctx, false)
}

type TenantInput struct {
	DisplayName    string
	MaxDaysPerWeek int
	MaxSlotsPerDay int
}

func (s *AdminService) CreateTenant(ctx context.Context, in TenantInput) (domain.Tenant, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return domain.Tenant{}, domain.ErrTenantNameRequired
	}
	if in.MaxDaysPerWeek < 0 || in.MaxDaysPerWeek > 7 || in.MaxSlotsPerDay < 0 {
		return domain.Tenant{}, domain.ErrInvalidQuota
	}
	return s.repo.CreateTenant(ctx, domain.Tenant{
		DisplayName:    name,
		Active:         true,
		MaxDaysPerWeek: in.MaxDaysPerWeek,
		MaxSlotsPerDay: in.MaxSlotsPerDay,
	})
}

func (s *AdminService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.ListTenants(ctx)
}

func (s *AdminService) ListPremiumOverrides(ctx context.Context) ([]domain.PremiumWindowOverride, error) {
	return s.repo.ListPremiumOverrides(ctx)
}

// SetPremiumOverride replaces the premium-opening date for one month.
// Overrides for months already over are rejected.
func (s *AdminService) SetPremiumOverride(ctx context.Context, o domain.PremiumWindowOverride) (domain.PremiumWindowOverride, error) {
	if err := o.Validate(); err != nil {
		return domain.PremiumWindowOverride{}, err
	}
	o.OpensOn = domain.DateOf(o.OpensOn)

	now := s.clock.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if time.Date(o.Year, o.Month, 1, 0, 0, 0, 0, time.UTC).Before(thisMonth) {
		return domain.PremiumWindowOverride{}, domain.ErrInvalidOverride
	}
	if err := s.repo.UpsertPremiumOverride(ctx, o); err != nil {
		return domain.PremiumWindowOverride{}, err
	}
	return o, nil
}

func (s *AdminService) DeletePremiumOverride(ctx context.Context, year int, month time.Month) error {
	if month < time.January || month > time.December {
		return domain.ErrInvalidOverride
	}
	return s.repo.DeletePremiumOverride(ctx, year, int(month))
}
