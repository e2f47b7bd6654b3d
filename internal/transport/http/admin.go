package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/app"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// AdminCourtService is the minimal interface needed for admin court endpoints.
type AdminCourtService interface {
	CreateCourt(ctx context.Context, in app.CourtInput) (domain.Court, error)
	UpdateCourt(ctx context.Context, id int64, in app.CourtInput) (domain.Court, error)
	ListCourts(ctx context.Context) ([]domain.Court, error)
}

// AdminTenantService is the minimal interface needed for admin tenant endpoints.
type AdminTenantService interface {
	CreateTenant(ctx context.Context, in app.TenantInput) (domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// PremiumOverrideService is the minimal interface needed for override endpoints.
type PremiumOverrideService interface {
	ListPremiumOverrides(ctx context.Context) ([]domain.PremiumWindowOverride, error)
	SetPremiumOverride(ctx context.Context, o domain.PremiumWindowOverride) (domain.PremiumWindowOverride, error)
	DeletePremiumOverride(ctx context.Context, year int, month time.Month) error
}

type courtRequest struct {
	Name           string `json:"name"`
	HourlyRate     int64  `json:"hourly_rate"`
	LightSurcharge int64  `json:"light_surcharge"`
	Active         *bool  `json:"active"`
}

func (req courtRequest) input() app.CourtInput {
	return app.CourtInput{
		Name:           req.Name,
		HourlyRate:     req.HourlyRate,
		LightSurcharge: req.LightSurcharge,
		Active:         req.Active,
	}
}

func HandleAdminListCourts(svc AdminCourtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courts, err := svc.ListCourts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]courtResponse, 0, len(courts))
		for _, c := range courts {
			resp = append(resp, newCourtResponse(c))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleAdminCreateCourt(svc AdminCourtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courtRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		court, err := svc.CreateCourt(r.Context(), req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newCourtResponse(court))
	}
}

func HandleAdminUpdateCourt(svc AdminCourtService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req courtRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		court, err := svc.UpdateCourt(r.Context(), id, req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newCourtResponse(court))
	}
}

type tenantRequest struct {
	DisplayName    string `json:"display_name"`
	MaxDaysPerWeek int    `json:"max_days_per_week"`
	MaxSlotsPerDay int    `json:"max_slots_per_day"`
}

func HandleAdminListTenants(svc AdminTenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := svc.ListTenants(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]tenantResponse, 0, len(tenants))
		for _, t := range tenants {
			resp = append(resp, newTenantResponse(t))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleAdminCreateTenant(svc AdminTenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenantRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		tenant, err := svc.CreateTenant(r.Context(), app.TenantInput{
			DisplayName:    req.DisplayName,
			MaxDaysPerWeek: req.MaxDaysPerWeek,
			MaxSlotsPerDay: req.MaxSlotsPerDay,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newTenantResponse(tenant))
	}
}

func HandleListPremiumOverrides(svc PremiumOverrideService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListPremiumOverrides(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]overridePayload, 0, len(list))
		for _, o := range list {
			resp = append(resp, newOverridePayload(o))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleSetPremiumOverride(svc PremiumOverrideService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req overridePayload
		if !decodeJSON(w, r, &req) {
			return
		}
		opensOn, err := domain.ParseDate(req.OpensOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid opens_on")
			return
		}
		o, err := svc.SetPremiumOverride(r.Context(), domain.PremiumWindowOverride{
			Year:    req.Year,
			Month:   time.Month(req.Month),
			OpensOn: opensOn,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOverridePayload(o))
	}
}

func HandleDeletePremiumOverride(svc PremiumOverrideService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, errYear := strconv.Atoi(r.PathValue("year"))
		month, errMonth := strconv.Atoi(r.PathValue("month"))
		if errYear != nil || errMonth != nil {
			writeError(w, http.StatusBadRequest, codeInvalidOverride, "invalid year or month")
			return
		}
		if err := svc.DeletePremiumOverride(r.Context(), year, time.Month(month)); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
