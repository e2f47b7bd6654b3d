package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/booking"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryDate(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, name+" is required")
		return time.Time{}, false
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid "+name)
		return time.Time{}, false
	}
	return d, true
}

func parseSlots(w http.ResponseWriter, raw []string) ([]domain.SlotKey, bool) {
	out := make([]domain.SlotKey, 0, len(raw))
	for _, s := range raw {
		k, err := domain.ParseSlotKey(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidSlot, err.Error())
			return nil, false
		}
		out = append(out, k)
	}
	return out, true
}

type courtResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	HourlyRate     int64  `json:"hourly_rate"`
	LightSurcharge int64  `json:"light_surcharge"`
	Active         bool   `json:"active"`
}

func newCourtResponse(c domain.Court) courtResponse {
	return courtResponse{
		ID:             c.ID,
		Name:           c.Name,
		HourlyRate:     c.HourlyRate,
		LightSurcharge: c.LightSurcharge,
		Active:         c.Active,
	}
}

type tenantResponse struct {
	ID             int64  `json:"id"`
	DisplayName    string `json:"display_name"`
	Active         bool   `json:"active"`
	MaxDaysPerWeek int    `json:"max_days_per_week,omitempty"`
	MaxSlotsPerDay int    `json:"max_slots_per_day,omitempty"`
}

func newTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{
		ID:             t.ID,
		DisplayName:    t.DisplayName,
		Active:         t.Active,
		MaxDaysPerWeek: t.MaxDaysPerWeek,
		MaxSlotsPerDay: t.MaxSlotsPerDay,
	}
}

type reservationResponse struct {
	ID                 int64      `json:"id"`
	TenantID           int64      `json:"tenant_id"`
	CourtID            int64      `json:"court_id"`
	CourtName          string     `json:"court_name,omitempty"`
	Date               string     `json:"date"`
	StartTime          string     `json:"start_time"`
	EndTime            string     `json:"end_time"`
	Status             string     `json:"status"`
	BookingClass       string     `json:"booking_class"`
	Price              int64      `json:"price"`
	LightSurcharge     int64      `json:"light_surcharge"`
	IsPeak             bool       `json:"is_peak"`
	Reference          string     `json:"reference"`
	Notes              string     `json:"notes,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedBy          string     `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	ApprovedBy         string     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	EditedBy           string     `json:"edited_by,omitempty"`
	EditedAt           *time.Time `json:"edited_at,omitempty"`
}

func newReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:                 r.ID,
		TenantID:           r.TenantID,
		CourtID:            r.CourtID,
		CourtName:          r.CourtName,
		Date:               r.Date.Format(domain.DateLayout),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		Status:             string(r.Status),
		BookingClass:       string(r.Class),
		Price:              r.Price,
		LightSurcharge:     r.LightSurcharge,
		IsPeak:             r.IsPeak,
		Reference:          r.Reference,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CreatedBy:          r.CreatedBy,
		CreatedAt:          r.CreatedAt,
		ApprovedBy:         r.ApprovedBy,
		ApprovedAt:         r.ApprovedAt,
		CancelledBy:        r.CancelledBy,
		CancelledAt:        r.CancelledAt,
		EditedBy:           r.EditedBy,
		EditedAt:           r.EditedAt,
	}
}

func newReservationResponses(rows []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, newReservationResponse(r))
	}
	return out
}

type windowResponse struct {
	Today          string `json:"today"`
	FreeStart      string `json:"free_start"`
	FreeEnd        string `json:"free_end"`
	PremiumEnd     string `json:"premium_end"`
	PremiumOpensOn string `json:"premium_opens_on"`
	PremiumOpen    bool   `json:"premium_open"`
}

func newWindowResponse(w booking.Window) windowResponse {
	return windowResponse{
		Today:          w.Today.Format(domain.DateLayout),
		FreeStart:      w.FreeStart.Format(domain.DateLayout),
		FreeEnd:        w.FreeEnd.Format(domain.DateLayout),
		PremiumEnd:     w.PremiumEnd.Format(domain.DateLayout),
		PremiumOpensOn: w.PremiumOpensOn.Format(domain.DateLayout),
		PremiumOpen:    w.PremiumOpen(),
	}
}

type quoteResponse struct {
	Price          int64 `json:"price"`
	LightSurcharge int64 `json:"light_surcharge"`
	IsPeak         bool  `json:"is_peak"`
	Total          int64 `json:"total"`
}

func newQuoteResponse(q booking.Quote) quoteResponse {
	return quoteResponse{
		Price:          q.Price,
		LightSurcharge: q.LightSurcharge,
		IsPeak:         q.IsPeak,
		Total:          q.Total(),
	}
}

type slotResponse struct {
	Slot          string        `json:"slot"`
	Date          string        `json:"date"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time"`
	Status        string        `json:"status"`
	BookingClass  string        `json:"booking_class"`
	Selectable    bool          `json:"selectable"`
	Quote         quoteResponse `json:"quote"`
	ReservationID int64         `json:"reservation_id,omitempty"`
	Reference     string        `json:"reference,omitempty"`
	Mine          bool          `json:"mine,omitempty"`
}

type availabilityResponse struct {
	Court  courtResponse         `json:"court"`
	From   string                `json:"from"`
	To     string                `json:"to"`
	Window windowResponse        `json:"window"`
	Slots  []slotResponse        `json:"slots"`
	Quota  *quotaSnapshotPayload `json:"quota,omitempty"`
}

// newAvailabilityResponse only exposes the reservation behind a slot to an
// operator or the tenant who holds it.
func newAvailabilityResponse(a booking.Availability, viewer domain.Actor) availabilityResponse {
	resp := availabilityResponse{
		Court:  newCourtResponse(a.Court),
		From:   a.From.Format(domain.DateLayout),
		To:     a.To.Format(domain.DateLayout),
		Window: newWindowResponse(a.Window),
		Slots:  make([]slotResponse, 0, len(a.Slots)),
	}
	for _, s := range a.Slots {
		sr := slotResponse{
			Slot:         s.Key.String(),
			Date:         s.Key.Date.Format(domain.DateLayout),
			StartTime:    s.Key.Start.String(),
			EndTime:      s.End.String(),
			Status:       string(s.Status),
			BookingClass: string(s.Class),
			Selectable:   s.Selectable,
			Quote:        newQuoteResponse(s.Quote),
		}
		if r := s.Reservation; r != nil {
			sr.Mine = viewer.Role == domain.RoleTenant && viewer.ID == r.TenantID
			if viewer.IsOperator() || sr.Mine {
				sr.ReservationID = r.ID
				sr.Reference = r.Reference
			}
		}
		resp.Slots = append(resp.Slots, sr)
	}
	return resp
}

type quotaSnapshotPayload struct {
	TenantID       int64  `json:"tenant_id"`
	Date           string `json:"date"`
	WeekAnchor     string `json:"week_anchor"`
	DaysUsed       int    `json:"days_used"`
	MaxDays        int    `json:"max_days"`
	DaysRemaining  int    `json:"days_remaining"`
	SlotsOnDate    int    `json:"slots_on_date"`
	MaxSlotsPerDay int    `json:"max_slots_per_day"`
	SlotsRemaining int    `json:"slots_remaining"`
}

func newQuotaSnapshotPayload(s domain.QuotaSnapshot) quotaSnapshotPayload {
	return quotaSnapshotPayload{
		TenantID:       s.TenantID,
		Date:           s.Date.Format(domain.DateLayout),
		WeekAnchor:     s.WeekAnchor.Format(domain.DateLayout),
		DaysUsed:       s.DaysUsed,
		MaxDays:        s.MaxDays,
		DaysRemaining:  s.DaysRemaining(),
		SlotsOnDate:    s.SlotsOnDate,
		MaxSlotsPerDay: s.MaxSlotsPerDay,
		SlotsRemaining: s.SlotsRemaining(),
	}
}

type overridePayload struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	OpensOn string `json:"opens_on"`
}

func newOverridePayload(o domain.PremiumWindowOverride) overridePayload {
	return overridePayload{
		Year:    o.Year,
		Month:   int(o.Month),
		OpensOn: o.OpensOn.Format(domain.DateLayout),
	}
}
