package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/app"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/booking"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// CourtLister is the minimal interface needed to list bookable courts.
type CourtLister interface {
	ListCourts(ctx context.Context) ([]domain.Court, error)
}

// AvailabilityReader is the minimal interface needed for grid reads.
type AvailabilityReader interface {
	Availability(ctx context.Context, in app.AvailabilityInput) (booking.Availability, error)
	Window(ctx context.Context) (booking.Window, error)
	QuotaSnapshot(ctx context.Context, tenantID int64, date time.Time) (domain.QuotaSnapshot, error)
}

// SelectionValidator is the minimal interface needed to re-check a selection.
type SelectionValidator interface {
	ValidateSelection(ctx context.Context, in app.SelectionInput) (app.SelectionReport, error)
}

// BookingCommitter is the minimal interface needed to commit a booking.
type BookingCommitter interface {
	Commit(ctx context.Context, in app.CommitInput) (app.CommitResult, error)
}

func HandleListCourts(svc CourtLister) http.HandlerFunc {
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

func HandleWindow(svc AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := svc.Window(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newWindowResponse(window))
	}
}

// HandleAvailability serves the annotated grid of one court. With tenant_id
// the tenant's quota snapshot for the first date is included.
func HandleAvailability(svc AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		courtID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		from, ok := queryDate(w, r, "from")
		if !ok {
			return
		}
		to, ok := queryDate(w, r, "to")
		if !ok {
			return
		}

		var tenantID int64
		if raw := r.URL.Query().Get("tenant_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidID, "invalid tenant_id")
				return
			}
			if !actor.IsOperator() && actor.ID != id {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
			tenantID = id
		}

		av, err := svc.Availability(r.Context(), app.AvailabilityInput{CourtID: courtID, From: from, To: to})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := newAvailabilityResponse(av, actor)
		if tenantID != 0 {
			snap, err := svc.QuotaSnapshot(r.Context(), tenantID, from)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			payload := newQuotaSnapshotPayload(snap)
			resp.Quota = &payload
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type selectedSlotRequest struct {
	CourtID int64  `json:"court_id"`
	Slot    string `json:"slot"`
}

type validateSelectionRequest struct {
	TenantID  int64                 `json:"tenant_id"`
	CourtID   int64                 `json:"court_id"`
	Slots     []string              `json:"slots"`
	Elsewhere []selectedSlotRequest `json:"elsewhere"`
}

type slotQuoteResponse struct {
	Slot         string        `json:"slot"`
	BookingClass string        `json:"booking_class"`
	Quote        quoteResponse `json:"quote"`
}

type selectionResponse struct {
	OK                  bool                `json:"ok"`
	Total               int64               `json:"total"`
	Slots               []slotQuoteResponse `json:"slots"`
	WindowClosed        []string            `json:"window_closed"`
	Quota               []quotaDetail       `json:"quota_violations"`
	SlotConflicts       []string            `json:"slot_conflicts"`
	CrossCourtConflicts []crossCourtDetail  `json:"cross_court_conflicts"`
	Error               *errorResponse      `json:"error,omitempty"`
}

func newSelectionResponse(report app.SelectionReport) selectionResponse {
	resp := selectionResponse{
		OK:                  report.OK(),
		Total:               report.Total,
		Slots:               make([]slotQuoteResponse, 0, len(report.Slots)),
		WindowClosed:        slotStrings(report.WindowClosed),
		Quota:               quotaDetails(report.Quota.Violations),
		SlotConflicts:       slotStrings(report.Conflicts.SlotConflicts),
		CrossCourtConflicts: crossCourtDetails(report.Conflicts.CrossCourtConflicts),
	}
	for _, s := range report.Slots {
		resp.Slots = append(resp.Slots, slotQuoteResponse{
			Slot:         s.Key.String(),
			BookingClass: string(s.Class),
			Quote:        newQuoteResponse(s.Quote),
		})
	}
	if err := report.Err(); err != nil {
		code := codeInternalError
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				code = m.code
				break
			}
		}
		resp.Error = &errorResponse{Error: err.Error(), Code: code}
	}
	return resp
}

// HandleValidateSelection re-checks a whole selection without booking it.
// Rule failures are reported in a 200 body; only bad input is an error.
func HandleValidateSelection(svc SelectionValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateSelectionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TenantID <= 0 || req.CourtID <= 0 {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "tenant_id and court_id are required")
			return
		}
		if _, ok := requireTenantAccess(w, r, req.TenantID); !ok {
			return
		}
		slots, ok := parseSlots(w, req.Slots)
		if !ok {
			return
		}
		elsewhere := make([]app.SelectedSlot, 0, len(req.Elsewhere))
		for _, e := range req.Elsewhere {
			keys, ok := parseSlots(w, []string{e.Slot})
			if !ok {
				return
			}
			elsewhere = append(elsewhere, app.SelectedSlot{CourtID: e.CourtID, Key: keys[0]})
		}

		report, err := svc.ValidateSelection(r.Context(), app.SelectionInput{
			TenantID:  req.TenantID,
			CourtID:   req.CourtID,
			Slots:     slots,
			Elsewhere: elsewhere,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSelectionResponse(report))
	}
}

type commitRequest struct {
	TenantID     int64    `json:"tenant_id"`
	CourtID      int64    `json:"court_id"`
	Slots        []string `json:"slots"`
	Notes        string   `json:"notes"`
	BookingClass string   `json:"booking_class"`
}

type commitResponse struct {
	Reference    string                `json:"reference"`
	Total        int64                 `json:"total"`
	Reservations []reservationResponse `json:"reservations"`
}

// HandleCommit books a batch of slots on one court. booking_class is only
// honoured for operators; the service rejects it from tenants.
func HandleCommit(svc BookingCommitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.TenantID <= 0 || req.CourtID <= 0 {
			writeError(w, http.StatusBadRequest, codeMissingRequiredField, "tenant_id and court_id are required")
			return
		}
		actor, ok := requireTenantAccess(w, r, req.TenantID)
		if !ok {
			return
		}
		slots, ok := parseSlots(w, req.Slots)
		if !ok {
			return
		}
		var class domain.BookingClass
		if req.BookingClass != "" {
			parsed, err := domain.ParseBookingClass(req.BookingClass)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			class = parsed
		}

		res, err := svc.Commit(r.Context(), app.CommitInput{
			Actor:    actor,
			TenantID: req.TenantID,
			CourtID:  req.CourtID,
			Slots:    slots,
			Notes:    req.Notes,
			Class:    class,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, commitResponse{
			Reference:    res.Reference,
			Total:        res.Total,
			Reservations: newReservationResponses(res.Reservations),
		})
	}
}
