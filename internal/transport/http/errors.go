package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidID            = "invalid_id"
	codeInvalidDate          = "invalid_date"
	codeInvalidDateRange     = "invalid_date_range"
	codeInvalidSlot          = "invalid_slot"
	codeEmptySelection       = "empty_selection"
	codeWindowClosed         = "booking_window_closed"
	codeQuotaExceeded        = "quota_exceeded"
	codeSlotConflict         = "slot_conflict"
	codeCrossCourtConflict   = "cross_court_conflict"
	codePersistenceFailure   = "persistence_failure"
	codeCourtNotFound        = "court_not_found"
	codeCourtInactive        = "court_inactive"
	codeCourtNameRequired    = "court_name_required"
	codeCourtAlreadyExists   = "court_already_exists"
	codeInvalidRate          = "invalid_rate"
	codeTenantNotFound       = "tenant_not_found"
	codeTenantInactive       = "tenant_inactive"
	codeTenantNameRequired   = "tenant_name_required"
	codeTenantAlreadyExists  = "tenant_already_exists"
	codeInvalidQuota         = "invalid_quota"
	codeReservationNotFound  = "reservation_not_found"
	codeReferenceNotFound    = "reference_not_found"
	codeInvalidTransition    = "invalid_transition"
	codeInvalidStatus        = "invalid_status"
	codeInvalidBookingClass  = "invalid_booking_class"
	codeCancelReasonRequired = "cancellation_reason_required"
	codeOverrideNotFound     = "override_not_found"
	codeInvalidOverride      = "invalid_override"
	codeActorRequired        = "actor_required"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorDetails(w, status, code, msg, nil)
}

func writeErrorDetails(w http.ResponseWriter, status int, code, msg string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:   msg,
		Code:    code,
		Details: details,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type crossCourtDetail struct {
	Slot      string `json:"slot"`
	CourtID   int64  `json:"court_id"`
	CourtName string `json:"court_name"`
	Start     string `json:"start_time"`
	End       string `json:"end_time"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message"`
}

type quotaDetail struct {
	Rule   string `json:"rule"`
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Reason string `json:"reason"`
}

func slotStrings(keys []domain.SlotKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

func crossCourtDetails(conflicts []domain.CrossCourtConflict) []crossCourtDetail {
	out := make([]crossCourtDetail, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, crossCourtDetail{
			Slot:      c.Slot.String(),
			CourtID:   c.CourtID,
			CourtName: c.CourtName,
			Start:     c.Start.String(),
			End:       c.End.String(),
			Reference: c.Reference,
			Message:   c.String(),
		})
	}
	return out
}

func quotaDetails(violations []domain.QuotaViolation) []quotaDetail {
	out := make([]quotaDetail, 0, len(violations))
	for _, v := range violations {
		out = append(out, quotaDetail{
			Rule:   string(v.Rule),
			Date:   v.Date.Format(domain.DateLayout),
			Count:  v.Count,
			Limit:  v.Limit,
			Reason: v.Reason(),
		})
	}
	return out
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrPersistenceFailure, http.StatusServiceUnavailable, codePersistenceFailure},
	{domain.ErrInvalidSlot, http.StatusBadRequest, codeInvalidSlot},
	{domain.ErrEmptySelection, http.StatusBadRequest, codeEmptySelection},
	{domain.ErrInvalidDateRange, http.StatusBadRequest, codeInvalidDateRange},
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
	{domain.ErrBookingWindowClosed, http.StatusUnprocessableEntity, codeWindowClosed},
	{domain.ErrQuotaExceeded, http.StatusUnprocessableEntity, codeQuotaExceeded},
	{domain.ErrSlotConflict, http.StatusConflict, codeSlotConflict},
	{domain.ErrCrossCourtConflict, http.StatusConflict, codeCrossCourtConflict},
	{domain.ErrCourtNotFound, http.StatusNotFound, codeCourtNotFound},
	{domain.ErrCourtInactive, http.StatusUnprocessableEntity, codeCourtInactive},
	{domain.ErrCourtNameRequired, http.StatusBadRequest, codeCourtNameRequired},
	{domain.ErrCourtAlreadyExists, http.StatusConflict, codeCourtAlreadyExists},
	{domain.ErrInvalidRate, http.StatusBadRequest, codeInvalidRate},
	{domain.ErrTenantNotFound, http.StatusNotFound, codeTenantNotFound},
	{domain.ErrTenantInactive, http.StatusUnprocessableEntity, codeTenantInactive},
	{domain.ErrTenantNameRequired, http.StatusBadRequest, codeTenantNameRequired},
	{domain.ErrTenantAlreadyExists, http.StatusConflict, codeTenantAlreadyExists},
	{domain.ErrInvalidQuota, http.StatusBadRequest, codeInvalidQuota},
	{domain.ErrReservationNotFound, http.StatusNotFound, codeReservationNotFound},
	{domain.ErrReferenceNotFound, http.StatusNotFound, codeReferenceNotFound},
	{domain.ErrInvalidTransition, http.StatusConflict, codeInvalidTransition},
	{domain.ErrInvalidStatus, http.StatusBadRequest, codeInvalidStatus},
	{domain.ErrInvalidBookingClass, http.StatusBadRequest, codeInvalidBookingClass},
	{domain.ErrCancelReasonRequired, http.StatusBadRequest, codeCancelReasonRequired},
	{domain.ErrOverrideNotFound, http.StatusNotFound, codeOverrideNotFound},
	{domain.ErrInvalidOverride, http.StatusBadRequest, codeInvalidOverride},
	{domain.ErrOperatorRequired, http.StatusForbidden, codeForbidden},
}

// writeServiceError maps a service error to its status and code. Structured
// booking errors carry their details so the caller can show every problem.
// Persistence failures never leak their cause.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		windowErr *domain.WindowClosedError
		quotaErr  *domain.QuotaExceededError
		slotErr   *domain.SlotConflictError
		crossErr  *domain.CrossCourtConflictError
	)
	switch {
	case errors.Is(err, domain.ErrPersistenceFailure):
		writeError(w, http.StatusServiceUnavailable, codePersistenceFailure, "could not save the booking, please try again")
		return
	case errors.As(err, &windowErr):
		writeErrorDetails(w, http.StatusUnprocessableEntity, codeWindowClosed, err.Error(), slotStrings(windowErr.Slots))
		return
	case errors.As(err, &quotaErr):
		writeErrorDetails(w, http.StatusUnprocessableEntity, codeQuotaExceeded, err.Error(), quotaDetails(quotaErr.Violations))
		return
	case errors.As(err, &slotErr):
		writeErrorDetails(w, http.StatusConflict, codeSlotConflict, err.Error(), slotStrings(slotErr.Slots))
		return
	case errors.As(err, &crossErr):
		writeErrorDetails(w, http.StatusConflict, codeCrossCourtConflict, err.Error(), crossCourtDetails(crossErr.Conflicts))
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
