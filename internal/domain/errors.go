package domain

import "errors"

// Booking engine failure taxonomy. Structured errors in booking_errors.go
// unwrap to these so callers can branch with errors.Is.
var (
	ErrInvalidSlot         = errors.New("invalid slot")
	ErrBookingWindowClosed = errors.New("booking window closed")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrSlotConflict        = errors.New("slot already booked")
	ErrCrossCourtConflict  = errors.New("cross-court conflict")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

var (
	ErrEmptySelection       = errors.New("no slots selected")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrInvalidID            = errors.New("invalid id")
	ErrCourtNotFound        = errors.New("court not found")
	ErrCourtInactive        = errors.New("court inactive")
	ErrCourtNameRequired    = errors.New("court name required")
	ErrCourtAlreadyExists   = errors.New("court already exists")
	ErrInvalidRate          = errors.New("invalid rate")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrTenantInactive       = errors.New("tenant inactive")
	ErrTenantNameRequired   = errors.New("tenant name required")
	ErrTenantAlreadyExists  = errors.New("tenant already exists")
	ErrInvalidQuota         = errors.New("invalid quota")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReferenceNotFound    = errors.New("reference not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidBookingClass  = errors.New("invalid booking class")
	ErrCancelReasonRequired = errors.New("cancellation reason required")
	ErrOverrideNotFound     = errors.New("premium window override not found")
	ErrInvalidOverride      = errors.New("invalid premium window override")
	ErrOperatorRequired     = errors.New("operator role required")
)
