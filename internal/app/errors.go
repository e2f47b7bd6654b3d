package app

import (
	"context"
	"errors"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// callerErrors are failures the caller can act on. Anything else that comes
// out of a write is a persistence failure.
var callerErrors = []error{
	domain.ErrInvalidSlot,
	domain.ErrBookingWindowClosed,
	domain.ErrQuotaExceeded,
	domain.ErrSlotConflict,
	domain.ErrCrossCourtConflict,
	domain.ErrPersistenceFailure,
	domain.ErrEmptySelection,
	domain.ErrInvalidDateRange,
	domain.ErrInvalidID,
	domain.ErrCourtNotFound,
	domain.ErrCourtInactive,
	domain.ErrTenantNotFound,
	domain.ErrTenantInactive,
	domain.ErrReservationNotFound,
	domain.ErrReferenceNotFound,
	domain.ErrInvalidTransition,
	domain.ErrInvalidStatus,
	domain.ErrInvalidBookingClass,
	domain.ErrCancelReasonRequired,
	domain.ErrOperatorRequired,
	context.Canceled,
}

func isCallerError(err error) bool {
	for _, target := range callerErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// asPersistence wraps err unless the caller can act on it.
func asPersistence(op string, err error) error {
	if err == nil || isCallerError(err) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
