package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/app"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// ReservationReader is the minimal interface needed for reservation reads.
type ReservationReader interface {
	Get(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error)
	ByReference(ctx context.Context, actor domain.Actor, reference string) ([]domain.Reservation, error)
	TenantReservations(ctx context.Context, in app.TenantReservationsInput) ([]domain.Reservation, error)
}

// QuotaReader is the minimal interface needed for the quota snapshot.
type QuotaReader interface {
	QuotaSnapshot(ctx context.Context, tenantID int64, date time.Time) (domain.QuotaSnapshot, error)
}

// ReservationLifecycle is the minimal interface needed for status changes.
type ReservationLifecycle interface {
	Confirm(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (domain.Reservation, error)
	CancelReference(ctx context.Context, actor domain.Actor, reference, reason string) ([]domain.Reservation, error)
	Edit(ctx context.Context, actor domain.Actor, id int64, in app.EditInput) (domain.Reservation, error)
}

func HandleTenantReservations(svc ReservationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if _, ok := requireTenantAccess(w, r, tenantID); !ok {
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
		includeCancelled, _ := strconv.ParseBool(r.URL.Query().Get("include_cancelled"))

		rows, err := svc.TenantReservations(r.Context(), app.TenantReservationsInput{
			TenantID:         tenantID,
			From:             from,
			To:               to,
			IncludeCancelled: includeCancelled,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponses(rows))
	}
}

func HandleQuota(svc QuotaReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if _, ok := requireTenantAccess(w, r, tenantID); !ok {
			return
		}
		date, ok := queryDate(w, r, "date")
		if !ok {
			return
		}
		snap, err := svc.QuotaSnapshot(r.Context(), tenantID, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newQuotaSnapshotPayload(snap))
	}
}

func HandleGetReservation(svc ReservationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		res, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponse(res))
	}
}

func HandleByReference(svc ReservationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		rows, err := svc.ByReference(r.Context(), actor, r.PathValue("ref"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponses(rows))
	}
}

func HandleConfirm(svc ReservationLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		res, err := svc.Confirm(r.Context(), actor, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponse(res))
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// decodeOptionalJSON accepts an empty body as the zero value.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	return decodeJSON(w, r, v)
}

func HandleCancel(svc ReservationLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req cancelRequest
		if !decodeOptionalJSON(w, r, &req) {
			return
		}
		res, err := svc.Cancel(r.Context(), actor, id, req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponse(res))
	}
}

func HandleCancelReference(svc ReservationLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		var req cancelRequest
		if !decodeOptionalJSON(w, r, &req) {
			return
		}
		rows, err := svc.CancelReference(r.Context(), actor, r.PathValue("ref"), req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponses(rows))
	}
}

type editRequest struct {
	Status             *string `json:"status"`
	Lights             *bool   `json:"lights"`
	Notes              *string `json:"notes"`
	CancellationReason string  `json:"cancellation_reason"`
}

func HandleEdit(svc ReservationLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req editRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in := app.EditInput{
			Lights:             req.Lights,
			Notes:              req.Notes,
			CancellationReason: req.CancellationReason,
		}
		if req.Status != nil {
			status, err := domain.ParseReservationStatus(*req.Status)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			in.Status = &status
		}

		res, err := svc.Edit(r.Context(), actor, id, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newReservationResponse(res))
	}
}
