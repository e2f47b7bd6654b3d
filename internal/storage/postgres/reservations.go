package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const reservationSelect = `
SELECT r.id, r.tenant_id, r.court_id, c.name, r.date,
	to_char(r.start_time, 'HH24:MI'), to_char(r.end_time, 'HH24:MI'),
	r.status, r.booking_class, r.week_anchor,
	r.price, r.light_surcharge, r.is_peak, r.reference, r.notes, r.cancellation_reason,
	r.created_by, r.created_at,
	COALESCE(r.approved_by, ''), r.approved_at,
	COALESCE(r.cancelled_by, ''), r.cancelled_at,
	COALESCE(r.edited_by, ''), r.edited_at
FROM reservations r
JOIN courts c ON c.id = r.court_id`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var (
		r                domain.Reservation
		start, end       string
		status, class    string
		date, weekAnchor time.Time
	)
	err := row.Scan(
		&r.ID, &r.TenantID, &r.CourtID, &r.CourtName, &date,
		&start, &end,
		&status, &class, &weekAnchor,
		&r.Price, &r.LightSurcharge, &r.IsPeak, &r.Reference, &r.Notes, &r.CancellationReason,
		&r.CreatedBy, &r.CreatedAt,
		&r.ApprovedBy, &r.ApprovedAt,
		&r.CancelledBy, &r.CancelledAt,
		&r.EditedBy, &r.EditedAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}

	r.Date = domain.DateOf(date)
	r.WeekAnchor = domain.DateOf(weekAnchor)
	if r.StartTime, err = domain.ParseTimeOfDay(start); err != nil {
		return domain.Reservation{}, err
	}
	if r.EndTime, err = domain.ParseTimeOfDay(end); err != nil {
		return domain.Reservation{}, err
	}
	if r.Status, err = domain.ParseReservationStatus(status); err != nil {
		return domain.Reservation{}, err
	}
	if r.Class, err = domain.ParseBookingClass(class); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (s store) listReservations(ctx context.Context, what, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, rows.Err())
	}
	return out, nil
}

// ListCourtReservations returns the non-cancelled reservations on a court
// between from and to inclusive.
func (s store) ListCourtReservations(ctx context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, error) {
	const query = reservationSelect + `
WHERE r.court_id = $1 AND r.date BETWEEN $2 AND $3 AND r.status <> 'cancelled'
ORDER BY r.date ASC, r.start_time ASC`
	return s.listReservations(ctx, "court reservations", query, courtID, domain.DateOf(from), domain.DateOf(to))
}

// ListTenantReservations returns a tenant's reservations on any court between
// from and to inclusive.
func (s store) ListTenantReservations(ctx context.Context, tenantID int64, from, to time.Time, includeCancelled bool) ([]domain.Reservation, error) {
	query := reservationSelect + `
WHERE r.tenant_id = $1 AND r.date BETWEEN $2 AND $3`
	if !includeCancelled {
		query += ` AND r.status <> 'cancelled'`
	}
	query += `
ORDER BY r.date ASC, r.start_time ASC, r.court_id ASC`
	return s.listReservations(ctx, "tenant reservations", query, tenantID, domain.DateOf(from), domain.DateOf(to))
}

func (s store) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.getReservation(ctx, reservationSelect+`
WHERE r.id = $1`, id)
}

func (s store) GetReservationForUpdate(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.getReservation(ctx, reservationSelect+`
WHERE r.id = $1
FOR UPDATE OF r`, id)
}

func (s store) getReservation(ctx context.Context, query string, id int64) (domain.Reservation, error) {
	r, err := scanReservation(s.queryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

// ListByReference returns every reservation of one commit, optionally
// locking the rows.
func (s store) ListByReference(ctx context.Context, reference string, forUpdate bool) ([]domain.Reservation, error) {
	query := reservationSelect + `
WHERE r.reference = $1
ORDER BY r.date ASC, r.start_time ASC`
	if forUpdate {
		query += `
FOR UPDATE OF r`
	}
	out, err := s.listReservations(ctx, "reservations by reference", query, reference)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrReferenceNotFound
	}
	return out, nil
}

// CreateReservations inserts the batch and fills in ids and creation times.
// A row colliding with a live reservation on the same slot yields a
// *domain.SlotConflictError naming that slot; the caller must roll back.
func (s store) CreateReservations(ctx context.Context, batch []domain.Reservation) ([]domain.Reservation, error) {
	const stmt = `
INSERT INTO reservations (
	tenant_id, court_id, date, start_time, end_time, status, booking_class, week_anchor,
	price, light_surcharge, is_peak, reference, notes, created_by, created_at,
	approved_by, approved_at
)
VALUES ($1, $2, $3, $4::text::time, $5::text::time, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	NULLIF($16, ''), $17)
RETURNING id`

	out := make([]domain.Reservation, 0, len(batch))
	for _, r := range batch {
		r.Date = domain.DateOf(r.Date)
		r.WeekAnchor = domain.WeekAnchor(r.Date)
		err := s.queryRow(ctx, stmt,
			r.TenantID, r.CourtID, r.Date, r.StartTime.String(), r.EndTime.String(),
			string(r.Status), string(r.Class), r.WeekAnchor,
			r.Price, r.LightSurcharge, r.IsPeak, r.Reference, r.Notes, r.CreatedBy, r.CreatedAt,
			r.ApprovedBy, r.ApprovedAt,
		).Scan(&r.ID)
		if err != nil {
			switch {
			case isUniqueViolation(err) && constraintName(err) == "reservations_active_slot_uq":
				return nil, &domain.SlotConflictError{CourtID: r.CourtID, Slots: []domain.SlotKey{r.Slot()}}
			case isForeignKeyViolation(err) && constraintName(err) == "reservations_court_id_fkey":
				return nil, domain.ErrCourtNotFound
			case isForeignKeyViolation(err):
				return nil, domain.ErrTenantNotFound
			case isSerializationFailure(err):
				return nil, &domain.PersistenceError{Op: "insert reservation", Err: err}
			}
			return nil, fmt.Errorf("insert reservation %s: %w", r.Slot(), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// UpdateReservation writes the mutable columns of r. Temporal identity
// (court, date, start, end) is never changed here.
func (s store) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	const stmt = `
UPDATE reservations SET
	status = $2,
	light_surcharge = $3,
	notes = $4,
	cancellation_reason = $5,
	approved_by = NULLIF($6, ''),
	approved_at = $7,
	cancelled_by = NULLIF($8, ''),
	cancelled_at = $9,
	edited_by = NULLIF($10, ''),
	edited_at = $11
WHERE id = $1`

	tag, err := s.exec(ctx, stmt, r.ID,
		string(r.Status), r.LightSurcharge, r.Notes, r.CancellationReason,
		r.ApprovedBy, r.ApprovedAt,
		r.CancelledBy, r.CancelledAt,
		r.EditedBy, r.EditedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SlotConflictError{CourtID: r.CourtID, Slots: []domain.SlotKey{r.Slot()}}
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidStatus
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (s store) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	if err := s.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reservations WHERE reference = $1)`, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check reference: %w", err)
	}
	return exists, nil
}
