package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/booking"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// MaxAvailabilityDays bounds one availability query.
const MaxAvailabilityDays = 62

const maxReferenceAttempts = 5

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetCourt(ctx context.Context, id int64) (domain.Court, error)
	ListCourts(ctx context.Context, activeOnly bool) ([]domain.Court, error)
	GetTenant(ctx context.Context, id int64) (domain.Tenant, error)
	LockTenant(ctx context.Context, id int64) (domain.Tenant, error)
	ListCourtReservations(ctx context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, error)
	ListTenantReservations(ctx context.Context, tenantID int64, from, to time.Time, includeCancelled bool) ([]domain.Reservation, error)
	ListPremiumOverrides(ctx context.Context) ([]domain.PremiumWindowOverride, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	CreateReservations(ctx context.Context, batch []domain.Reservation) ([]domain.Reservation, error)
}

// Policy is the site configuration the engine applies, resolved once at
// startup.
type Policy struct {
	CrossCourtCheck bool
	Limits          booking.QuotaLimits
	Classifier      booking.Classifier
	Pricing         booking.Pricing
}

func DefaultPolicy() Policy {
	return Policy{
		CrossCourtCheck: true,
		Limits:          booking.DefaultQuotaLimits(),
		Classifier:      booking.NewClassifier(booking.DefaultPremiumOpenDay),
		Pricing:         booking.NewPricing(booking.DefaultPremiumPrice),
	}
}

type BookingService struct {
	notifier
	repo   BookingRepository
	clock  clock.Clock
	policy Policy
}

func NewBookingService(repo BookingRepository, clk clock.Clock, policy Policy, cache AvailabilityCache, events EventPublisher, logger logrus.FieldLogger) *BookingService {
	return &BookingService{
		notifier: newNotifier(cache, events, clk, logger),
		repo:     repo,
		clock:    clk,
		policy:   policy,
	}
}

func (s *BookingService) ListCourts(ctx context.Context) ([]domain.Court, error) {
	return s.repo.ListCourts(ctx, true)
}

type AvailabilityInput struct {
	CourtID int64
	From    time.Time
	To      time.Time
}

// Availability annotates every grid slot of the court between From and To.
func (s *BookingService) Availability(ctx context.Context, in AvailabilityInput) (booking.Availability, error) {
	from, to := domain.DateOf(in.From), domain.DateOf(in.To)
	if in.From.IsZero() || in.To.IsZero() || to.Before(from) || to.Sub(from) >= MaxAvailabilityDays*24*time.Hour {
		return booking.Availability{}, domain.ErrInvalidDateRange
	}

	court, err := s.repo.GetCourt(ctx, in.CourtID)
	if err != nil {
		return booking.Availability{}, err
	}
	if !court.Active {
		return booking.Availability{}, domain.ErrCourtInactive
	}

	now := s.clock.Now()
	window, err := s.window(ctx, now)
	if err != nil {
		return booking.Availability{}, err
	}
	rows, err := s.courtRows(ctx, court.ID, from, to)
	if err != nil {
		return booking.Availability{}, err
	}
	return booking.Resolve(court, from, to, now, window, s.policy.Pricing, rows), nil
}

// Window reports the booking windows as of now.
func (s *BookingService) Window(ctx context.Context) (booking.Window, error) {
	return s.window(ctx, s.clock.Now())
}

func (s *BookingService) window(ctx context.Context, now time.Time) (booking.Window, error) {
	list, err := s.repo.ListPremiumOverrides(ctx)
	if err != nil {
		return booking.Window{}, err
	}
	return s.policy.Classifier.Window(now, booking.NewPremiumOverrides(list)), nil
}

func (s *BookingService) courtRows(ctx context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, error) {
	rows, hit, err := s.cache.Get(ctx, courtID, from, to)
	if err != nil {
		s.log.WithError(err).WithField("court_id", courtID).Warn("availability cache read failed")
	} else if hit {
		return rows, nil
	}

	version, verErr := s.cache.Version(ctx, courtID, from, to)
	if verErr != nil {
		s.log.WithError(verErr).WithField("court_id", courtID).Warn("availability cache version read failed")
	}

	rows, err = s.repo.ListCourtReservations(ctx, courtID, from, to)
	if err != nil {
		return nil, err
	}
	if verErr == nil {
		if err := s.cache.Set(ctx, courtID, from, to, version, rows); err != nil {
			s.log.WithError(err).WithField("court_id", courtID).Warn("availability cache write failed")
		}
	}
	return rows, nil
}

// SelectedSlot is one slot of an in-progress selection.
type SelectedSlot struct {
	CourtID int64
	Key     domain.SlotKey
}

type SelectionInput struct {
	TenantID int64
	CourtID  int64
	Slots    []domain.SlotKey
	// Elsewhere is what the tenant has selected on other courts in the same
	// session. It counts toward quota and cross-court checks.
	Elsewhere []SelectedSlot
}

type SlotQuote struct {
	Key   domain.SlotKey
	Class domain.BookingClass
	Quote booking.Quote
}

// SelectionReport is the full re-check of a selection. Every rule is
// evaluated so the tenant sees all problems at once.
type SelectionReport struct {
	Slots        []SlotQuote
	Total        int64
	WindowClosed []domain.SlotKey
	Quota        booking.QuotaResult
	Conflicts    booking.ConflictReport
}

func (r SelectionReport) OK() bool {
	return len(r.WindowClosed) == 0 && r.Quota.OK() && r.Conflicts.OK()
}

// Err returns the first failing rule in commit order: window, same-slot,
// quota, cross-court.
func (r SelectionReport) Err() error {
	if len(r.WindowClosed) > 0 {
		return &domain.WindowClosedError{Slots: r.WindowClosed}
	}
	if len(r.Conflicts.SlotConflicts) > 0 {
		return r.Conflicts.Err()
	}
	if err := r.Quota.Err(); err != nil {
		return err
	}
	return r.Conflicts.Err()
}

// ValidateSelection re-runs every rule over the whole selection without
// writing anything. It is meant to be called after each select or deselect.
func (s *BookingService) ValidateSelection(ctx context.Context, in SelectionInput) (SelectionReport, error) {
	keys, err := normalizeKeys(in.Slots)
	if err != nil {
		return SelectionReport{}, err
	}
	selected := booking.CourtSlots(in.CourtID, keys)
	for _, o := range in.Elsewhere {
		if err := booking.ValidateSlotKey(o.Key); err != nil {
			return SelectionReport{}, err
		}
		selected = append(selected, booking.CourtSlot{CourtID: o.CourtID, Key: o.Key})
	}

	tenant, err := s.repo.GetTenant(ctx, in.TenantID)
	if err != nil {
		return SelectionReport{}, err
	}
	if !tenant.Active {
		return SelectionReport{}, domain.ErrTenantInactive
	}
	court, err := s.repo.GetCourt(ctx, in.CourtID)
	if err != nil {
		return SelectionReport{}, err
	}
	if !court.Active {
		return SelectionReport{}, domain.ErrCourtInactive
	}

	var report SelectionReport
	if len(keys) == 0 {
		return report, nil
	}

	now := s.clock.Now()
	window, err := s.window(ctx, now)
	if err != nil {
		return SelectionReport{}, err
	}
	for _, k := range keys {
		class := window.Classify(k.Date)
		if !k.At(now.Location()).After(now) || !class.Bookable() {
			report.WindowClosed = append(report.WindowClosed, k)
		}
		q := s.policy.Pricing.Quote(court, class, k.Start)
		report.Slots = append(report.Slots, SlotQuote{Key: k, Class: class, Quote: q})
		report.Total += q.Total()
	}

	from, to := span(keys)
	courtRows, err := s.courtRows(ctx, court.ID, from, to)
	if err != nil {
		return SelectionReport{}, err
	}
	all := make([]domain.SlotKey, 0, len(selected))
	for _, sel := range selected {
		all = append(all, sel.Key)
	}
	weekFrom, weekTo := weekSpan(all)
	held, err := s.repo.ListTenantReservations(ctx, tenant.ID, weekFrom, weekTo, false)
	if err != nil {
		return SelectionReport{}, err
	}

	report.Quota = booking.CheckQuota(s.policy.Limits.ForTenant(tenant), held, selected)

	concurrent, err := s.concurrentSelections(ctx, in.Elsewhere)
	if err != nil {
		return SelectionReport{}, err
	}
	report.Conflicts = booking.DetectConflicts(booking.ConflictInput{
		TenantID:           tenant.ID,
		CourtID:            court.ID,
		Candidates:         booking.Intervals(keys),
		CourtReservations:  courtRows,
		TenantReservations: held,
		Concurrent:         concurrent,
		CrossCourt:         s.policy.CrossCourtCheck,
	})
	return report, nil
}

func (s *BookingService) concurrentSelections(ctx context.Context, elsewhere []SelectedSlot) ([]booking.Selection, error) {
	if len(elsewhere) == 0 {
		return nil, nil
	}
	courts, err := s.repo.ListCourts(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(courts))
	for _, c := range courts {
		names[c.ID] = c.Name
	}

	out := make([]booking.Selection, 0, len(elsewhere))
	for _, e := range elsewhere {
		out = append(out, booking.Selection{
			CourtID:   e.CourtID,
			CourtName: names[e.CourtID],
			Interval:  booking.SlotFor(e.Key).Interval(),
		})
	}
	return out, nil
}

type CommitInput struct {
	Actor    domain.Actor
	TenantID int64
	CourtID  int64
	Slots    []domain.SlotKey
	Notes    string
	// Class forces the booking class. Operators only.
	Class domain.BookingClass
}

type CommitResult struct {
	Reference    string
	Reservations []domain.Reservation
	Total        int64
}

// Commit books every slot in the batch or none of them. Tenant bookings are
// created pending and must pass window, quota and conflict checks; operator
// bookings are confirmed immediately and skip the window and quota checks.
// Same-slot conflicts are re-checked against live rows inside the
// transaction and the store's unique index settles any remaining race.
func (s *BookingService) Commit(ctx context.Context, in CommitInput) (CommitResult, error) {
	if len(in.Slots) == 0 {
		return CommitResult{}, domain.ErrEmptySelection
	}
	keys, err := normalizeKeys(in.Slots)
	if err != nil {
		return CommitResult{}, err
	}

	operator := in.Actor.IsOperator()
	if !operator && in.Actor.ID != in.TenantID {
		return CommitResult{}, domain.ErrOperatorRequired
	}
	if in.Class != "" {
		if !operator {
			return CommitResult{}, domain.ErrOperatorRequired
		}
		if !in.Class.Bookable() {
			return CommitResult{}, domain.ErrInvalidBookingClass
		}
	}

	now := s.clock.Now()
	window, err := s.window(ctx, now)
	if err != nil {
		return CommitResult{}, s.commitFailure(in, "", asPersistence("load premium overrides", err))
	}
	classes, err := s.classes(in, keys, window, now)
	if err != nil {
		return CommitResult{}, err
	}

	var result CommitResult
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		court, err := s.repo.GetCourt(txCtx, in.CourtID)
		if err != nil {
			return err
		}
		if !court.Active {
			return domain.ErrCourtInactive
		}
		tenant, err := s.repo.LockTenant(txCtx, in.TenantID)
		if err != nil {
			return err
		}
		if !tenant.Active {
			return domain.ErrTenantInactive
		}

		from, to := span(keys)
		live, err := s.repo.ListCourtReservations(txCtx, court.ID, from, to)
		if err != nil {
			return err
		}
		candidates := booking.Intervals(keys)
		if taken := booking.SameSlotConflicts(court.ID, candidates, live); len(taken) > 0 {
			return &domain.SlotConflictError{CourtID: court.ID, Slots: taken}
		}

		weekFrom, weekTo := weekSpan(keys)
		held, err := s.repo.ListTenantReservations(txCtx, tenant.ID, weekFrom, weekTo, false)
		if err != nil {
			return err
		}
		if !operator {
			if err := booking.CheckQuota(s.policy.Limits.ForTenant(tenant), held, booking.CourtSlots(court.ID, keys)).Err(); err != nil {
				return err
			}
		}
		if s.policy.CrossCourtCheck {
			if c := booking.CrossCourtConflicts(court.ID, candidates, held, nil); len(c) > 0 {
				return &domain.CrossCourtConflictError{Conflicts: c}
			}
		}

		ref, err := s.newReference(txCtx, tenant.ID, court.ID, now)
		if err != nil {
			return err
		}
		result.Reference = ref

		batch := make([]domain.Reservation, 0, len(keys))
		for i, k := range keys {
			r := domain.Reservation{
				TenantID:   tenant.ID,
				CourtID:    court.ID,
				CourtName:  court.Name,
				Date:       k.Date,
				StartTime:  k.Start,
				EndTime:    booking.SlotFor(k).End,
				Status:     domain.StatusPending,
				Class:      classes[i],
				WeekAnchor: k.WeekAnchor(),
				Reference:  ref,
				Notes:      in.Notes,
				CreatedBy:  in.Actor.String(),
				CreatedAt:  now,
			}
			if operator {
				approvedAt := now
				r.Status = domain.StatusConfirmed
				r.ApprovedBy = in.Actor.String()
				r.ApprovedAt = &approvedAt
			}
			s.policy.Pricing.Apply(&r, court)
			batch = append(batch, r)
		}

		created, err := s.repo.CreateReservations(txCtx, batch)
		if err != nil {
			return err
		}
		for i := range created {
			created[i].CourtName = court.Name
			result.Total += created[i].Price + created[i].LightSurcharge
		}
		result.Reservations = created
		return nil
	})
	if err != nil {
		return CommitResult{}, s.commitFailure(in, result.Reference, asPersistence("commit booking", err))
	}

	s.afterWrite(ctx, domain.EventReservationCreated, in.Actor, result.Reservations)
	s.log.WithFields(logrus.Fields{
		"tenant_id": in.TenantID,
		"court_id":  in.CourtID,
		"reference": result.Reference,
		"slots":     len(result.Reservations),
		"actor":     in.Actor.String(),
	}).Info("booking committed")
	return result, nil
}

// classes resolves the booking class of each key, rejecting keys outside the
// windows. Past slots are closed for everyone.
func (s *BookingService) classes(in CommitInput, keys []domain.SlotKey, window booking.Window, now time.Time) ([]domain.BookingClass, error) {
	out := make([]domain.BookingClass, len(keys))
	var closed []domain.SlotKey
	for i, k := range keys {
		if !k.At(now.Location()).After(now) {
			closed = append(closed, k)
			continue
		}
		class := window.Classify(k.Date)
		switch {
		case in.Class != "":
			class = in.Class
		case in.Actor.IsOperator() && !class.Bookable():
			class = domain.ClassFree
		case !class.Bookable():
			closed = append(closed, k)
			continue
		}
		out[i] = class
	}
	if len(closed) > 0 {
		return nil, &domain.WindowClosedError{Slots: closed}
	}
	return out, nil
}

func (s *BookingService) newReference(ctx context.Context, tenantID, courtID int64, now time.Time) (string, error) {
	for range maxReferenceAttempts {
		ref, err := booking.NewReference(tenantID, courtID, domain.DateOf(now))
		if err != nil {
			return "", err
		}
		taken, err := s.repo.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free reference after %d attempts", maxReferenceAttempts)
}

func (s *BookingService) commitFailure(in CommitInput, reference string, err error) error {
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		return err
	}
	slots := make([]string, 0, len(in.Slots))
	for _, k := range in.Slots {
		slots = append(slots, k.String())
	}
	s.log.WithError(pe.Err).WithFields(logrus.Fields{
		"tenant_id": in.TenantID,
		"court_id":  in.CourtID,
		"reference": reference,
		"slot":      slots,
		"op":        pe.Op,
	}).Error("booking commit failed")
	return err
}

// QuotaSnapshot reports the tenant's usage for date's day and week.
func (s *BookingService) QuotaSnapshot(ctx context.Context, tenantID int64, date time.Time) (domain.QuotaSnapshot, error) {
	if date.IsZero() {
		return domain.QuotaSnapshot{}, domain.ErrInvalidDateRange
	}
	tenant, err := s.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return domain.QuotaSnapshot{}, err
	}
	week := domain.WeekAnchor(date)
	rows, err := s.repo.ListTenantReservations(ctx, tenant.ID, week, week.AddDate(0, 0, 6), false)
	if err != nil {
		return domain.QuotaSnapshot{}, err
	}
	return booking.Snapshot(tenant, s.policy.Limits, rows, date), nil
}

// normalizeKeys validates every key, rejects duplicates and returns the keys
// sorted.
func normalizeKeys(keys []domain.SlotKey) ([]domain.SlotKey, error) {
	out := make([]domain.SlotKey, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = domain.NewSlotKey(k.Date, k.Start)
		if err := booking.ValidateSlotKey(k); err != nil {
			return nil, err
		}
		if _, dup := seen[k.String()]; dup {
			return nil, fmt.Errorf("%w: %s selected twice", domain.ErrInvalidSlot, k)
		}
		seen[k.String()] = struct{}{}
		out = append(out, k)
	}
	booking.SortSlotKeys(out)
	return out, nil
}

// span returns the first and last dates of sorted keys.
func span(keys []domain.SlotKey) (time.Time, time.Time) {
	return keys[0].Date, keys[len(keys)-1].Date
}

// weekSpan covers every ISO week any key falls in.
func weekSpan(keys []domain.SlotKey) (time.Time, time.Time) {
	from, to := keys[0].Date, keys[0].Date
	for _, k := range keys[1:] {
		if k.Date.Before(from) {
			from = k.Date
		}
		if k.Date.After(to) {
			to = k.Date
		}
	}
	return domain.WeekAnchor(from), domain.WeekAnchor(to).AddDate(0, 0, 6)
}
