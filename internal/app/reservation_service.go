package app

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetCourt(ctx context.Context, id int64) (domain.Court, error)
	GetTenant(ctx context.Context, id int64) (domain.Tenant, error)
	GetReservation(ctx context.Context, id int64) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id int64) (domain.Reservation, error)
	ListByReference(ctx context.Context, reference string, forUpdate bool) ([]domain.Reservation, error)
	ListTenantReservations(ctx context.Context, tenantID int64, from, to time.Time, includeCancelled bool) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, r domain.Reservation) error
}

// ReservationService runs the reservation lifecycle after commit: confirm,
// cancel and edit, plus the read paths tenants use to find their bookings.
type ReservationService struct {
	notifier
	repo  ReservationRepository
	clock clock.Clock
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, cache AvailabilityCache, events EventPublisher, logger logrus.FieldLogger) *ReservationService {
	return &ReservationService{
		notifier: newNotifier(cache, events, clk, logger),
		repo:     repo,
		clock:    clk,
	}
}

// Get returns one reservation. Tenants only see their own.
func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error) {
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !canSee(actor, r) {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

// ByReference returns every reservation of one commit.
func (s *ReservationService) ByReference(ctx context.Context, actor domain.Actor, reference string) ([]domain.Reservation, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.ErrReferenceNotFound
	}
	rows, err := s.repo.ListByReference(ctx, reference, false)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, rows[0]) {
		return nil, domain.ErrReferenceNotFound
	}
	return rows, nil
}

type TenantReservationsInput struct {
	TenantID         int64
	From             time.Time
	To               time.Time
	IncludeCancelled bool
}

func (s *ReservationService) TenantReservations(ctx context.Context, in TenantReservationsInput) ([]domain.Reservation, error) {
	if in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return nil, domain.ErrInvalidDateRange
	}
	if _, err := s.repo.GetTenant(ctx, in.TenantID); err != nil {
		return nil, err
	}
	return s.repo.ListTenantReservations(ctx, in.TenantID, in.From, in.To, in.IncludeCancelled)
}

// Confirm moves a pending reservation to confirmed. Operators only.
func (s *ReservationService) Confirm(ctx context.Context, actor domain.Actor, id int64) (domain.Reservation, error) {
	if !actor.IsOperator() {
		return domain.Reservation{}, domain.ErrOperatorRequired
	}

	var updated domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetReservationForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if r.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		s.approve(&r, actor)
		if err := s.repo.UpdateReservation(txCtx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, asPersistence("confirm reservation", err)
	}

	s.afterWrite(ctx, domain.EventReservationConfirmed, actor, []domain.Reservation{updated})
	return updated, nil
}

// Cancel cancels one reservation. Operators must give a reason; tenants may
// cancel their own reservations.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (domain.Reservation, error) {
	reason = strings.TrimSpace(reason)
	if actor.IsOperator() && reason == "" {
		return domain.Reservation{}, domain.ErrCancelReasonRequired
	}

	var updated domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetReservationForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !canSee(actor, r) {
			return domain.ErrReservationNotFound
		}
		if !r.Status.CanTransitionTo(domain.StatusCancelled) {
			return domain.ErrInvalidTransition
		}
		s.cancel(&r, actor, reason)
		if err := s.repo.UpdateReservation(txCtx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, asPersistence("cancel reservation", err)
	}

	s.afterWrite(ctx, domain.EventReservationCancelled, actor, []domain.Reservation{updated})
	return updated, nil
}

// CancelReference cancels every live reservation sharing reference and
// returns the ones it changed.
func (s *ReservationService) CancelReference(ctx context.Context, actor domain.Actor, reference, reason string) ([]domain.Reservation, error) {
	reason = strings.TrimSpace(reason)
	if actor.IsOperator() && reason == "" {
		return nil, domain.ErrCancelReasonRequired
	}

	var cancelled []domain.Reservation
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		rows, err := s.repo.ListByReference(txCtx, strings.TrimSpace(reference), true)
		if err != nil {
			return err
		}
		if !canSee(actor, rows[0]) {
			return domain.ErrReferenceNotFound
		}
		for _, r := range rows {
			if !r.Status.CanTransitionTo(domain.StatusCancelled) {
				continue
			}
			s.cancel(&r, actor, reason)
			if err := s.repo.UpdateReservation(txCtx, r); err != nil {
				return err
			}
			cancelled = append(cancelled, r)
		}
		if len(cancelled) == 0 {
			return domain.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, asPersistence("cancel reference", err)
	}

	s.afterWrite(ctx, domain.EventReservationCancelled, actor, cancelled)
	return cancelled, nil
}

// EditInput holds the fields an operator may change. Nil fields are left
// alone. The court, date and times of a reservation never change.
type EditInput struct {
	Status             *domain.ReservationStatus
	Lights             *bool
	Notes              *string
	CancellationReason string
}

// Edit applies an operator edit. Status changes follow the lifecycle.
func (s *ReservationService) Edit(ctx context.Context, actor domain.Actor, id int64, in EditInput) (domain.Reservation, error) {
	if !actor.IsOperator() {
		return domain.Reservation{}, domain.ErrOperatorRequired
	}

	var updated domain.Reservation
	eventType := domain.EventReservationUpdated
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetReservationForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if r.Status == domain.StatusCancelled {
			return domain.ErrInvalidTransition
		}

		if in.Status != nil && *in.Status != r.Status {
			next := *in.Status
			if !r.Status.CanTransitionTo(next) {
				return domain.ErrInvalidTransition
			}
			switch next {
			case domain.StatusConfirmed:
				s.approve(&r, actor)
				eventType = domain.EventReservationConfirmed
			case domain.StatusCancelled:
				reason := strings.TrimSpace(in.CancellationReason)
				if reason == "" {
					return domain.ErrCancelReasonRequired
				}
				s.cancel(&r, actor, reason)
				eventType = domain.EventReservationCancelled
			}
		}
		if in.Lights != nil {
			r.LightSurcharge = 0
			if *in.Lights {
				court, err := s.repo.GetCourt(txCtx, r.CourtID)
				if err != nil {
					return err
				}
				r.LightSurcharge = court.LightSurcharge
			}
		}
		if in.Notes != nil {
			r.Notes = strings.TrimSpace(*in.Notes)
		}

		now := s.clock.Now()
		r.EditedBy = actor.String()
		r.EditedAt = &now
		if err := s.repo.UpdateReservation(txCtx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return domain.Reservation{}, asPersistence("edit reservation", err)
	}

	s.afterWrite(ctx, eventType, actor, []domain.Reservation{updated})
	return updated, nil
}

func (s *ReservationService) approve(r *domain.Reservation, actor domain.Actor) {
	now := s.clock.Now()
	r.Status = domain.StatusConfirmed
	r.ApprovedBy = actor.String()
	r.ApprovedAt = &now
}

func (s *ReservationService) cancel(r *domain.Reservation, actor domain.Actor, reason string) {
	now := s.clock.Now()
	r.Status = domain.StatusCancelled
	r.CancellationReason = reason
	r.CancelledBy = actor.String()
	r.CancelledAt = &now
}

func canSee(actor domain.Actor, r domain.Reservation) bool {
	return actor.IsOperator() || actor.ID == r.TenantID
}
