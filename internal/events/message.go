// Package events publishes reservation lifecycle events for downstream
// consumers such as notification workers.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// Message is the JSON body of one published event.
type Message struct {
	ID           string               `json:"id"`
	Type         string               `json:"type"`
	OccurredAt   time.Time            `json:"occurred_at"`
	Actor        string               `json:"actor"`
	Reference    string               `json:"reference,omitempty"`
	Reservations []ReservationPayload `json:"reservations"`
}

type ReservationPayload struct {
	ID             int64  `json:"id"`
	TenantID       int64  `json:"tenant_id"`
	CourtID        int64  `json:"court_id"`
	CourtName      string `json:"court_name,omitempty"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         string `json:"status"`
	BookingClass   string `json:"booking_class"`
	Price          int64  `json:"price"`
	LightSurcharge int64  `json:"light_surcharge"`
	Reference      string `json:"reference"`
}

func NewMessage(e domain.ReservationEvent) Message {
	m := Message{
		ID:           uuid.NewString(),
		Type:         e.Type,
		OccurredAt:   e.OccurredAt.UTC(),
		Actor:        e.Actor.String(),
		Reservations: make([]ReservationPayload, 0, len(e.Reservations)),
	}
	for _, r := range e.Reservations {
		if m.Reference == "" {
			m.Reference = r.Reference
		}
		m.Reservations = append(m.Reservations, ReservationPayload{
			ID:             r.ID,
			TenantID:       r.TenantID,
			CourtID:        r.CourtID,
			CourtName:      r.CourtName,
			Date:           r.Date.Format(domain.DateLayout),
			StartTime:      r.StartTime.String(),
			EndTime:        r.EndTime.String(),
			Status:         string(r.Status),
			BookingClass:   string(r.Class),
			Price:          r.Price,
			LightSurcharge: r.LightSurcharge,
			Reference:      r.Reference,
		})
	}
	return m
}
