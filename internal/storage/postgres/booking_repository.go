package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// BookingRepository backs availability, validation and commit.
type BookingRepository struct {
	store
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{store: store{pool: pool}}
}

// ReservationRepository backs the reservation lifecycle operations.
type ReservationRepository struct {
	store
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{store: store{pool: pool}}
}
