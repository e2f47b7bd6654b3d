package http

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type BookingAPI interface {
	CourtLister
	AvailabilityReader
	SelectionValidator
	BookingCommitter
}

type ReservationAPI interface {
	ReservationReader
	ReservationLifecycle
}

type AdminAPI interface {
	AdminCourtService
	AdminTenantService
	PremiumOverrideService
}

type RouterConfig struct {
	Booking        BookingAPI
	Reservations   ReservationAPI
	Admin          AdminAPI
	Health         HealthCheck
	Logger         logrus.FieldLogger
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter wires every route behind request logging, CORS and the request
// timeout. Routes under /admin require an operator actor.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /health", HandleHealth(cfg.Health))

	mux.Handle("GET /courts", HandleListCourts(cfg.Booking))
	mux.Handle("GET /courts/{id}/availability", HandleAvailability(cfg.Booking))
	mux.Handle("GET /window", HandleWindow(cfg.Booking))
	mux.Handle("POST /bookings/validate", HandleValidateSelection(cfg.Booking))
	mux.Handle("POST /bookings", HandleCommit(cfg.Booking))

	mux.Handle("GET /tenants/{id}/reservations", HandleTenantReservations(cfg.Reservations))
	mux.Handle("GET /tenants/{id}/quota", HandleQuota(cfg.Booking))
	mux.Handle("GET /reservations/{id}", HandleGetReservation(cfg.Reservations))
	mux.Handle("POST /reservations/{id}/cancel", HandleCancel(cfg.Reservations))
	mux.Handle("GET /reservations/by-reference/{ref}", HandleByReference(cfg.Reservations))
	mux.Handle("POST /references/{ref}/cancel", HandleCancelReference(cfg.Reservations))

	mux.Handle("POST /admin/bookings", operatorOnly(HandleCommit(cfg.Booking)))
	mux.Handle("POST /admin/reservations/{id}/confirm", operatorOnly(HandleConfirm(cfg.Reservations)))
	mux.Handle("POST /admin/reservations/{id}/cancel", operatorOnly(HandleCancel(cfg.Reservations)))
	mux.Handle("PATCH /admin/reservations/{id}", operatorOnly(HandleEdit(cfg.Reservations)))
	mux.Handle("POST /admin/references/{ref}/cancel", operatorOnly(HandleCancelReference(cfg.Reservations)))
	mux.Handle("GET /admin/courts", operatorOnly(HandleAdminListCourts(cfg.Admin)))
	mux.Handle("POST /admin/courts", operatorOnly(HandleAdminCreateCourt(cfg.Admin)))
	mux.Handle("PUT /admin/courts/{id}", operatorOnly(HandleAdminUpdateCourt(cfg.Admin)))
	mux.Handle("GET /admin/tenants", operatorOnly(HandleAdminListTenants(cfg.Admin)))
	mux.Handle("POST /admin/tenants", operatorOnly(HandleAdminCreateTenant(cfg.Admin)))
	mux.Handle("GET /admin/premium-overrides", operatorOnly(HandleListPremiumOverrides(cfg.Admin)))
	mux.Handle("PUT /admin/premium-overrides", operatorOnly(HandleSetPremiumOverride(cfg.Admin)))
	mux.Handle("DELETE /admin/premium-overrides/{year}/{month}", operatorOnly(HandleDeletePremiumOverride(cfg.Admin)))

	mux.Handle("/", NotFoundHandler())

	return RequestLogger(CORS(cfg.CORSOrigins, Timeout(cfg.RequestTimeout, mux)), cfg.Logger)
}

func operatorOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireOperator(w, r); !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}
