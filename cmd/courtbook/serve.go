package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/app"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/booking"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/cache"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/clock"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/config"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/events"
	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/storage/postgres"
	transporthttp "github.com/bumpyy/apartment-permata-hijau-sub000/internal/transport/http"
	"github.com/bumpyy/apartment-permata-hijau-sub000/migrations"
)

const startupTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func policyFromConfig(c config.BookingConfig) app.Policy {
	return app.Policy{
		CrossCourtCheck: c.CrossCourtCheck,
		Limits: booking.QuotaLimits{
			MaxSlotsPerDay: c.MaxSlotsPerDay,
			MaxDaysPerWeek: c.MaxDaysPerWeek,
		},
		Classifier: booking.NewClassifier(c.PremiumOpenDay),
		Pricing:    booking.NewPricing(c.PremiumPrice),
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	applied, err := migrations.Apply(startupCtx, pool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, name := range applied {
		logger.WithField("migration", name).Info("migration applied")
	}

	var availability app.AvailabilityCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(startupCtx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		availability = cache.NewRedisAvailabilityCache(client, cfg.Cache.TTL)
		logger.WithFields(logrus.Fields{"addr": cfg.Redis.Addr, "ttl": cfg.Cache.TTL}).Info("availability cache enabled")
	} else {
		logger.Warn("redis.addr not set, availability cache disabled")
	}

	var publisher app.EventPublisher
	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publisher = amqpPub
		logger.WithField("exchange", cfg.AMQP.Exchange).Info("publishing reservation events")
	} else {
		logger.Warn("amqp.url not set, reservation events go to the log only")
		publisher = events.NewLogPublisher(logger)
	}

	clk := clock.NewSystem(cfg.Booking.Loc)
	bookingSvc := app.NewBookingService(postgres.NewBookingRepository(pool), clk, policyFromConfig(cfg.Booking), availability, publisher, logger)
	reservationSvc := app.NewReservationService(postgres.NewReservationRepository(pool), clk, availability, publisher, logger)
	adminSvc := app.NewAdminService(postgres.NewAdminRepository(pool), clk)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Booking:        bookingSvc,
		Reservations:   reservationSvc,
		Admin:          adminSvc,
		Health:         pool.Ping,
		Logger:         logger,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"port":     cfg.HTTP.Port,
		"location": cfg.Booking.Location,
	}).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("server stopped")
	return nil
}
