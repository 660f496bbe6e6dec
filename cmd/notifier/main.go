// The notifier runs the periodic passes behind the booking engine: the
// reminder scan, the retry drain, the calendar resync and the nightly record
// cleanup. It shares all wiring with the API server and can run on several
// replicas; a Redis lease keeps each pass single-flight.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/salonops/booking-engine/cmd/mainconfig"
	"github.com/salonops/booking-engine/internal/bookings"
	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
	appconfig "github.com/salonops/booking-engine/internal/config"
	"github.com/salonops/booking-engine/internal/notifications"
	"github.com/salonops/booking-engine/internal/observability/metrics"
	"github.com/salonops/booking-engine/internal/scheduler"
	"github.com/salonops/booking-engine/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking engine notifier", "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	bookingStore := bookings.NewStore(pool)
	clientStore := clients.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	notificationStore := notifications.NewStore(pool)

	catalogCache := catalog.NewCache(catalogStore, logger)
	if err := catalogCache.Refresh(ctx); err != nil {
		logger.Warn("initial catalog refresh failed", "error", err)
	}
	resolver := catalog.NewResolver(catalogCache, catalogStore)

	smsSender, err := mainconfig.BuildSMSSender(cfg, logger)
	if err != nil {
		logger.Error("failed to build sms sender", "error", err)
		os.Exit(1)
	}
	emailSender, err := mainconfig.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build email sender", "error", err)
		os.Exit(1)
	}
	cal, err := mainconfig.BuildCalendar(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build calendar sync", "error", err)
		os.Exit(1)
	}

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)

	retryQueue := notifications.NewRetryQueue(cfg.RetryMaxAttempts, cfg.RetryBaseDelay)
	dispatcher := notifications.NewDispatcher(notificationStore, smsSender, retryQueue, logger).
		WithMetrics(engineMetrics)
	if emailSender != nil {
		dispatcher = dispatcher.WithEmail(emailSender)
	}

	scan := notifications.NewScheduler(bookingStore, clientStore, resolver,
		notificationStore, dispatcher, cfg.PrepCategories, cfg.SalonName, logger)
	cleanup := notifications.NewCleanup(notificationStore, cfg.RecordRetention, logger)
	resync := bookings.NewResyncer(bookingStore, resolver, cal, logger)

	runner := scheduler.NewRunner(logger).
		Add(scheduler.Task{
			Name:       "notification_scan",
			Interval:   cfg.ScanInterval,
			RunOnStart: true,
			Tick: func(ctx context.Context) error {
				started := time.Now()
				sent, err := scan.Scan(ctx, time.Now().UTC())
				engineMetrics.ObserveScanLatency(time.Since(started).Seconds())
				if sent > 0 {
					logger.Info("scan dispatched notifications", "count", sent)
				}
				return err
			},
		}).
		Add(scheduler.Task{
			Name:     "retry_drain",
			Interval: cfg.RetryDrainInterval,
			Tick: func(ctx context.Context) error {
				retried := dispatcher.DrainRetries(ctx, time.Now().UTC())
				if retried > 0 {
					logger.Info("retried notifications", "count", retried)
				}
				return nil
			},
		}).
		Add(scheduler.Task{
			Name:       "record_cleanup",
			Interval:   cfg.CleanupInterval,
			RunOnStart: true,
			Tick: func(ctx context.Context) error {
				_, err := cleanup.Run(ctx, time.Now().UTC())
				return err
			},
		}).
		Add(scheduler.Task{
			Name:     "catalog_refresh",
			Interval: cfg.CatalogRefreshInterval,
			Tick:     catalogCache.Refresh,
		})

	if cal != nil {
		runner.Add(scheduler.Task{
			Name:     "calendar_resync",
			Interval: cfg.CalendarResyncInterval,
			Tick: func(ctx context.Context) error {
				mirrored, err := resync.Run(ctx)
				if mirrored > 0 {
					logger.Info("resynced calendar events", "count", mirrored)
				}
				return err
			},
		})
	}

	if redisClient := mainconfig.OpenRedis(cfg); redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		runner.WithLease(scheduler.NewLease(redisClient, ""))
	}

	go runner.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("notifier shutting down")
	cancel()
	time.Sleep(2 * time.Second)
}
