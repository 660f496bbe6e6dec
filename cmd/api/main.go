package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonops/booking-engine/cmd/mainconfig"
	"github.com/salonops/booking-engine/internal/api/router"
	"github.com/salonops/booking-engine/internal/bookings"
	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
	appconfig "github.com/salonops/booking-engine/internal/config"
	"github.com/salonops/booking-engine/internal/http/handlers"
	"github.com/salonops/booking-engine/internal/notifications"
	"github.com/salonops/booking-engine/internal/observability/metrics"
	"github.com/salonops/booking-engine/internal/scheduler"
	"github.com/salonops/booking-engine/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking engine API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

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

	// Stores
	bookingStore := bookings.NewStore(pool)
	clientStore := clients.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	notificationStore := notifications.NewStore(pool)

	// Service catalog cache, refreshed in the background.
	catalogCache := catalog.NewCache(catalogStore, logger)
	if err := catalogCache.Refresh(ctx); err != nil {
		logger.Warn("initial catalog refresh failed", "error", err)
	}
	resolver := catalog.NewResolver(catalogCache, catalogStore)

	// Outbound channels
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

	// Confirmation messages go out synchronously on create; reminders are the
	// notifier's job.
	retryQueue := notifications.NewRetryQueue(cfg.RetryMaxAttempts, cfg.RetryBaseDelay)
	dispatcher := notifications.NewDispatcher(notificationStore, smsSender, retryQueue, logger).
		WithMetrics(engineMetrics)
	if emailSender != nil {
		dispatcher = dispatcher.WithEmail(emailSender)
	}
	hook := notifications.NewCreationHook(notificationStore, dispatcher, resolver, cfg.SalonName, logger)

	bookingService := bookings.NewService(bookingStore, clientStore, resolver, cal, logger).
		WithCreatedHook(hook).
		WithMetrics(engineMetrics)
	availability := bookings.NewChecker(bookingStore)

	// Handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, availability, logger)
	healthHandler := handlers.NewHealthHandler(pool, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationStore, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Bookings:           bookingHandler,
		Health:             healthHandler,
		Notifications:      notificationHandler,
		MetricsHandler:     promhttp.Handler(),
		StaffAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Keep the catalog cache warm and drain this process's own retry queue
	// while the server runs. The queue is in-process memory, so failed
	// confirmations must be re-attempted here; the notifier only drains its
	// own queue.
	runner := scheduler.NewRunner(logger).
		Add(scheduler.Task{
			Name:     "catalog_refresh",
			Interval: cfg.CatalogRefreshInterval,
			Tick:     catalogCache.Refresh,
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
		})
	go runner.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
