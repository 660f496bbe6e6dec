package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salonops/booking-engine/internal/http/handlers"
	httpmiddleware "github.com/salonops/booking-engine/internal/http/middleware"
	"github.com/salonops/booking-engine/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	Bookings        *handlers.BookingHandler
	Health          *handlers.HealthHandler
	Notifications   *handlers.NotificationHandler
	MetricsHandler  http.Handler
	StaffAuthSecret string

	CORSAllowedOrigins []string

	// Public rate limit; zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.Check)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Bookings != nil {
			public.Route("/api", func(api chi.Router) {
				api.Post("/bookings", cfg.Bookings.Create)
				api.Get("/bookings/lookup/{code}", cfg.Bookings.Lookup)
				api.Get("/availability", cfg.Bookings.Availability)
			})
		}
	})

	// Staff endpoints (protected by JWT)
	r.Route("/staff", func(staff chi.Router) {
		staff.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))
		if cfg.Bookings != nil {
			staff.Post("/bookings/{id}/cancel", cfg.Bookings.Cancel)
			staff.Post("/bookings/{id}/reschedule", cfg.Bookings.Reschedule)
			staff.Patch("/bookings/{id}/status", cfg.Bookings.UpdateStatus)
			staff.Patch("/bookings/{id}/price", cfg.Bookings.OverridePrice)
		}
		if cfg.Notifications != nil {
			staff.Get("/bookings/{id}/notifications", cfg.Notifications.ListForBooking)
		}
	})

	return r
}
