// Package router assembles the HTTP surface: the Meta webhook, the local
// flow-test endpoint, admin endpoints, health, and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saludtotal/agendabot/internal/http/handlers"
	httpmiddleware "github.com/saludtotal/agendabot/internal/http/middleware"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	Webhook         *handlers.WebhookHandler
	FlowTest        *handlers.FlowTestHandler // optional, dev only
	Admin           *handlers.AdminHandler
	AdminAuthSecret string
	MetricsHandler  http.Handler

	// WebhookRate limits inbound webhook requests per second per client.
	// Zero disables the limiter.
	WebhookRate  float64
	WebhookBurst int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Webhook != nil {
			public.Route("/webhook", func(wh chi.Router) {
				if cfg.WebhookRate > 0 {
					wh.Use(httpmiddleware.RateLimit(cfg.WebhookRate, cfg.WebhookBurst))
				}
				wh.Get("/", cfg.Webhook.Verify)
				wh.Post("/", cfg.Webhook.Receive)
			})
		}
		if cfg.FlowTest != nil {
			public.Post("/v1/flow", cfg.FlowTest.Handle)
		}
	})

	if cfg.Admin != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/sessions", cfg.Admin.ListSessions)
			admin.Get("/bookings", cfg.Admin.ListBookings)
		})
	}

	return r
}
