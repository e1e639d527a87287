// Package api provides the HTTP API for the FieldRoute guidance service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/api/handler"
	"github.com/fieldroute/fieldroute/internal/api/middleware"
	"github.com/fieldroute/fieldroute/internal/auth"
	"github.com/fieldroute/fieldroute/internal/device"
	"github.com/fieldroute/fieldroute/internal/guidance"
	"github.com/fieldroute/fieldroute/internal/routing"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	JWTService    *auth.JWTService
	DeviceService *device.Service
	Provider      routing.Provider
	Guidance      *guidance.Manager

	// ReadyChecks are probed by GET /v1/ops/ready.
	ReadyChecks map[string]handler.ReadyCheck

	// ProviderMetrics records directions-provider call metrics (optional).
	ProviderMetrics *middleware.ProviderMetrics
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fieldroute-guidance"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks)
	deviceHandler := handler.NewDeviceHandler(cfg.DeviceService)
	tripHandler := handler.NewTripHandler(handler.TripHandlerConfig{
		Provider: cfg.Provider,
		Guidance: cfg.Guidance,
		Devices:  cfg.DeviceService,
		Metrics:  cfg.ProviderMetrics,
	})

	authMiddleware := middleware.Auth(cfg.JWTService)

	registrationRateLimit := middleware.RateLimitByIP(middleware.RegistrationRateLimit)
	tripRateLimit := middleware.RateLimitByDevice(middleware.TripRateLimit)
	fixRateLimit := middleware.RateLimitByDevice(middleware.FixRateLimit)
	standardRateLimit := middleware.RateLimitByDevice(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Device registration (public) - strict rate limiting
		r.With(registrationRateLimit).Post("/devices", deviceHandler.Register)

		// Trip endpoints (authenticated)
		r.Route("/trips", func(r chi.Router) {
			r.Use(authMiddleware)

			// Creation hits the directions provider
			r.With(tripRateLimit).Post("/", tripHandler.Start)

			r.Route("/{tripId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", tripHandler.GetState)
				r.With(standardRateLimit).Delete("/", tripHandler.End)

				// Fix stream: sized for 1Hz reporting with catch-up bursts
				r.With(fixRateLimit).Post("/fixes", tripHandler.SubmitFix)
			})
		})
	})

	return r
}
