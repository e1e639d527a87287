// Package main provides the entrypoint for the FieldRoute guidance API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/api"
	"github.com/fieldroute/fieldroute/internal/api/handler"
	"github.com/fieldroute/fieldroute/internal/api/middleware"
	"github.com/fieldroute/fieldroute/internal/auth"
	"github.com/fieldroute/fieldroute/internal/database"
	"github.com/fieldroute/fieldroute/internal/device"
	"github.com/fieldroute/fieldroute/internal/events"
	"github.com/fieldroute/fieldroute/internal/guidance"
	"github.com/fieldroute/fieldroute/internal/routing/openrouteservice"
	"github.com/fieldroute/fieldroute/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fieldroute-guidance"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FieldRoute guidance API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	readyChecks := make(map[string]handler.ReadyCheck)

	// Device registrations persist in PostgreSQL; fall back to the in-memory
	// repository for local development without a database.
	var deviceRepo device.Repository
	if os.Getenv("DB_DISABLED") == "true" {
		deviceRepo = device.NewInMemoryRepository()
		log.Warn().Msg("database disabled - device registrations are not persisted")
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		deviceRepo = device.NewPostgresRepository(pool)
		readyChecks["database"] = pool.Ping
	}

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.fieldroute.io",
		Audience:   "fieldroute-guidance",
	})

	deviceService := device.NewService(device.ServiceConfig{
		Repository: deviceRepo,
		JWT:        jwtService,
		Logger:     log,
	})
	log.Info().Msg("device service initialized")

	// Initialize the directions provider
	orsAPIKey := os.Getenv("ORS_API_KEY")
	if orsAPIKey == "" {
		log.Warn().Msg("ORS_API_KEY not set - trip creation will fail")
	}
	provider := openrouteservice.NewClient(openrouteservice.ClientConfig{
		APIKey:  orsAPIKey,
		BaseURL: os.Getenv("ORS_BASE_URL"),
		Logger:  log,
	})

	// Initialize the state publisher: Pub/Sub when configured, noop otherwise
	var publisher guidance.Publisher = guidance.NopPublisher{}
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		pubsubPublisher, err := events.NewPubSubPublisher(ctx, events.PubSubConfig{
			ProjectID: projectID,
			TopicName: os.Getenv("PUBSUB_TOPIC"),
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub publisher")
		}
		defer func() {
			if closeErr := pubsubPublisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()
		publisher = pubsubPublisher
		log.Info().Str("project_id", projectID).Msg("pubsub state publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - guidance state is not published")
	}

	// Initialize the guidance session manager
	manager := guidance.NewManager(guidance.ManagerConfig{
		Publisher: publisher,
		Logger:    log,
	})
	log.Info().Msg("guidance manager initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		JWTService:      jwtService,
		DeviceService:   deviceService,
		Provider:        provider,
		Guidance:        manager,
		ReadyChecks:     readyChecks,
		ProviderMetrics: providerMetrics,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
