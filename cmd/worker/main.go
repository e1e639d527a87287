// Package main provides the entrypoint for the FieldRoute dispatch monitor.
// It consumes the guidance state feed and keeps a live view of in-flight
// trips for dispatchers.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	defaultAnnounceDistanceMeters = 100.0
	staleTripAge                  = time.Hour
	pruneInterval                 = 5 * time.Minute
)

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "fieldroute-monitor").
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FieldRoute dispatch monitor")

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}

	announceDistance := defaultAnnounceDistanceMeters
	if raw := os.Getenv("ANNOUNCE_DISTANCE_METERS"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatal().Err(err).Str("value", raw).Msg("invalid ANNOUNCE_DISTANCE_METERS")
		}
		announceDistance = parsed
	}

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := worker.NewMonitor(worker.MonitorConfig{
		Logger:                 log,
		AnnounceDistanceMeters: announceDistance,
	})

	pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: os.Getenv("PUBSUB_SUBSCRIPTION"),
		Monitor:          monitor,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
	}
	defer func() {
		if closeErr := pubsubHandler.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close pubsub handler")
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q,"active_trips":%d}`,
			Version, monitor.ActiveTrips())
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Devices can drop off mid-trip without a completion event
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				monitor.Prune(staleTripAge)
			}
		}
	}()

	receiveErr := make(chan error, 1)
	go func() {
		receiveErr <- pubsubHandler.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		if err := <-receiveErr; err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("receive error during shutdown")
		}
	case err := <-receiveErr:
		if err != nil {
			log.Error().Err(err).Msg("pubsub receive failed")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("dispatch monitor stopped")
}
