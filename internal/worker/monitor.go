// Package worker implements the dispatch monitor: a consumer of the
// guidance state feed that maintains a live view of in-flight trips for
// dispatchers and logs maneuver and completion events.
package worker

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StateMessage is the published guidance snapshot, as consumed from the feed.
type StateMessage struct {
	TripID                   string  `json:"trip_id"`
	Event                    string  `json:"event"`
	StepIndex                int     `json:"step_index"`
	Instruction              string  `json:"instruction"`
	DistanceToManeuverMeters float64 `json:"distance_to_maneuver_m"`
	DistanceAlongRoute       bool    `json:"distance_along_route"`
	RemainingDistanceMeters  float64 `json:"remaining_distance_m"`
	RemainingSeconds         float64 `json:"remaining_seconds,omitempty"`
	HasETA                   bool    `json:"has_eta"`
	Lat                      float64 `json:"lat"`
	Lon                      float64 `json:"lon"`
	Completed                bool    `json:"completed"`
	UpdatedAt                string  `json:"updated_at"`
}

// Feed event names.
const (
	EventState        = "state"
	EventStepAdvanced = "step_advanced"
	EventCompleted    = "completed"
)

// TripProgress is the monitor's view of one trip.
type TripProgress struct {
	TripID                  string
	StepIndex               int
	Instruction             string
	RemainingDistanceMeters float64
	RemainingSeconds        float64
	HasETA                  bool
	Completed               bool
	UpdatedAt               time.Time
}

// MonitorConfig holds configuration for the dispatch monitor.
type MonitorConfig struct {
	Logger zerolog.Logger

	// AnnounceDistanceMeters is the threshold below which an upcoming
	// maneuver is logged for voice announcement. Zero disables.
	AnnounceDistanceMeters float64
}

// Monitor consumes guidance state messages and tracks trip progress.
type Monitor struct {
	mu     sync.RWMutex
	trips  map[string]TripProgress
	config MonitorConfig
	logger zerolog.Logger
}

// NewMonitor creates a new dispatch monitor.
func NewMonitor(cfg MonitorConfig) *Monitor {
	return &Monitor{
		trips:  make(map[string]TripProgress),
		config: cfg,
		logger: cfg.Logger,
	}
}

// Handle processes one state message from the feed. Malformed payloads
// return an error; callers decide whether to redeliver.
func (m *Monitor) Handle(data []byte) error {
	var msg StateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("parsing state message: %w", err)
	}
	if msg.TripID == "" {
		return fmt.Errorf("state message without trip_id")
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, msg.UpdatedAt)
	if err != nil {
		updatedAt = time.Now()
	}

	progress := TripProgress{
		TripID:                  msg.TripID,
		StepIndex:               msg.StepIndex,
		Instruction:             msg.Instruction,
		RemainingDistanceMeters: msg.RemainingDistanceMeters,
		RemainingSeconds:        msg.RemainingSeconds,
		HasETA:                  msg.HasETA,
		Completed:               msg.Completed,
		UpdatedAt:               updatedAt,
	}

	m.mu.Lock()
	if msg.Completed {
		delete(m.trips, msg.TripID)
	} else {
		m.trips[msg.TripID] = progress
	}
	m.mu.Unlock()

	switch msg.Event {
	case EventStepAdvanced:
		m.logger.Info().
			Str("trip_id", msg.TripID).
			Int("step_index", msg.StepIndex).
			Str("instruction", msg.Instruction).
			Msg("trip advanced to next maneuver")
	case EventCompleted:
		m.logger.Info().
			Str("trip_id", msg.TripID).
			Msg("trip completed")
	}

	if m.config.AnnounceDistanceMeters > 0 && !msg.Completed &&
		msg.DistanceToManeuverMeters <= m.config.AnnounceDistanceMeters {
		m.logger.Info().
			Str("trip_id", msg.TripID).
			Float64("distance_m", msg.DistanceToManeuverMeters).
			Str("instruction", msg.Instruction).
			Bool("along_route", msg.DistanceAlongRoute).
			Msg("maneuver announcement due")
	}

	return nil
}

// Progress returns the monitor's view of a trip.
func (m *Monitor) Progress(tripID string) (TripProgress, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	progress, ok := m.trips[tripID]
	return progress, ok
}

// ActiveTrips returns the number of trips currently in flight.
func (m *Monitor) ActiveTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// Prune drops trips that have not reported within maxAge. Devices can
// drop off mid-trip without a completion event; the board must not
// accumulate them forever.
func (m *Monitor) Prune(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, progress := range m.trips {
		if progress.UpdatedAt.Before(cutoff) {
			delete(m.trips, id)
			pruned++
		}
	}

	if pruned > 0 {
		m.logger.Info().Int("count", pruned).Msg("pruned stale trips")
	}
	return pruned
}
