package guidance

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fieldroute/fieldroute/internal/routing"
)

// Event classifies a published state snapshot.
type Event string

const (
	// EventState is a routine per-fix snapshot.
	EventState Event = "state"
	// EventStepAdvanced marks the snapshot that committed a step transition.
	EventStepAdvanced Event = "step_advanced"
	// EventCompleted marks the terminal snapshot of a trip.
	EventCompleted Event = "completed"
)

// Publisher receives every published navigation state. Implementations must
// not block: publishing happens after the session transition and a slow
// publisher must not back-pressure the fix pipeline.
type Publisher interface {
	PublishState(ctx context.Context, tripID string, event Event, state State)
}

// NopPublisher discards all states.
type NopPublisher struct{}

// PublishState implements Publisher.
func (NopPublisher) PublishState(context.Context, string, Event, State) {}

// ManagerConfig holds configuration for the session manager.
type ManagerConfig struct {
	// Config overrides pipeline thresholds for all sessions.
	Config Config

	// Publisher receives state snapshots (optional).
	Publisher Publisher

	// Logger for manager and session events.
	Logger zerolog.Logger
}

// Manager owns the active guidance sessions, one per trip. Sessions are
// created when a route is accepted for guidance and destroyed on completion
// or cancellation; a new route always means a new session.
type Manager struct {
	cfg       Config
	publisher Publisher
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(cfg ManagerConfig) *Manager {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &Manager{
		cfg:       cfg.Config,
		publisher: publisher,
		logger:    cfg.Logger,
		sessions:  make(map[string]*Session),
	}
}

// Start accepts a computed route for active guidance and returns the new
// trip ID with the initial state.
func (m *Manager) Start(ctx context.Context, route *routing.Route) (string, State, error) {
	guided, err := NewRoute(route)
	if err != nil {
		return "", State{}, err
	}

	tripID := "trp_" + uuid.New().String()[:22]

	session, err := NewSession(SessionConfig{
		Route:  guided,
		Config: m.cfg,
		Logger: m.logger.With().Str("trip_id", tripID).Logger(),
	})
	if err != nil {
		return "", State{}, err
	}

	m.mu.Lock()
	m.sessions[tripID] = session
	m.mu.Unlock()

	state := session.State()

	m.logger.Info().
		Str("trip_id", tripID).
		Int("steps", len(guided.Steps)).
		Float64("distance_m", guided.TotalDistanceMeters).
		Msg("guidance started")

	m.publisher.PublishState(ctx, tripID, EventState, state)

	return tripID, state, nil
}

// Fix feeds one raw position fix to a trip's session and returns the
// resulting state. A completed trip is evicted after its terminal state is
// published.
func (m *Manager) Fix(ctx context.Context, tripID string, fix PositionFix) (State, error) {
	m.mu.RLock()
	session, ok := m.sessions[tripID]
	m.mu.RUnlock()
	if !ok {
		return State{}, ErrTripNotFound
	}

	state := session.OnFix(fix)

	event := EventState
	switch {
	case state.Completed && state.Advanced:
		event = EventCompleted
	case state.Advanced:
		event = EventStepAdvanced
	}
	m.publisher.PublishState(ctx, tripID, event, state)

	if state.Completed {
		m.mu.Lock()
		delete(m.sessions, tripID)
		m.mu.Unlock()
	}

	return state, nil
}

// State returns the current snapshot for a trip.
func (m *Manager) State(tripID string) (State, error) {
	m.mu.RLock()
	session, ok := m.sessions[tripID]
	m.mu.RUnlock()
	if !ok {
		return State{}, ErrTripNotFound
	}
	return session.State(), nil
}

// End cancels guidance for a trip.
func (m *Manager) End(tripID string) error {
	m.mu.Lock()
	_, ok := m.sessions[tripID]
	delete(m.sessions, tripID)
	m.mu.Unlock()

	if !ok {
		return ErrTripNotFound
	}

	m.logger.Info().Str("trip_id", tripID).Msg("guidance ended")
	return nil
}

// ActiveTrips returns the number of active sessions.
func (m *Manager) ActiveTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
