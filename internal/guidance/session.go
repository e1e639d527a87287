package guidance

import (
	"sync"

	"github.com/rs/zerolog"
)

// SessionConfig holds configuration for a navigation session.
type SessionConfig struct {
	// Route is the route to guide along (required).
	Route *Route

	// Config overrides pipeline thresholds; zero fields use defaults.
	Config Config

	// Logger for session events.
	Logger zerolog.Logger
}

// Session tracks progress along one route for the lifetime of one trip. It
// is the sole owner and mutator of the navigation state: every fix flows
// through validation, distance measurement, and the advancement decision
// inside a single critical section, so concurrent fixes never interleave.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	logger zerolog.Logger
	route  *Route

	stepIdx   int
	reference *PositionFix // last validated fix; never a rejected one
	previous  *PositionFix // validated fix before the reference

	smoothedSpeed float64
	hasSpeed      bool

	// remainingAfter[i] is the summed step distance beyond step i.
	remainingAfter []float64

	fallbackWarned bool // reset on each step transition

	state State
}

// NewSession creates a session for a route accepted for active guidance.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Route == nil || len(cfg.Route.Steps) == 0 {
		return nil, ErrEmptyRoute
	}

	steps := cfg.Route.Steps
	remainingAfter := make([]float64, len(steps))
	for i := len(steps) - 2; i >= 0; i-- {
		remainingAfter[i] = remainingAfter[i+1] + steps[i+1].DistanceMeters
	}

	s := &Session{
		cfg:            cfg.Config.withDefaults(),
		logger:         cfg.Logger,
		route:          cfg.Route,
		remainingAfter: remainingAfter,
	}

	s.state = State{
		StepIndex:               0,
		Instruction:             steps[0].Instruction,
		RemainingDistanceMeters: cfg.Route.TotalDistanceMeters,
		LastFixStatus:           FixSkipped,
	}

	return s, nil
}

// OnFix runs one raw fix through the pipeline and returns the resulting
// state snapshot. Rejected and skipped fixes leave the state unchanged
// apart from the fix status; the consumer never sees a partial state.
func (s *Session) OnFix(fix PositionFix) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Completed {
		snap := s.state
		snap.Advanced = false
		return snap
	}

	outcome := Validate(s.cfg, fix, s.reference)
	if !outcome.Accepted() {
		s.logger.Debug().
			Str("status", string(outcome.Status)).
			Str("reason", outcome.Reason).
			Float64("implied_speed", outcome.ImpliedSpeedMetersPerSec).
			Float64("displacement_m", outcome.DisplacementMeters).
			Msg("fix dropped")

		s.state.LastFixStatus = outcome.Status
		s.state.Advanced = false
		return s.state
	}

	s.previous = s.reference
	s.reference = &fix
	s.updateSpeed(outcome)

	step := s.route.Steps[s.stepIdx]
	dist := DistanceToManeuver(s.cfg, fix.Coordinate, step, s.route.Line)
	s.warnFallback(dist)

	advanced := false
	if ShouldAdvance(s.cfg, fix, s.previous, step, dist.Meters) {
		advanced = true
		if s.stepIdx == len(s.route.Steps)-1 {
			s.complete(fix)
			return s.state
		}
		s.stepIdx++
		s.fallbackWarned = false
		step = s.route.Steps[s.stepIdx]
		dist = DistanceToManeuver(s.cfg, fix.Coordinate, step, s.route.Line)
		s.warnFallback(dist)

		s.logger.Info().
			Int("step", s.stepIdx).
			Str("instruction", step.Instruction).
			Float64("distance_m", dist.Meters).
			Msg("advanced to next step")
	}

	remaining := dist.Meters + s.remainingAfter[s.stepIdx]

	s.state = State{
		StepIndex:                s.stepIdx,
		Instruction:              step.Instruction,
		DistanceToManeuverMeters: dist.Meters,
		DistanceAlongRoute:       dist.AlongRoute,
		RemainingDistanceMeters:  remaining,
		Position:                 fix.Coordinate,
		Valid:                    true,
		LastFixStatus:            FixAccepted,
		Advanced:                 advanced,
		UpdatedAt:                fix.Timestamp,
	}
	s.state.RemainingSeconds, s.state.HasETA = s.eta(remaining)

	return s.state
}

// State returns the current navigation state snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Advanced = false
	return snap
}

// Completed reports whether the last maneuver has been reached.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Completed
}

// complete marks the terminal state: advancing past the last step ends the
// session and distance-to-maneuver collapses to zero.
func (s *Session) complete(fix PositionFix) {
	s.state = State{
		StepIndex:                s.stepIdx,
		Instruction:              s.route.Steps[s.stepIdx].Instruction,
		DistanceToManeuverMeters: 0,
		DistanceAlongRoute:       true,
		RemainingDistanceMeters:  0,
		Position:                 fix.Coordinate,
		Valid:                    true,
		LastFixStatus:            FixAccepted,
		Advanced:                 true,
		Completed:                true,
		UpdatedAt:                fix.Timestamp,
	}

	s.logger.Info().
		Int("steps", len(s.route.Steps)).
		Msg("trip completed")
}

// updateSpeed folds the implied speed of an accepted fix into the smoothed
// estimate used for the ETA.
func (s *Session) updateSpeed(outcome Outcome) {
	if outcome.Elapsed <= 0 {
		// First fix of the trip carries no speed sample.
		return
	}

	if !s.hasSpeed {
		s.smoothedSpeed = outcome.ImpliedSpeedMetersPerSec
		s.hasSpeed = true
		return
	}

	alpha := s.cfg.SpeedSmoothing
	s.smoothedSpeed = alpha*outcome.ImpliedSpeedMetersPerSec + (1-alpha)*s.smoothedSpeed
}

// eta estimates remaining travel time. Unknown or near-zero speed yields an
// explicitly unknown ETA rather than a silently absurd one.
func (s *Session) eta(remainingMeters float64) (float64, bool) {
	if !s.hasSpeed || s.smoothedSpeed < s.cfg.MinETASpeedMetersPerSec {
		return 0, false
	}
	return remainingMeters / s.smoothedSpeed, true
}

// warnFallback logs the straight-line measurement mode once per step.
func (s *Session) warnFallback(dist Distance) {
	if dist.AlongRoute || s.fallbackWarned {
		return
	}
	s.fallbackWarned = true
	s.logger.Warn().
		Int("step", s.stepIdx).
		Msg("route geometry degenerate, using straight-line distance")
}
