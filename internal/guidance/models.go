// Package guidance implements the real-time navigation progress tracker: it
// consumes a stream of noisy position fixes and a precomputed route, and
// maintains a monotonic, non-flickering navigation state (active step,
// along-route distance to the next maneuver, remaining distance and ETA).
package guidance

import (
	"errors"
	"fmt"
	"time"

	"github.com/fieldroute/fieldroute/internal/routing"
	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// Sentinel errors for guidance operations.
var (
	// ErrTripNotFound indicates no active session exists for the trip ID.
	ErrTripNotFound = errors.New("trip not found")
	// ErrTripCompleted indicates the trip already reached its last maneuver.
	ErrTripCompleted = errors.New("trip already completed")
	// ErrEmptyRoute indicates a route without steps cannot be guided.
	ErrEmptyRoute = errors.New("route has no steps")
)

// PositionFix is a single reported position sample from a location sensor.
// Heading is a compass course in degrees [0, 360); a negative value means
// the device did not report a usable course. AccuracyMeters is the reported
// horizontal accuracy, zero when unknown.
type PositionFix struct {
	Coordinate     polyline.Coordinate
	Timestamp      time.Time
	Heading        float64
	AccuracyMeters float64
}

// HasHeading reports whether the fix carries a usable device course.
func (f PositionFix) HasHeading() bool {
	return f.Heading >= 0 && f.Heading < 360
}

// FixStatus classifies how the session handled an incoming fix.
type FixStatus string

const (
	// FixAccepted means the fix passed validation and became the new reference.
	FixAccepted FixStatus = "accepted"
	// FixRejectedJump means the fix implied an impossible movement and was dropped.
	FixRejectedJump FixStatus = "rejected_jump"
	// FixSkipped means the fix had a zero or out-of-order timestamp and was ignored.
	FixSkipped FixStatus = "skipped"
)

// Outcome is the result of validating one candidate fix against the current
// reference. It is produced fresh per fix and never stored.
type Outcome struct {
	Status FixStatus
	Reason string

	// ImpliedSpeedMetersPerSec is the average speed the candidate would
	// imply; only meaningful for rejections.
	ImpliedSpeedMetersPerSec float64
	// DisplacementMeters is the straight-line displacement from the reference.
	DisplacementMeters float64
	// Elapsed is the time between reference and candidate.
	Elapsed time.Duration
}

// Accepted reports whether the candidate should become the new reference.
func (o Outcome) Accepted() bool {
	return o.Status == FixAccepted
}

// Step is one maneuver of the active route. DistanceMeters is the length of
// the stretch leading up to the maneuver, as reported by the directions
// engine; it feeds the remaining-distance estimate.
type Step struct {
	Index           int
	Instruction     string
	Maneuver        polyline.Coordinate
	DistanceMeters  float64
	DurationSeconds float64
}

// Route is the read-only route a session guides along: ordered steps plus
// the decoded full-route polyline. A new route requires a new session.
type Route struct {
	Steps []Step
	Line  []polyline.Coordinate

	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}

// NewRoute converts a computed route from the directions boundary into the
// form the session guides along. The encoded geometry is decoded once here;
// the resulting line is shared read-only for the trip's duration.
func NewRoute(r *routing.Route) (*Route, error) {
	if r == nil || len(r.Steps) == 0 {
		return nil, ErrEmptyRoute
	}

	steps := make([]Step, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = Step{
			Index:           i,
			Instruction:     s.Instruction,
			Maneuver:        polyline.Coordinate{Lat: s.Maneuver.Lat, Lon: s.Maneuver.Lon},
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
		}
		if steps[i].Index != s.Index {
			return nil, fmt.Errorf("route steps out of order: step %d has index %d", i, s.Index)
		}
	}

	return &Route{
		Steps:                steps,
		Line:                 polyline.Decode(r.GeometryPolyline),
		TotalDistanceMeters:  r.DistanceMeters,
		TotalDurationSeconds: r.DurationSeconds,
	}, nil
}

// Distance is an along-route distance measurement. AlongRoute is false when
// the geometry was unavailable or degenerate and the value is a straight-line
// fallback; consumers applying announcement thresholds need to know the
// difference.
type Distance struct {
	Meters     float64
	AlongRoute bool
}

// State is the navigation state snapshot published after each processed fix.
// It is owned and mutated exclusively by the session.
type State struct {
	StepIndex   int
	Instruction string

	DistanceToManeuverMeters float64
	DistanceAlongRoute       bool

	RemainingDistanceMeters float64
	// RemainingSeconds is the ETA estimate; only valid when HasETA is true.
	// An unknown ETA is represented explicitly, never as zero.
	RemainingSeconds float64
	HasETA           bool

	// Position is the last validated position. Valid reports whether any
	// fix has been accepted yet.
	Position polyline.Coordinate
	Valid    bool

	// LastFixStatus records how the most recent fix was handled.
	LastFixStatus FixStatus

	// Advanced is set on the snapshot that committed a step transition.
	Advanced bool
	// Completed is set once the last maneuver has been reached.
	Completed bool

	UpdatedAt time.Time
}
