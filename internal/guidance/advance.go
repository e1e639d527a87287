package guidance

import (
	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// ShouldAdvance decides whether the active step has been reached and the
// traveler is actually heading toward its maneuver point. It signals the
// transition; the session performs it.
//
// Outside the near-field threshold the answer is always no. Inside it, the
// traveler's heading is compared against the bearing to the maneuver: the
// device-reported course is preferred, an inferred bearing from the last two
// validated positions is the backup, and when neither is available the step
// advances on proximity alone so a stationary or just-started trip does not
// stall. That proximity-only path is deliberately permissive; tightening it
// would change trip-completion timing.
func ShouldAdvance(cfg Config, position PositionFix, previous *PositionFix, step Step, distanceToStep float64) bool {
	cfg = cfg.withDefaults()

	if distanceToStep > cfg.NearFieldMeters {
		return false
	}

	heading, ok := travelerHeading(cfg, position, previous)
	if !ok {
		return true
	}

	target := polyline.Bearing(position.Coordinate, step.Maneuver)
	return polyline.AngularDelta(heading, target) <= cfg.HeadingToleranceDegrees
}

// travelerHeading resolves the traveler's course: the device-reported
// heading when valid, otherwise a bearing inferred from the previous
// validated position when the movement is large enough to trust.
func travelerHeading(cfg Config, position PositionFix, previous *PositionFix) (float64, bool) {
	if position.HasHeading() {
		return position.Heading, true
	}

	if previous == nil {
		return 0, false
	}

	if polyline.Distance(previous.Coordinate, position.Coordinate) < cfg.MinBearingDisplacementMeters {
		return 0, false
	}

	return polyline.Bearing(previous.Coordinate, position.Coordinate), true
}
