package guidance

import (
	"fmt"

	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// Validate checks a candidate fix against the last accepted reference for
// kinematic plausibility. It is a pure function: the caller decides whether
// to store the candidate as the new reference.
//
// The first fix of a trip (nil reference) is always accepted. A candidate
// whose timestamp does not advance past the reference is skipped rather than
// rejected, since an implied speed would be undefined.
func Validate(cfg Config, candidate PositionFix, reference *PositionFix) Outcome {
	cfg = cfg.withDefaults()

	if reference == nil {
		return Outcome{Status: FixAccepted}
	}

	elapsed := candidate.Timestamp.Sub(reference.Timestamp)
	displacement := polyline.Distance(reference.Coordinate, candidate.Coordinate)

	if elapsed <= 0 {
		return Outcome{
			Status:             FixSkipped,
			Reason:             "timestamp did not advance",
			DisplacementMeters: displacement,
			Elapsed:            elapsed,
		}
	}

	impliedSpeed := displacement / elapsed.Seconds()

	if impliedSpeed > cfg.MaxSpeedMetersPerSec {
		return Outcome{
			Status:                   FixRejectedJump,
			Reason:                   fmt.Sprintf("implied speed %.1f m/s exceeds ceiling %.0f m/s", impliedSpeed, cfg.MaxSpeedMetersPerSec),
			ImpliedSpeedMetersPerSec: impliedSpeed,
			DisplacementMeters:       displacement,
			Elapsed:                  elapsed,
		}
	}

	// A large displacement inside a tiny window is a teleport even when the
	// implied speed passed, which happens when the fix timestamp itself is
	// corrupted.
	if displacement > cfg.TeleportDistanceMeters && elapsed < cfg.TeleportWindow {
		return Outcome{
			Status:                   FixRejectedJump,
			Reason:                   fmt.Sprintf("displacement %.0f m within %s", displacement, elapsed),
			ImpliedSpeedMetersPerSec: impliedSpeed,
			DisplacementMeters:       displacement,
			Elapsed:                  elapsed,
		}
	}

	return Outcome{
		Status:                   FixAccepted,
		ImpliedSpeedMetersPerSec: impliedSpeed,
		DisplacementMeters:       displacement,
		Elapsed:                  elapsed,
	}
}
