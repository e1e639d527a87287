package guidance

import (
	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// DistanceToManeuver measures the distance from a position to a step's
// maneuver coordinate along the route geometry.
//
// The traveler is projected onto the route at the polyline vertex closest to
// the position; the walk then accumulates segment lengths forward until a
// vertex lands within the arrival tolerance of the maneuver coordinate or
// the line ends. The walk is O(n) in vertex count but terminates early at
// the target, and route legs are bounded to a few thousand vertices.
//
// When the geometry is missing or degenerate (fewer than 2 points) the
// straight-line distance is returned with AlongRoute set to false, so
// downstream consumers can tell the two measurement modes apart.
func DistanceToManeuver(cfg Config, from polyline.Coordinate, step Step, line []polyline.Coordinate) Distance {
	cfg = cfg.withDefaults()

	if len(line) < 2 {
		return Distance{
			Meters:     polyline.Distance(from, step.Maneuver),
			AlongRoute: false,
		}
	}

	start := polyline.ClosestVertex(line, from)

	var accumulated float64
	for i := start; i < len(line); i++ {
		if polyline.Distance(line[i], step.Maneuver) <= cfg.ArrivalToleranceMeters {
			break
		}
		if i+1 < len(line) {
			accumulated += polyline.Distance(line[i], line[i+1])
		}
	}

	return Distance{
		Meters:     accumulated,
		AlongRoute: true,
	}
}
