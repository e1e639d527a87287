package guidance

import "time"

// Config holds the tuning thresholds for the fix pipeline. The defaults are
// the empirically chosen values the tracker has always shipped with; they are
// exposed as configuration so tests and unusual deployments can override them.
type Config struct {
	// MaxSpeedMetersPerSec is the implied-speed ceiling above which a fix
	// is rejected as a GPS jump. Default: 200 m/s.
	MaxSpeedMetersPerSec float64

	// TeleportDistanceMeters rejects a fix that moved this far within
	// TeleportWindow, catching corrupted timestamps a speed check alone
	// would miss. Defaults: 500 m / 1 s.
	TeleportDistanceMeters float64
	TeleportWindow         time.Duration

	// NearFieldMeters is the along-route distance below which step
	// advancement is considered at all. Default: 20 m.
	NearFieldMeters float64

	// HeadingToleranceDegrees is the maximum angular difference between the
	// traveler's heading and the bearing to the maneuver for advancement.
	// Default: 90 degrees.
	HeadingToleranceDegrees float64

	// ArrivalToleranceMeters terminates the polyline walk once a vertex is
	// this close to the maneuver coordinate. Default: 10 m.
	ArrivalToleranceMeters float64

	// MinBearingDisplacementMeters is the minimum movement between two
	// validated fixes for an inferred bearing to be trusted. Default: 2 m.
	MinBearingDisplacementMeters float64

	// SpeedSmoothing is the exponential moving average weight applied to
	// new speed samples for the ETA estimate. Default: 0.3.
	SpeedSmoothing float64

	// MinETASpeedMetersPerSec is the smoothed speed below which the ETA is
	// reported as unknown rather than a huge number. Default: 0.5 m/s.
	MinETASpeedMetersPerSec float64
}

// DefaultConfig returns the standard pipeline thresholds.
func DefaultConfig() Config {
	return Config{
		MaxSpeedMetersPerSec:         200,
		TeleportDistanceMeters:       500,
		TeleportWindow:               time.Second,
		NearFieldMeters:              20,
		HeadingToleranceDegrees:      90,
		ArrivalToleranceMeters:       10,
		MinBearingDisplacementMeters: 2,
		SpeedSmoothing:               0.3,
		MinETASpeedMetersPerSec:      0.5,
	}
}

// withDefaults fills zero-valued fields with the standard thresholds.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxSpeedMetersPerSec == 0 {
		c.MaxSpeedMetersPerSec = def.MaxSpeedMetersPerSec
	}
	if c.TeleportDistanceMeters == 0 {
		c.TeleportDistanceMeters = def.TeleportDistanceMeters
	}
	if c.TeleportWindow == 0 {
		c.TeleportWindow = def.TeleportWindow
	}
	if c.NearFieldMeters == 0 {
		c.NearFieldMeters = def.NearFieldMeters
	}
	if c.HeadingToleranceDegrees == 0 {
		c.HeadingToleranceDegrees = def.HeadingToleranceDegrees
	}
	if c.ArrivalToleranceMeters == 0 {
		c.ArrivalToleranceMeters = def.ArrivalToleranceMeters
	}
	if c.MinBearingDisplacementMeters == 0 {
		c.MinBearingDisplacementMeters = def.MinBearingDisplacementMeters
	}
	if c.SpeedSmoothing == 0 {
		c.SpeedSmoothing = def.SpeedSmoothing
	}
	if c.MinETASpeedMetersPerSec == 0 {
		c.MinETASpeedMetersPerSec = def.MinETASpeedMetersPerSec
	}
	return c
}
