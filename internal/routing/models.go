// Package routing defines the boundary to the external directions engine.
// Route computation itself is out of process; this package only describes
// what a computed route looks like once guidance accepts it.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for directions providers.
type Provider interface {
	// GetRoute retrieves a drivable route between two points, including
	// turn-by-turn steps and the full route geometry.
	GetRoute(ctx context.Context, req RouteRequest) (*Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RouteProfile represents a routing profile (mode of transport).
type RouteProfile string

const (
	// ProfileDriving is the driving-car profile for vehicle routing.
	ProfileDriving RouteProfile = "driving-car"
	// ProfileDrivingHGV is the heavy-goods profile for large service vehicles.
	ProfileDrivingHGV RouteProfile = "driving-hgv"
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// RouteRequest is the request for computing a route.
type RouteRequest struct {
	Origin      Coordinate
	Destination Coordinate
	Profile     RouteProfile
}

// Step is one instruction-bearing segment of a route. The maneuver
// coordinate is the point at which the step terminates and the instruction
// is executed.
type Step struct {
	Index           int
	Instruction     string
	Maneuver        Coordinate
	DistanceMeters  float64
	DurationSeconds float64
}

// Route is a single computed route: ordered steps plus the full geometry.
type Route struct {
	GeometryPolyline string // Encoded polyline (precision 5), covers the whole route
	Steps            []Step
	DistanceMeters   float64
	DurationSeconds  float64
	Summary          string
	Provider         string
	FetchedAt        time.Time
}

// Error provides detailed error information from the directions provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}

// ValidateCoordinates checks if coordinates are within valid ranges.
func ValidateCoordinates(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrInvalidCoordinates
	}
	if c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
