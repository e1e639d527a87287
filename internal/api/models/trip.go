package models

// TripCreateRequest is the body for POST /v1/trips.
type TripCreateRequest struct {
	Origin      Point  `json:"origin"`
	Destination Point  `json:"destination"`
	Profile     string `json:"profile,omitempty"`
}

// FixSubmitRequest is the body for POST /v1/trips/{tripId}/fixes.
type FixSubmitRequest struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp Timestamp `json:"timestamp"`

	// Heading is the device compass heading in degrees, when available.
	Heading *float64 `json:"heading,omitempty"`

	// AccuracyMeters is the reported GPS accuracy, when available.
	AccuracyMeters *float64 `json:"accuracyMeters,omitempty"`
}

// RouteSummary describes the fetched route a trip follows.
type RouteSummary struct {
	Provider        string  `json:"provider"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	StepCount       int     `json:"stepCount"`
	Geometry        string  `json:"geometry"`
}

// TripState is a snapshot of guidance progress.
type TripState struct {
	StepIndex                int       `json:"stepIndex"`
	Instruction              string    `json:"instruction"`
	DistanceToManeuverMeters float64   `json:"distanceToManeuverMeters"`
	DistanceAlongRoute       bool      `json:"distanceAlongRoute"`
	RemainingDistanceMeters  float64   `json:"remainingDistanceMeters"`
	RemainingSeconds         *float64  `json:"remainingSeconds,omitempty"`
	FixStatus                string    `json:"fixStatus"`
	Advanced                 bool      `json:"advanced"`
	Completed                bool      `json:"completed"`
	Position                 *Point    `json:"position,omitempty"`
	UpdatedAt                Timestamp `json:"updatedAt"`
}

// Trip is the response for trip creation: the new trip ID, the route it
// follows, and the initial guidance state.
type Trip struct {
	TripID string       `json:"tripId"`
	Route  RouteSummary `json:"route"`
	State  TripState    `json:"state"`
}

// TripStateResponse wraps a state snapshot for fix and read endpoints.
type TripStateResponse struct {
	TripID string    `json:"tripId"`
	State  TripState `json:"state"`
}
