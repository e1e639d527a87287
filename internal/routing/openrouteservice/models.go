package openrouteservice

// orsRequest is the JSON request body for the ORS directions endpoint.
type orsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Geometry     bool        `json:"geometry"`
	Units        string      `json:"units"`
	Language     string      `json:"language"`
}

// orsResponse is the JSON response from the ORS directions endpoint.
type orsResponse struct {
	Routes []orsRoute `json:"routes"`
}

type orsRoute struct {
	Summary  orsSummary   `json:"summary"`
	Geometry string       `json:"geometry"`
	Segments []orsSegment `json:"segments"`
	BBox     []float64    `json:"bbox"`
}

type orsSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type orsSegment struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Steps    []orsStep `json:"steps"`
}

type orsStep struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	// WayPoints are [first, last] indices into the decoded route geometry
	// for the stretch this instruction covers.
	WayPoints []int `json:"way_points"`
}

// orsErrorResponse is the JSON error body returned by ORS.
type orsErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ORS error code for "route could not be found".
const orsErrorCodeNotFound = 2009
