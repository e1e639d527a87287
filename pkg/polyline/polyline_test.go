package polyline

import (
	"math"
	"testing"
)

func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func TestDecode_ValidPolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Coordinate
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}

			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	if result := Decode(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	coords := []Coordinate{
		{Lat: 52.370216, Lon: 4.895168},
		{Lat: 52.368000, Lon: 4.897500},
		{Lat: 52.365500, Lon: 4.897500},
	}

	decoded := Decode(Encode(coords))
	if len(decoded) != len(coords) {
		t.Fatalf("expected %d coordinates, got %d", len(coords), len(decoded))
	}
	for i := range coords {
		if !coordsEqual(decoded[i], coords[i], 0.00001) {
			t.Errorf("coordinate %d: expected %+v, got %+v", i, coords[i], decoded[i])
		}
	}
}

func TestDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Coordinate{Lat: 52.37, Lon: 4.89},
			b:         Coordinate{Lat: 52.37, Lon: 4.89},
			expected:  0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude",
			a:         Coordinate{Lat: 52.0, Lon: 4.9},
			b:         Coordinate{Lat: 53.0, Lon: 4.9},
			expected:  111195, // ~111.2 km per degree of latitude
			tolerance: 200,
		},
		{
			name:      "short urban hop",
			a:         Coordinate{Lat: 52.370216, Lon: 4.895168},
			b:         Coordinate{Lat: 52.370216, Lon: 4.896637},
			expected:  100,
			tolerance: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("expected ~%.0fm, got %.2fm", tt.expected, got)
			}
		})
	}
}

func TestLength(t *testing.T) {
	coords := []Coordinate{
		{Lat: 52.0, Lon: 4.9},
		{Lat: 52.01, Lon: 4.9},
		{Lat: 52.02, Lon: 4.9},
	}

	got := Length(coords)
	want := Distance(coords[0], coords[1]) + Distance(coords[1], coords[2])
	if math.Abs(got-want) > 0.001 {
		t.Errorf("expected %.3f, got %.3f", want, got)
	}

	if Length(coords[:1]) != 0 {
		t.Error("expected zero length for a single point")
	}
	if Length(nil) != 0 {
		t.Error("expected zero length for nil line")
	}
}

func TestBearing_CardinalDirections(t *testing.T) {
	origin := Coordinate{Lat: 52.0, Lon: 4.9}

	tests := []struct {
		name      string
		to        Coordinate
		expected  float64
		tolerance float64
	}{
		{"due north", Coordinate{Lat: 52.1, Lon: 4.9}, 0, 0.5},
		{"due south", Coordinate{Lat: 51.9, Lon: 4.9}, 180, 0.5},
		{"due east", Coordinate{Lat: 52.0, Lon: 5.0}, 90, 0.5},
		{"due west", Coordinate{Lat: 52.0, Lon: 4.8}, 270, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if AngularDelta(got, tt.expected) > tt.tolerance {
				t.Errorf("expected bearing ~%.0f, got %.2f", tt.expected, got)
			}
		})
	}
}

func TestAngularDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, 90, 90},
		{0, 180, 180},
		{10, 350, 20},
		{350, 10, 20},
		{90, 270, 180},
		{45, 225, 180},
	}

	for _, tt := range tests {
		if got := AngularDelta(tt.a, tt.b); math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("AngularDelta(%.0f, %.0f) = %.2f, want %.2f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosestVertex(t *testing.T) {
	line := []Coordinate{
		{Lat: 52.00, Lon: 4.90},
		{Lat: 52.01, Lon: 4.90},
		{Lat: 52.02, Lon: 4.90},
	}

	if got := ClosestVertex(line, Coordinate{Lat: 52.011, Lon: 4.90}); got != 1 {
		t.Errorf("expected vertex 1, got %d", got)
	}
	if got := ClosestVertex(line, Coordinate{Lat: 51.90, Lon: 4.90}); got != 0 {
		t.Errorf("expected vertex 0, got %d", got)
	}
	if got := ClosestVertex(nil, Coordinate{}); got != -1 {
		t.Errorf("expected -1 for empty line, got %d", got)
	}
}
