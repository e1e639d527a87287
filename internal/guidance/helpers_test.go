package guidance

import (
	"math"
	"time"

	"github.com/fieldroute/fieldroute/pkg/polyline"
)

// metersPerDegreeLat at the haversine earth radius used by pkg/polyline.
const metersPerDegreeLat = 111194.9

// offset shifts a coordinate by the given number of meters north and east.
func offset(c polyline.Coordinate, northMeters, eastMeters float64) polyline.Coordinate {
	return polyline.Coordinate{
		Lat: c.Lat + northMeters/metersPerDegreeLat,
		Lon: c.Lon + eastMeters/(metersPerDegreeLat*math.Cos(c.Lat*math.Pi/180)),
	}
}

// fixAt builds a fix at a coordinate with the given heading (-1 for none).
func fixAt(c polyline.Coordinate, at time.Time, heading float64) PositionFix {
	return PositionFix{
		Coordinate: c,
		Timestamp:  at,
		Heading:    heading,
	}
}

var testBase = polyline.Coordinate{Lat: 52.0, Lon: 4.9}
