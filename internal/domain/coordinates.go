package domain

import (
	"fmt"
	"math"
)

// DefaultTolerance absorbs float jitter from coordinates that round-trip through external services.
const DefaultTolerance = 1e-6

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key is the stable identity string of a point, rounded to six decimals.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

// Near reports whether both axes differ by at most tol degrees.
func (c Coordinates) Near(other Coordinates, tol float64) bool {
	return math.Abs(c.Lon-other.Lon) <= tol && math.Abs(c.Lat-other.Lat) <= tol
}

// Valid reports whether the point is finite and inside the WGS84 lon/lat ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}
