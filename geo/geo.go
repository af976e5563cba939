// Package geo holds the coordinates used when capturing report locations.
package geo

// Point is a latitude/longitude pair in decimal degrees
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is a rectangular area
type Bounds struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

var (
	// NationalCenter is used for a report whose submitter never placed a pin
	NationalCenter = Point{Latitude: 28.3949, Longitude: 84.1240}
	// DashboardCenter is where the admin map opens
	DashboardCenter = Point{Latitude: 27.7172, Longitude: 85.3240}
	// Nepal bounds every captured coordinate
	Nepal = Bounds{West: 80.0884, South: 26.3478, East: 88.2039, North: 30.4227}
)

// Contains reports whether p lies inside b, edges included
func (b Bounds) Contains(p Point) bool {
	return p.Latitude >= b.South && p.Latitude <= b.North &&
		p.Longitude >= b.West && p.Longitude <= b.East
}

// Clamp pulls p onto the nearest point inside b
func (b Bounds) Clamp(p Point) Point {
	return Point{
		Latitude:  clamp(p.Latitude, b.South, b.North),
		Longitude: clamp(p.Longitude, b.West, b.East),
	}
}

// Resolve turns optional form coordinates into a stored point. A missing pair falls
// back to the national center, anything else is clamped into Nepal.
func Resolve(lat, lng *float64) Point {
	if lat == nil || lng == nil {
		return NationalCenter
	}
	return Nepal.Clamp(Point{Latitude: *lat, Longitude: *lng})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
