package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is an axis-aligned bounding box in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// CenterRadius is a circle around a center point.
type CenterRadius struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

// Spec is a geo constraint: exactly one of Bounds or Circle is set.
type Spec struct {
	Bounds *Bounds       `json:"bounds,omitempty"`
	Circle *CenterRadius `json:"center_radius,omitempty"`
}

// NewBounds creates a bounding-box Spec.
func NewBounds(south, west, north, east float64) *Spec {
	return &Spec{Bounds: &Bounds{South: south, West: west, North: north, East: east}}
}

// NewCircle creates a center+radius Spec.
func NewCircle(lat, lon, radiusKm float64) *Spec {
	return &Spec{Circle: &CenterRadius{Lat: lat, Lon: lon, RadiusKm: radiusKm}}
}

// Center returns the circle center, or false for Bounds (no center).
func (s *Spec) Center() (Point, bool) {
	if s == nil || s.Circle == nil {
		return Point{}, false
	}
	return Point{Lat: s.Circle.Lat, Lon: s.Circle.Lon}, true
}

// Validate rejects malformed specs. Bounds with south > north or west > east
// are errors, never swapped.
func (s *Spec) Validate() error {
	switch {
	case s.Bounds != nil && s.Circle != nil:
		return errors.New("bounds and center_radius are mutually exclusive")
	case s.Bounds != nil:
		return s.Bounds.Validate()
	case s.Circle != nil:
		return s.Circle.Validate()
	default:
		return errors.New("geo spec requires bounds or center_radius")
	}
}

// Validate checks bounding-box ordering and coordinate ranges.
func (b *Bounds) Validate() error {
	if !ValidateCoordinates(b.South, b.West) || !ValidateCoordinates(b.North, b.East) {
		return fmt.Errorf("bounds out of range: %+v", *b)
	}
	if b.South > b.North {
		return fmt.Errorf("south %v is greater than north %v", b.South, b.North)
	}
	if b.West > b.East {
		return fmt.Errorf("west %v is greater than east %v", b.West, b.East)
	}
	return nil
}

// Validate checks the center coordinates and radius.
func (c *CenterRadius) Validate() error {
	if !ValidateCoordinates(c.Lat, c.Lon) {
		return fmt.Errorf("center out of range: lat=%v lon=%v", c.Lat, c.Lon)
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("radius must be positive, got %v", c.RadiusKm)
	}
	return nil
}

// Ring returns the bounding box corners clockwise from the north-west corner
// as lat/lon points. The closing vertex is not repeated.
func (b *Bounds) Ring() []Point {
	// XY layout: X = lon, Y = lat.
	box := geom.NewBounds(geom.XY).Set(b.West, b.South, b.East, b.North)
	if box.IsEmpty() {
		return nil
	}
	ring := box.Polygon().LinearRing(0)
	if xy.IsRingCounterClockwise(geom.XY, ring.FlatCoords()) {
		ring.Reverse()
	}
	coords := ring.Coords()
	coords = coords[:len(coords)-1]

	start := 0
	for i, c := range coords {
		if c.X() == b.West && c.Y() == b.North {
			start = i
			break
		}
	}
	out := make([]Point, 0, len(coords))
	for i := range coords {
		c := coords[(start+i)%len(coords)]
		out = append(out, Point{Lat: c.Y(), Lon: c.X()})
	}
	return out
}
