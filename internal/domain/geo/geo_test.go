package geo

import (
	"strings"
	"testing"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestHaversine_SamePoint(t *testing.T) {
	d := Haversine(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestDistanceKm_NewYork_London(t *testing.T) {
	d := DistanceKm(40.7128, -74.0060, 51.5074, -0.1278)
	if !almost(d, 5570, 20) {
		t.Fatalf("want ~5570 km, got %f", d)
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
	}
	for _, tc := range tests {
		if got := ValidateCoordinates(tc.lat, tc.lon); got != tc.want {
			t.Errorf("ValidateCoordinates(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    *Spec
		wantErr string
	}{
		{"valid bounds", NewBounds(30, -98, 31, -97), ""},
		{"valid circle", NewCircle(40, -74, 100), ""},
		{"south above north", NewBounds(31, -98, 30, -97), "south"},
		{"west east of east", NewBounds(30, -97, 31, -98), "west"},
		{"bounds out of range", NewBounds(-91, 0, 10, 10), "out of range"},
		{"zero radius", NewCircle(40, -74, 0), "radius"},
		{"center out of range", NewCircle(95, -74, 10), "out of range"},
		{"empty", &Spec{}, "requires"},
		{"both", &Spec{Bounds: &Bounds{}, Circle: &CenterRadius{RadiusKm: 1}}, "mutually exclusive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestSpecCenter(t *testing.T) {
	if _, ok := NewBounds(30, -98, 31, -97).Center(); ok {
		t.Error("bounds must not report a center")
	}
	var nilSpec *Spec
	if _, ok := nilSpec.Center(); ok {
		t.Error("nil spec must not report a center")
	}
	p, ok := NewCircle(40, -74, 10).Center()
	if !ok || p.Lat != 40 || p.Lon != -74 {
		t.Errorf("unexpected center %+v ok=%v", p, ok)
	}
}

func TestBoundsRing_ClockwiseFromNorthWest(t *testing.T) {
	b := Bounds{South: 30, West: -98, North: 31, East: -97}
	ring := b.Ring()
	want := []Point{
		{Lat: 31, Lon: -98},
		{Lat: 31, Lon: -97},
		{Lat: 30, Lon: -97},
		{Lat: 30, Lon: -98},
	}
	if len(ring) != len(want) {
		t.Fatalf("expected %d corners, got %d", len(want), len(ring))
	}
	for i := range want {
		if ring[i] != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, ring[i], want[i])
		}
	}
}

func TestBoundsRing_IsClockwise(t *testing.T) {
	b := Bounds{South: -10, West: 100, North: 5, East: 120}
	ring := b.Ring()
	if len(ring) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(ring))
	}
	flat := make([]float64, 0, 10)
	for _, p := range append(ring, ring[0]) {
		flat = append(flat, p.Lon, p.Lat)
	}
	if xy.IsRingCounterClockwise(geom.XY, flat) {
		t.Errorf("ring %+v is counter-clockwise", ring)
	}
	if ring[0] != (Point{Lat: 5, Lon: 100}) {
		t.Errorf("ring starts at %+v, want the north-west corner", ring[0])
	}
}

func TestBoundsRing_Inverted(t *testing.T) {
	b := Bounds{South: 41, West: -75, North: 39, East: -73}
	if ring := b.Ring(); ring != nil {
		t.Errorf("inverted bounds produced ring %+v", ring)
	}
}
