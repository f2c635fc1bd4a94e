package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNewProjectorNoPoints(t *testing.T) {
	if _, err := NewProjector(nil); err != ErrNoPoints {
		t.Fatalf("err = %v, want ErrNoPoints", err)
	}
}

func TestProjectorZoneFromCentroid(t *testing.T) {
	// Singapore CBD: lon 103.85 -> zone 48, northern hemisphere.
	pts := []orb.Point{{103.80, 1.28}, {103.90, 1.36}}
	p, err := NewProjector(pts)
	if err != nil {
		t.Fatalf("NewProjector: %v", err)
	}
	if p.Zone() != 48 {
		t.Errorf("Zone() = %d, want 48", p.Zone())
	}
	if !p.North() {
		t.Errorf("North() = false, want true")
	}
}

func TestProjectorRoundTrip(t *testing.T) {
	tests := []orb.Point{
		{103.8513, 1.2830},
		{-0.1278, 51.5074},
		{2.3522, 48.8566},
		{-74.0060, 40.7128},
	}

	for _, pt := range tests {
		p := NewProjectorForPoint(pt)
		metric := p.ToMetric(pt)
		back := p.ToGeographic(metric)

		// 1 cm at mid-latitudes is roughly 1e-7 degrees.
		if math.Abs(back[0]-pt[0]) > 1e-7 || math.Abs(back[1]-pt[1]) > 1e-7 {
			t.Errorf("round trip for %v = %v, diff too large", pt, back)
		}
	}
}

func TestProjectorLengthMeters(t *testing.T) {
	p := NewProjectorForPoint(orb.Point{103.85, 1.30})
	// ~100m north-south line near the equator.
	ls := orb.LineString{{103.85, 1.30}, {103.85, 1.30090}}
	length := p.LengthMeters(ls)
	if length < 90 || length > 110 {
		t.Errorf("LengthMeters = %f, want ~100", length)
	}
}

func TestProjectorSouthernHemisphere(t *testing.T) {
	p := NewProjectorForPoint(orb.Point{-43.5, -22.9}) // Rio de Janeiro
	if p.North() {
		t.Errorf("North() = true, want false for southern hemisphere point")
	}
	pt := orb.Point{-43.5, -22.9}
	metric := p.ToMetric(pt)
	back := p.ToGeographic(metric)
	if math.Abs(back[0]-pt[0]) > 1e-6 || math.Abs(back[1]-pt[1]) > 1e-6 {
		t.Errorf("round trip = %v, want %v", back, pt)
	}
}
