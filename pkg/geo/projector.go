package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrNoPoints is returned when a Projector is built from an empty point set.
var ErrNoPoints = errors.New("geo: cannot derive a projection from zero points")

// Projector derives a metric (UTM) frame from a point cloud's centroid and
// converts geometry between geographic (WGS84 lon/lat) and metric (meters)
// coordinates. All length, buffer, and distance-threshold computations in
// this module run in the frame a Projector provides.
type Projector struct {
	zone         int
	north        bool
	centralMerid float64
}

const (
	utmScale       = 0.9996
	utmFalseEast   = 500_000.0
	utmFalseNorth  = 10_000_000.0
	wgs84SemiMajor = 6_378_137.0
	wgs84Flattening = 1.0 / 298.257223563
)

// NewProjector estimates a UTM zone from the centroid of pts and returns a
// Projector for that zone. It fails with ErrNoPoints if pts is empty.
func NewProjector(pts []orb.Point) (*Projector, error) {
	if len(pts) == 0 {
		return nil, ErrNoPoints
	}

	var sumLon, sumLat float64
	for _, p := range pts {
		sumLon += p[0]
		sumLat += p[1]
	}
	centroidLon := sumLon / float64(len(pts))
	centroidLat := sumLat / float64(len(pts))

	return NewProjectorForPoint(orb.Point{centroidLon, centroidLat}), nil
}

// NewProjectorForPoint builds the Projector whose zone covers the given
// geographic point directly, without requiring a slice of points.
func NewProjectorForPoint(p orb.Point) *Projector {
	zone := int(math.Floor((p[0]+180)/6)) + 1
	if zone < 1 {
		zone = 1
	} else if zone > 60 {
		zone = 60
	}
	return &Projector{
		zone:         zone,
		north:        p[1] >= 0,
		centralMerid: float64(zone)*6 - 183,
	}
}

// NewProjectorForZone builds a Projector directly from a UTM zone and
// hemisphere, bypassing centroid estimation — used to reconstruct a
// Projector from a persisted graph's header.
func NewProjectorForZone(zone int, north bool) *Projector {
	return &Projector{
		zone:         zone,
		north:        north,
		centralMerid: float64(zone)*6 - 183,
	}
}

// Zone reports the UTM zone number (1..60) this Projector was derived for.
func (p *Projector) Zone() int { return p.zone }

// North reports whether this Projector's zone is in the northern hemisphere.
func (p *Projector) North() bool { return p.north }

// ToMetric projects a geographic point into this Projector's UTM frame, in meters.
func (p *Projector) ToMetric(pt orb.Point) orb.Point {
	lon := pt[0] * math.Pi / 180
	lat := pt[1] * math.Pi / 180
	lon0 := p.centralMerid * math.Pi / 180

	a := wgs84SemiMajor
	f := wgs84Flattening
	e2 := f * (2 - f)
	ep2 := e2 / (1 - e2)

	n := a / math.Sqrt(1-e2*math.Sin(lat)*math.Sin(lat))
	t := math.Tan(lat) * math.Tan(lat)
	c := ep2 * math.Cos(lat) * math.Cos(lat)
	aCoef := math.Cos(lat) * (lon - lon0)

	m := a * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*lat -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*lat) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*lat) -
		(35*e2*e2*e2/3072)*math.Sin(6*lat))

	x := utmScale*n*(aCoef+(1-t+c)*aCoef*aCoef*aCoef/6+
		(5-18*t+t*t+72*c-58*ep2)*aCoef*aCoef*aCoef*aCoef*aCoef/120) + utmFalseEast

	y := utmScale * (m + n*math.Tan(lat)*(aCoef*aCoef/2+
		(5-t+9*c+4*c*c)*aCoef*aCoef*aCoef*aCoef/24+
		(61-58*t+t*t+600*c-330*ep2)*aCoef*aCoef*aCoef*aCoef*aCoef*aCoef/720))

	if !p.north {
		y += utmFalseNorth
	}

	return orb.Point{x, y}
}

// ToGeographic converts a point in this Projector's UTM frame back to
// geographic (lon, lat) WGS84 coordinates.
func (p *Projector) ToGeographic(pt orb.Point) orb.Point {
	x := pt[0] - utmFalseEast
	y := pt[1]
	if !p.north {
		y -= utmFalseNorth
	}

	a := wgs84SemiMajor
	f := wgs84Flattening
	e2 := f * (2 - f)
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	m := y / utmScale
	mu := m / (a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu + (3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu)

	n1 := a / math.Sqrt(1-e2*math.Sin(phi1)*math.Sin(phi1))
	t1 := math.Tan(phi1) * math.Tan(phi1)
	c1 := ep2 * math.Cos(phi1) * math.Cos(phi1)
	r1 := a * (1 - e2) / math.Pow(1-e2*math.Sin(phi1)*math.Sin(phi1), 1.5)
	d := x / (n1 * utmScale)

	lat := phi1 - (n1*math.Tan(phi1)/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := (d - (1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / math.Cos(phi1)

	lon0 := p.centralMerid * math.Pi / 180

	return orb.Point{(lon0 + lon) * 180 / math.Pi, lat * 180 / math.Pi}
}

// ToMetricLine projects every vertex of ls into this Projector's UTM frame.
func (p *Projector) ToMetricLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		out[i] = p.ToMetric(pt)
	}
	return out
}

// ToGeographicLine converts every vertex of a UTM-projected line back to WGS84.
func (p *Projector) ToGeographicLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		out[i] = p.ToGeographic(pt)
	}
	return out
}

// LengthMeters returns the metric length of ls, rounded to 0.01 m.
func (p *Projector) LengthMeters(ls orb.LineString) float64 {
	metric := p.ToMetricLine(ls)
	return math.Round(planar.Length(metric)*100) / 100
}

func (p *Projector) String() string {
	hemi := "S"
	if p.north {
		hemi = "N"
	}
	return fmt.Sprintf("UTM zone %d%s", p.zone, hemi)
}
