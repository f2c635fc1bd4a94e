package spatial

import (
	"math"

	"github.com/paulmach/orb"
)

// Distance returns the planar distance between two geometries, each either
// an orb.Point or an orb.LineString. It panics on any other geometry type,
// since the Index never indexes anything else.
func Distance(a, b orb.Geometry) float64 {
	switch av := a.(type) {
	case orb.Point:
		switch bv := b.(type) {
		case orb.Point:
			return pointDistance(av, bv)
		case orb.LineString:
			d, _, _ := PointToLineDistance(av, bv)
			return d
		}
	case orb.LineString:
		switch bv := b.(type) {
		case orb.Point:
			d, _, _ := PointToLineDistance(bv, av)
			return d
		case orb.LineString:
			return lineToLineDistance(av, bv)
		}
	}
	panic("spatial: unsupported geometry pair for Distance")
}

func pointDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// PointToLineDistance returns the planar distance from p to the closest
// point on ls, the normalized position t in [0,1] of that closest point
// along ls (0 at the first vertex, 1 at the last), and the foot point
// itself.
func PointToLineDistance(p orb.Point, ls orb.LineString) (dist float64, t float64, foot orb.Point) {
	if len(ls) == 0 {
		return math.Inf(1), 0, orb.Point{}
	}
	if len(ls) == 1 {
		return pointDistance(p, ls[0]), 0, ls[0]
	}

	// Total line length, for converting a per-segment ratio into the
	// line-wide normalized position the Splicer needs.
	segLens := make([]float64, len(ls)-1)
	var totalLen float64
	for i := 0; i < len(ls)-1; i++ {
		segLens[i] = pointDistance(ls[i], ls[i+1])
		totalLen += segLens[i]
	}

	bestDist := math.Inf(1)
	var bestFoot orb.Point
	var bestLenBefore, bestSegLen, bestSegRatio float64

	var lenSoFar float64
	for i := 0; i < len(ls)-1; i++ {
		a, b := ls[i], ls[i+1]
		d, ratio := segmentDistance(p, a, b)
		if d < bestDist {
			bestDist = d
			bestSegRatio = ratio
			bestSegLen = segLens[i]
			bestLenBefore = lenSoFar
			bestFoot = orb.Point{
				a[0] + ratio*(b[0]-a[0]),
				a[1] + ratio*(b[1]-a[1]),
			}
		}
		lenSoFar += segLens[i]
	}

	if totalLen == 0 {
		return bestDist, 0, ls[0]
	}

	normalized := (bestLenBefore + bestSegRatio*bestSegLen) / totalLen
	return bestDist, normalized, bestFoot
}

// segmentDistance returns the planar distance from p to segment AB and the
// ratio in [0,1] of the closest point's position along AB.
func segmentDistance(p, a, b orb.Point) (dist, ratio float64) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return pointDistance(p, a), 0
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := orb.Point{a[0] + t*dx, a[1] + t*dy}
	return pointDistance(p, closest), t
}

// lineToLineDistance returns the minimum distance between two linestrings,
// used only for Within queries over edge geometry; it is the minimum over
// every vertex-to-line projection in both directions.
func lineToLineDistance(a, b orb.LineString) float64 {
	best := math.Inf(1)
	for _, pt := range a {
		if d, _, _ := PointToLineDistance(pt, b); d < best {
			best = d
		}
	}
	for _, pt := range b {
		if d, _, _ := PointToLineDistance(pt, a); d < best {
			best = d
		}
	}
	return best
}
