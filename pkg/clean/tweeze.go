package clean

import "github.com/paulmach/orb"

// tweeze removes interior rings (holes) whose area is at or below
// sliverThreshold, a union artifact rather than a real hole. Exterior
// rings are never removed. Recurses into MultiPolygons and
// GeometryCollections; any other geometry passes through unchanged.
func tweeze(geom orb.Geometry) orb.Geometry {
	switch g := geom.(type) {
	case orb.Polygon:
		return tweezePolygon(g)

	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, poly := range g {
			out[i] = tweezePolygon(poly)
		}
		return out

	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, sub := range g {
			out[i] = tweeze(sub)
		}
		return out
	}

	return geom
}

func tweezePolygon(poly orb.Polygon) orb.Polygon {
	if len(poly) == 0 {
		return poly
	}

	out := orb.Polygon{poly[0]} // exterior ring, always kept
	for _, interior := range poly[1:] {
		if ringArea(interior) > sliverThreshold {
			out = append(out, interior)
		}
	}
	return out
}

// ringArea returns the unsigned planar area enclosed by ring, via the
// shoelace formula, in the coordinate units of ring (not meters).
func ringArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
