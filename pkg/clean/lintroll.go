package clean

import "github.com/paulmach/orb"

// lintRoll drops LineStrings from a GeometryCollection that also contains
// Polygons, a union artifact from mixed input geometry. If exactly one
// Polygon remains it is emitted directly; several are wrapped in a
// MultiPolygon. Anything else passes through unchanged.
func lintRoll(geom orb.Geometry) orb.Geometry {
	coll, ok := geom.(orb.Collection)
	if !ok {
		return geom
	}

	var polygons orb.MultiPolygon
	var lineStrings orb.MultiLineString
	var other orb.Collection

	for _, g := range coll {
		switch v := g.(type) {
		case orb.Polygon:
			polygons = append(polygons, v)
		case orb.LineString:
			lineStrings = append(lineStrings, v)
		default:
			other = append(other, v)
		}
	}

	if len(polygons) == 0 || len(lineStrings) == 0 {
		return geom
	}

	if len(other) > 0 {
		// Mixed collection beyond polygons/linestrings: keep it a
		// collection, just with the linestrings pruned.
		out := make(orb.Collection, 0, len(polygons)+len(other))
		for _, p := range polygons {
			out = append(out, p)
		}
		out = append(out, other...)
		return out
	}

	if len(polygons) > 1 {
		return polygons
	}
	return polygons[0]
}
