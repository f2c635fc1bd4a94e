// Package specialize builds a per-request working copy of the static graph
// with one or more exclusion areas clipped out of its node and edge
// geometry.
package specialize

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	geos "github.com/spatial-go/geos/geo"

	"github.com/azybler/georoute/pkg/graph"
)

const eps = 1e-9

// Specialize clones g and, if exclusion is non-empty, clips every node and
// key=0 edge geometry against it. Nodes wholly inside exclusion are
// dropped; edges are shortened, dropped, or (in the multi-part case) split
// into several edges with synthesized endpoints. Key=1 edges are always
// rebuilt from the result rather than clipped independently.
//
// If exclusion is nil or empty, the returned graph is an unmodified clone
// of g: the static graph itself is never mutated.
func Specialize(g *graph.Graph, exclusion orb.Geometry) (*graph.Graph, error) {
	if isEmptyGeometry(exclusion) {
		return g.Clone(), nil
	}

	exclusionWKT := wkt.MarshalString(exclusion)

	removed := make(map[int]bool)
	for id, n := range g.Nodes {
		empty, err := isPointClippedAway(n.PointGeom, exclusionWKT)
		if err != nil {
			return nil, fmt.Errorf("specialize: clip node %d: %w", id, err)
		}
		if empty {
			removed[id] = true
		}
	}

	// Collect the forward (key=0) edges to process in deterministic order,
	// since map iteration order would otherwise make synthetic node id
	// assignment (and so route geometry) nondeterministic across runs.
	type fwdEdge struct {
		id graph.EdgeID
		e  *graph.Edge
	}
	var fwd []fwdEdge
	for id, e := range g.Edges {
		if id.Key == graph.Forward {
			fwd = append(fwd, fwdEdge{id, e})
		}
	}
	sort.Slice(fwd, func(i, j int) bool {
		if fwd[i].id.U != fwd[j].id.U {
			return fwd[i].id.U < fwd[j].id.U
		}
		return fwd[i].id.V < fwd[j].id.V
	})

	out := graph.New(g.Projector)
	for id, n := range g.Nodes {
		if !removed[id] {
			out.AddNode(id, n.PointGeom)
		}
	}

	nextID := g.MaxNodeID() + 1
	allocID := func() int {
		id := nextID
		nextID++
		return id
	}

	for _, fe := range fwd {
		parts, err := clipLine(fe.e.Geometry, exclusionWKT)
		if err != nil {
			return nil, fmt.Errorf("specialize: clip edge %v: %w", fe.id, err)
		}
		if len(parts) == 0 {
			continue
		}

		for i, part := range parts {
			u := fe.id.U
			if i != 0 || removed[u] || !epsEqual(part[0], fe.e.Geometry[0]) {
				u = allocID()
				out.AddNode(u, part[0])
			}

			v := fe.id.V
			if i != len(parts)-1 || removed[v] || !epsEqual(part[len(part)-1], fe.e.Geometry[len(fe.e.Geometry)-1]) {
				v = allocID()
				out.AddNode(v, part[len(part)-1])
			}

			out.AddEdgePair(u, v, part)
		}
	}

	return out, nil
}

func epsEqual(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

// isPointClippedAway reports whether pt's point-minus-exclusion difference
// is empty, i.e. pt lies wholly inside exclusionWKT.
func isPointClippedAway(pt orb.Point, exclusionWKT string) (bool, error) {
	clipped, err := geos.Difference(wkt.MarshalString(pt), exclusionWKT)
	if err != nil {
		return false, err
	}
	geom, err := wkt.UnmarshalString(clipped)
	if err != nil {
		return false, err
	}
	return isEmptyGeometry(geom), nil
}

// clipLine subtracts exclusionWKT from ls and returns the surviving
// linestring parts, in order along the original line. An empty result
// means the whole edge was clipped away.
func clipLine(ls orb.LineString, exclusionWKT string) ([]orb.LineString, error) {
	clipped, err := geos.Difference(wkt.MarshalString(ls), exclusionWKT)
	if err != nil {
		return nil, err
	}
	geom, err := wkt.UnmarshalString(clipped)
	if err != nil {
		return nil, err
	}

	switch g := geom.(type) {
	case orb.LineString:
		if len(g) < 2 {
			return nil, nil
		}
		return []orb.LineString{g}, nil
	case orb.MultiLineString:
		var out []orb.LineString
		for _, part := range g {
			if len(part) >= 2 {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return nil, nil
	}
}

// isEmptyGeometry reports whether geom has no coordinates to speak of —
// geos represents a fully-clipped result as an empty collection, and orb's
// wkt decoder surfaces that as a zero-length collection/multi-geometry.
func isEmptyGeometry(geom orb.Geometry) bool {
	if geom == nil {
		return true
	}
	switch g := geom.(type) {
	case orb.Collection:
		return len(g) == 0
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.MultiLineString:
		return len(g) == 0
	case orb.Polygon:
		return len(g) == 0
	case orb.MultiPolygon:
		return len(g) == 0
	default:
		return false
	}
}
