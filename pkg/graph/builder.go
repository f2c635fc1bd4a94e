package graph

import (
	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
)

// DefaultClusterThreshold is the default snapping distance, in meters,
// the Vertex Clusterer uses to merge near-duplicate coordinates.
const DefaultClusterThreshold = 5.0

// vertexRef locates one coordinate within one input line.
type vertexRef struct {
	line int
	pos  int
}

// Build runs the full offline preparation pipeline over a set of input
// line geometries: it clusters every vertex of every line (snapping
// near-duplicates together within thresholdMeters, grounded in the
// reference implementation's two-pass cluster()), then walks each line's
// now-shared vertex sequence and emits one edge pair per consecutive
// node pair. Lines are assumed pre-noded — every intersection already
// has a vertex at the crossing point.
func Build(lines []orb.LineString, proj *geo.Projector, thresholdMeters float64) *Graph {
	g := New(proj)
	if len(lines) == 0 {
		return g
	}

	var points []orb.Point
	var refs []vertexRef
	for li, ls := range lines {
		for pi, pt := range ls {
			points = append(points, pt)
			refs = append(refs, vertexRef{line: li, pos: pi})
		}
	}

	reps, assignment := ClusterPointsTwice(points, proj, thresholdMeters)
	for id, pt := range reps {
		g.AddNode(id, pt)
	}

	nodeSeqs := make([][]int, len(lines))
	for i := range nodeSeqs {
		nodeSeqs[i] = make([]int, len(lines[i]))
	}
	for i, ref := range refs {
		nodeSeqs[ref.line][ref.pos] = assignment[i]
	}

	for _, seq := range nodeSeqs {
		for i := 0; i+1 < len(seq); i++ {
			u, v := seq[i], seq[i+1]
			if u == v {
				continue
			}
			geometry := orb.LineString{reps[u], reps[v]}
			g.AddEdgePair(u, v, geometry)
		}
	}

	return g
}
