// Package splice inserts an arbitrary point (an unmatched route origin or
// destination) into a working graph by attaching it to the nearest edge.
package splice

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/graph"
	"github.com/azybler/georoute/pkg/spatial"
)

// ErrEmptyGraph is returned when g has no key=0 edges to splice into.
var ErrEmptyGraph = errors.New("splice: graph has no edges to splice into")

// Splice finds the edge in g nearest to target, inserts target (and, if
// the nearest point falls strictly between the edge's endpoints, an
// intermediate split node) as new nodes, and wires them into g with new
// key=0/key=1 edge pairs. It returns the id assigned to target.
//
// The edge being spliced into is removed once split: the reference
// implementation this is based on leaves the parent edge in place
// alongside the new pieces, relying on Dijkstra to simply never prefer
// the now-redundant full-length edge. Removing it instead avoids leaving
// an edge in the graph whose endpoints are no longer reachable from one
// another via any other edge referencing the same geometry, and it keeps
// the edge table exactly as large as the node table implies.
func Splice(g *graph.Graph, target orb.Point) (int, error) {
	id, edge, t, foot, err := nearestEdge(g, target)
	if err != nil {
		return 0, err
	}

	n := g.MaxNodeID() + 1
	g.AddNode(n, target)

	switch {
	case t > 0 && t < 1:
		m := n + 1
		g.AddNode(m, foot)

		left := substring(edge.Geometry, 0, t)
		right := substring(edge.Geometry, t, 1)

		delete(g.Edges, graph.EdgeID{U: id.U, V: id.V, Key: graph.Forward})
		delete(g.Edges, graph.EdgeID{U: id.V, V: id.U, Key: graph.Reverse})

		g.AddEdgePair(id.U, m, left)
		g.AddEdgePair(m, id.V, right)
		g.AddEdgePair(m, n, orb.LineString{foot, target})

	case t <= 0:
		g.AddEdgePair(id.U, n, orb.LineString{foot, target})

	default: // t >= 1
		g.AddEdgePair(id.V, n, orb.LineString{foot, target})
	}

	return n, nil
}

// nearestEdge finds the key=0 edge in g whose geometry is nearest to
// target, tie-breaking on the lowest (u, v) pair. Distances are computed in
// g's UTM metric frame rather than raw (lon, lat) degrees, the same
// Projector-then-Index pattern the Vertex Clusterer uses, since a degree of
// longitude and a degree of latitude cover different ground distances away
// from the equator.
func nearestEdge(g *graph.Graph, target orb.Point) (graph.EdgeID, *graph.Edge, float64, orb.Point, error) {
	idx := spatial.New()
	count := 0
	for id, e := range g.Edges {
		if id.Key != graph.Forward {
			continue
		}
		idx.Insert(g.Projector.ToMetricLine(e.Geometry), id)
		count++
	}
	if count == 0 {
		return graph.EdgeID{}, nil, 0, orb.Point{}, ErrEmptyGraph
	}

	targetMetric := g.Projector.ToMetric(target)

	items := idx.Nearest(targetMetric, count)
	bestDist := spatial.Distance(targetMetric, items[0].Geom)

	var bestID graph.EdgeID
	first := true
	for _, it := range items {
		d := spatial.Distance(targetMetric, it.Geom)
		if d > bestDist+1e-9 {
			break
		}
		id := it.Data.(graph.EdgeID)
		if first || id.U < bestID.U || (id.U == bestID.U && id.V < bestID.V) {
			bestID = id
			first = false
		}
	}

	edge := g.Edges[bestID]
	_, t, footMetric := spatial.PointToLineDistance(targetMetric, g.Projector.ToMetricLine(edge.Geometry))
	return bestID, edge, t, g.Projector.ToGeographic(footMetric), nil
}

// substring returns the portion of ls between normalized positions t0 and
// t1 (0 <= t0 <= t1 <= 1), interpolating new endpoints where they fall
// mid-segment.
func substring(ls orb.LineString, t0, t1 float64) orb.LineString {
	if len(ls) < 2 {
		return append(orb.LineString{}, ls...)
	}

	segLens := make([]float64, len(ls)-1)
	var total float64
	for i := 0; i < len(ls)-1; i++ {
		segLens[i] = dist(ls[i], ls[i+1])
		total += segLens[i]
	}
	if total == 0 {
		return orb.LineString{ls[0], ls[0]}
	}

	d0 := t0 * total
	d1 := t1 * total

	var out orb.LineString
	var lenSoFar float64
	started := false
	for i := 0; i < len(ls)-1; i++ {
		segStart := lenSoFar
		segEnd := lenSoFar + segLens[i]

		if !started && d0 <= segEnd {
			out = append(out, interpolate(ls[i], ls[i+1], clamp01(ratioOf(d0, segStart, segLens[i]))))
			started = true
		}
		if started && d1 <= segEnd {
			out = append(out, interpolate(ls[i], ls[i+1], clamp01(ratioOf(d1, segStart, segLens[i]))))
			return dedupe(out)
		}
		if started {
			out = append(out, ls[i+1])
		}
		lenSoFar = segEnd
	}

	return dedupe(out)
}

func ratioOf(d, segStart, segLen float64) float64 {
	if segLen == 0 {
		return 0
	}
	return (d - segStart) / segLen
}

func clamp01(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func interpolate(a, b orb.Point, ratio float64) orb.Point {
	return orb.Point{
		a[0] + ratio*(b[0]-a[0]),
		a[1] + ratio*(b[1]-a[1]),
	}
}

func dist(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// dedupe collapses adjacent equal points, which substring can otherwise
// emit when a cut point lands exactly on an existing vertex.
func dedupe(ls orb.LineString) orb.LineString {
	out := ls[:0]
	for i, pt := range ls {
		if i > 0 && pt == out[len(out)-1] {
			continue
		}
		out = append(out, pt)
	}
	return out
}
