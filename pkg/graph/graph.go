// Package graph implements the routable graph's data model plus the offline
// preparation pipeline (vertex clustering, edge building) that turns a pile
// of line features into it.
package graph

import (
	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
)

// Key distinguishes a forward edge (0, stored direction) from its
// synthesized reverse (1).
type Key int

const (
	Forward Key = 0
	Reverse Key = 1
)

// Node is a graph vertex: an id unique within its Graph, a coordinate in
// (lon, lat) WGS84, and an Empty flag, stored and restored by the binary
// format. The Graph Specializer does not set Empty: it removes a node
// whose geometry is clipped away entirely from its output graph.
type Node struct {
	ID        int
	X, Y      float64
	PointGeom orb.Point
	Empty     bool
}

// EdgeID identifies an edge by its (u, v, key) triple.
type EdgeID struct {
	U, V int
	Key  Key
}

// Edge is one directed edge. Geometry runs from node U toward node V for
// Key == Forward, and is the reverse for Key == Reverse; Length is the
// metric length of Geometry in the Graph's UTM projection, in meters,
// rounded to 0.01.
type Edge struct {
	ID       EdgeID
	Geometry orb.LineString
	Length   float64
}

// Graph is a directed multigraph: a node table, an edge table indexed by
// (u, v, key), and the UTM projection used for every length/distance
// computation over it.
type Graph struct {
	Nodes     map[int]*Node
	Edges     map[EdgeID]*Edge
	Projector *geo.Projector
}

// New creates an empty Graph using proj for all metric work.
func New(proj *geo.Projector) *Graph {
	return &Graph{
		Nodes:     make(map[int]*Node),
		Edges:     make(map[EdgeID]*Edge),
		Projector: proj,
	}
}

// MaxNodeID returns the highest node id present in g, or -1 if g has no
// nodes. Both the Specializer and the Splicer allocate new ids starting
// from MaxNodeID()+1.
func (g *Graph) MaxNodeID() int {
	max := -1
	for id := range g.Nodes {
		if id > max {
			max = id
		}
	}
	return max
}

// AddNode inserts a node, returning it.
func (g *Graph) AddNode(id int, pt orb.Point) *Node {
	n := &Node{ID: id, X: pt[0], Y: pt[1], PointGeom: pt}
	g.Nodes[id] = n
	return n
}

// AddEdgePair inserts a key=0 edge (u, v, geometry) and its key=1 reverse
// with the reversed geometry, computing Length for both from g's
// Projector. It is a no-op (returns false) if u == v, since the graph
// permits no self-edges.
func (g *Graph) AddEdgePair(u, v int, geometry orb.LineString) bool {
	if u == v {
		return false
	}

	length := g.Projector.LengthMeters(geometry)

	fwd := &Edge{ID: EdgeID{u, v, Forward}, Geometry: geometry, Length: length}
	g.Edges[fwd.ID] = fwd

	rev := &Edge{ID: EdgeID{v, u, Reverse}, Geometry: reverseLine(geometry), Length: length}
	g.Edges[rev.ID] = rev

	return true
}

// Out returns every key=0 edge whose source is u.
func (g *Graph) Out(u int) []*Edge {
	var out []*Edge
	for id, e := range g.Edges {
		if id.U == u && id.Key == Forward {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of g: an independent node table and edge
// table, sharing the (immutable) Projector. Per-request specialization
// always starts from a clone so the static graph is never mutated.
func (g *Graph) Clone() *Graph {
	out := New(g.Projector)

	for id, n := range g.Nodes {
		cp := *n
		out.Nodes[id] = &cp
	}
	for id, e := range g.Edges {
		cp := *e
		cp.Geometry = append(orb.LineString{}, e.Geometry...)
		out.Edges[id] = &cp
	}

	return out
}

func reverseLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		out[len(ls)-1-i] = pt
	}
	return out
}
