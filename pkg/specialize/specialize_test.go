package specialize

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
	"github.com/azybler/georoute/pkg/graph"
)

func buildLineGraph(t *testing.T) *graph.Graph {
	t.Helper()
	proj := geo.NewProjectorForPoint(orb.Point{103.800, 1.300})
	g := graph.New(proj)

	pts := map[int]orb.Point{
		1: {103.800, 1.300},
		2: {103.801, 1.300},
		3: {103.802, 1.300},
	}
	for id, pt := range pts {
		g.AddNode(id, pt)
	}
	g.AddEdgePair(1, 2, orb.LineString{pts[1], pts[2]})
	g.AddEdgePair(2, 3, orb.LineString{pts[2], pts[3]})

	return g
}

func TestSpecializeNilExclusionClonesUnchanged(t *testing.T) {
	g := buildLineGraph(t)

	out, err := Specialize(g, nil)
	if err != nil {
		t.Fatalf("Specialize: %v", err)
	}
	if len(out.Nodes) != len(g.Nodes) {
		t.Errorf("Nodes = %d, want %d", len(out.Nodes), len(g.Nodes))
	}
	if len(out.Edges) != len(g.Edges) {
		t.Errorf("Edges = %d, want %d", len(out.Edges), len(g.Edges))
	}
	if out == g {
		t.Error("Specialize should clone, not alias, the static graph")
	}
}

func TestSpecializeDropsEnclosedNode(t *testing.T) {
	g := buildLineGraph(t)

	// A box tightly around node 2, large enough to contain it but not
	// nodes 1 or 3.
	exclusion := orb.Polygon{{
		{103.8005, 1.2995},
		{103.8015, 1.2995},
		{103.8015, 1.3005},
		{103.8005, 1.3005},
		{103.8005, 1.2995},
	}}

	out, err := Specialize(g, exclusion)
	if err != nil {
		t.Fatalf("Specialize: %v", err)
	}

	if _, ok := out.Nodes[2]; ok {
		t.Error("node 2 should have been dropped (wholly inside exclusion)")
	}
	if _, ok := out.Nodes[1]; !ok {
		t.Error("node 1 should survive")
	}
	if _, ok := out.Nodes[3]; !ok {
		t.Error("node 3 should survive")
	}

	// Edges touching node 2 must have been reassigned to fresh synthetic
	// ids rather than continuing to reference the dropped id.
	for id := range out.Edges {
		if id.U == 2 || id.V == 2 {
			t.Errorf("edge %v still references dropped node 2", id)
		}
	}
}

func TestSpecializeRecomputesLengthForClippedEdges(t *testing.T) {
	g := buildLineGraph(t)

	exclusion := orb.Polygon{{
		{103.8005, 1.2995},
		{103.8015, 1.2995},
		{103.8015, 1.3005},
		{103.8005, 1.3005},
		{103.8005, 1.2995},
	}}

	out, err := Specialize(g, exclusion)
	if err != nil {
		t.Fatalf("Specialize: %v", err)
	}

	original := g.Edges[graph.EdgeID{U: 1, V: 2, Key: graph.Forward}].Length
	for id, e := range out.Edges {
		if id.Key != graph.Forward || id.U != 1 {
			continue
		}
		if e.Length >= original {
			t.Errorf("clipped edge %v length = %f, want < original %f", id, e.Length, original)
		}
	}
}
