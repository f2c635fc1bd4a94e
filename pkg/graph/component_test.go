package graph

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind()

	for i := 0; i < 5; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	uf.Union(1, 3)
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
}

func buildComponentGraph() *Graph {
	proj := singaporeProjector()
	g := New(proj)

	g.AddNode(10, orb.Point{103.0, 1.0})
	g.AddNode(20, orb.Point{103.1, 1.1})
	g.AddNode(30, orb.Point{103.2, 1.2})
	g.AddNode(40, orb.Point{104.0, 2.0})
	g.AddNode(50, orb.Point{104.1, 2.1})

	// Component 1: 10 <-> 20 <-> 30 (triangle-ish chain).
	g.AddEdgePair(10, 20, orb.LineString{{103.0, 1.0}, {103.1, 1.1}})
	g.AddEdgePair(20, 30, orb.LineString{{103.1, 1.1}, {103.2, 1.2}})
	// Component 2: 40 <-> 50.
	g.AddEdgePair(40, 50, orb.LineString{{104.0, 2.0}, {104.1, 2.1}})

	return g
}

func TestLargestComponent(t *testing.T) {
	g := buildComponentGraph()
	nodes := LargestComponent(g)

	if len(nodes) != 3 {
		t.Fatalf("LargestComponent has %d nodes, want 3", len(nodes))
	}
}

func TestFilterToNodes(t *testing.T) {
	g := buildComponentGraph()
	nodes := LargestComponent(g)
	filtered := FilterToNodes(g, nodes)

	if len(filtered.Nodes) != 3 {
		t.Fatalf("filtered Nodes = %d, want 3", len(filtered.Nodes))
	}
	// 2 edge pairs within the component = 4 directed edges.
	if len(filtered.Edges) != 4 {
		t.Fatalf("filtered Edges = %d, want 4", len(filtered.Edges))
	}
}

func TestLargestComponentEmptyGraph(t *testing.T) {
	g := New(singaporeProjector())
	nodes := LargestComponent(g)
	if nodes != nil {
		t.Errorf("expected nil for empty graph, got %v", nodes)
	}

	filtered := FilterToNodes(g, nil)
	if len(filtered.Nodes) != 0 || len(filtered.Edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", len(filtered.Nodes), len(filtered.Edges))
	}
}
