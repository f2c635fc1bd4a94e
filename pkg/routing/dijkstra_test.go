package routing

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
	"github.com/azybler/georoute/pkg/graph"
)

// buildHexGraph builds the same hexagonal test graph across the routing
// tests: a ring of six nodes, all edges bidirectional.
//
//	10 --- 20 --- 30
//	 |             |
//	40 --- 50 --- 60
func buildHexGraph(t *testing.T) *graph.Graph {
	t.Helper()
	proj := geo.NewProjectorForPoint(orb.Point{103.800, 1.300})
	g := graph.New(proj)

	pts := map[int]orb.Point{
		10: {103.800, 1.300},
		20: {103.801, 1.300},
		30: {103.802, 1.300},
		40: {103.800, 1.301},
		50: {103.801, 1.301},
		60: {103.802, 1.301},
	}
	for id, pt := range pts {
		g.AddNode(id, pt)
	}

	pairs := [][2]int{{10, 20}, {20, 30}, {10, 40}, {30, 60}, {40, 50}, {50, 60}}
	for _, p := range pairs {
		g.AddEdgePair(p[0], p[1], orb.LineString{pts[p[0]], pts[p[1]]})
	}

	return g
}

func TestShortestPathDirect(t *testing.T) {
	g := buildHexGraph(t)

	result, err := ShortestPath(g, 10, 30)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}

	want := []int{10, 20, 30}
	if len(result.Nodes) != len(want) {
		t.Fatalf("Nodes = %v, want %v", result.Nodes, want)
	}
	for i, n := range want {
		if result.Nodes[i] != n {
			t.Errorf("Nodes[%d] = %d, want %d", i, result.Nodes[i], n)
		}
	}
	if result.TotalMeters <= 0 {
		t.Errorf("TotalMeters = %f, want > 0", result.TotalMeters)
	}
}

func TestShortestPathAroundRing(t *testing.T) {
	g := buildHexGraph(t)

	result, err := ShortestPath(g, 10, 60)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}

	// Both the top route (10-20-30-60) and bottom route (10-40-50-60)
	// have 3 hops; either is an acceptable shortest path given symmetric
	// weights, but the path must be connected and have 4 nodes.
	if len(result.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4, got %v", len(result.Nodes), result.Nodes)
	}
	if result.Nodes[0] != 10 || result.Nodes[3] != 60 {
		t.Errorf("Nodes = %v, want path from 10 to 60", result.Nodes)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := buildHexGraph(t)

	result, err := ShortestPath(g, 10, 10)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(result.Nodes) != 1 || result.Nodes[0] != 10 {
		t.Errorf("Nodes = %v, want [10]", result.Nodes)
	}
	if result.TotalMeters != 0 {
		t.Errorf("TotalMeters = %f, want 0", result.TotalMeters)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	proj := geo.NewProjectorForPoint(orb.Point{103.800, 1.300})
	g := graph.New(proj)
	g.AddNode(1, orb.Point{103.800, 1.300})
	g.AddNode(2, orb.Point{103.801, 1.300})
	// No edges between them.

	_, err := ShortestPath(g, 1, 2)
	if err != ErrNoRoute {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}
}

func TestResultFeatureCollection(t *testing.T) {
	g := buildHexGraph(t)
	result, err := ShortestPath(g, 10, 30)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}

	fc := result.FeatureCollection()
	// 10->20->30 traverses 2 edges, so 2 features.
	if len(fc.Features) != 2 {
		t.Fatalf("len(Features) = %d, want 2", len(fc.Features))
	}

	for i, f := range fc.Features {
		if _, ok := f.Geometry.(orb.LineString); !ok {
			t.Fatalf("feature %d geometry is %T, want orb.LineString", i, f.Geometry)
		}
		if _, ok := f.Properties["length_meters"]; !ok {
			t.Errorf("feature %d missing length_meters property", i)
		}
	}

	if _, ok := fc.Features[0].Properties["distance_meters"]; !ok {
		t.Error("expected distance_meters property on first feature")
	}
}
