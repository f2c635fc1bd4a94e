// Package routing implements shortest-path search over a prepared graph
// and serialization of the result as GeoJSON.
package routing

import (
	"container/heap"
	"errors"
	"math"

	"github.com/paulmach/orb/geojson"

	"github.com/azybler/georoute/pkg/graph"
)

// ErrNoRoute is returned when no path exists between source and target.
var ErrNoRoute = errors.New("routing: no route found")

// pqItem is a priority queue entry: a graph node and its tentative
// distance from the search source.
type pqItem struct {
	node int
	dist float64
	// index is maintained by container/heap.Interface for Fix/update; unused here.
	index int
}

// minHeap is a concrete-typed min-heap over pqItem, avoiding interface
// boxing for the hot path of repeated Push/Pop during search.
type minHeap []*pqItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *minHeap) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Result is one shortest-path search outcome: the node sequence, the
// key=0 edge underlying each step between consecutive nodes, and the total
// length in meters.
type Result struct {
	Nodes       []int
	Edges       []*graph.Edge
	TotalMeters float64
}

// ShortestPath runs Dijkstra's algorithm from source to target over g,
// following every outgoing edge of a node, Forward and Reverse keys alike.
// A step taken along a Reverse edge is recorded in the Result as its
// Forward (key=0) counterpart. It returns ErrNoRoute if target is
// unreachable.
func ShortestPath(g *graph.Graph, source, target int) (*Result, error) {
	if source == target {
		return &Result{Nodes: []int{source}}, nil
	}

	dist := map[int]float64{source: 0}
	prevNode := map[int]int{}
	prevEdge := map[int]*graph.Edge{}
	visited := map[int]bool{}

	pq := &minHeap{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{node: source, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		u := item.node
		if visited[u] {
			continue
		}
		if item.dist > dist[u] {
			continue
		}
		visited[u] = true

		if u == target {
			break
		}

		for id, e := range g.Edges {
			if id.U != u {
				continue
			}
			v := id.V
			if visited[v] {
				continue
			}
			nd := dist[u] + e.Length
			if existing, ok := dist[v]; !ok || nd < existing {
				used := e
				if id.Key == graph.Reverse {
					if fwd, ok := g.Edges[graph.EdgeID{U: v, V: u, Key: graph.Forward}]; ok {
						used = fwd
					}
				}
				dist[v] = nd
				prevNode[v] = u
				prevEdge[v] = used
				heap.Push(pq, &pqItem{node: v, dist: nd})
			}
		}
	}

	if !visited[target] {
		return nil, ErrNoRoute
	}

	var nodes []int
	var edges []*graph.Edge
	for n := target; ; {
		nodes = append([]int{n}, nodes...)
		e, ok := prevEdge[n]
		if !ok {
			break
		}
		edges = append([]*graph.Edge{e}, edges...)
		n = prevNode[n]
	}

	return &Result{Nodes: nodes, Edges: edges, TotalMeters: dist[target]}, nil
}

// FeatureCollection renders r as a GeoJSON FeatureCollection, one feature
// per traversed edge in path order, each carrying the key=0 edge geometry
// used. The total route distance is carried on the collection's first
// feature so callers have a single place to read it; every feature also
// carries its own edge length.
func (r *Result) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, e := range r.Edges {
		feature := geojson.NewFeature(e.Geometry)
		feature.Properties = geojson.Properties{
			"length_meters": math.Round(e.Length*100) / 100,
		}
		if i == 0 {
			feature.Properties["distance_meters"] = math.Round(r.TotalMeters*100) / 100
		}
		fc.Append(feature)
	}
	return fc
}
