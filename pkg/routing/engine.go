package routing

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"github.com/azybler/georoute/pkg/graph"
)

// Router is the interface for route queries over an already-specialized,
// already-spliced graph: every node ShortestPath needs (origin,
// destination, and anything exclusion clipping touched) must already be
// present in g.
type Router interface {
	Route(ctx context.Context, g *graph.Graph, source, target int) (*geojson.FeatureCollection, error)
}

// Engine runs Dijkstra over whatever graph it is handed and renders the
// result as GeoJSON. It holds no graph state itself — the Query
// Orchestrator builds a fresh specialized-and-spliced graph per request
// and passes it in directly.
type Engine struct{}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Route computes the shortest path from source to target in g.
func (e *Engine) Route(ctx context.Context, g *graph.Graph, source, target int) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := ShortestPath(g, source, target)
	if err != nil {
		return nil, err
	}

	return result.FeatureCollection(), nil
}
