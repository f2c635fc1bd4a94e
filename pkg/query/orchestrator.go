package query

import (
	"context"
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/azybler/georoute/pkg/graph"
	"github.com/azybler/georoute/pkg/routing"
	"github.com/azybler/georoute/pkg/specialize"
	"github.com/azybler/georoute/pkg/splice"
)

// Orchestrator ties the Specializer, Splicer, and Router together against
// one immutable static graph, shared across every request it serves.
type Orchestrator struct {
	StaticGraph *graph.Graph
	Catalog     GeofenceCatalog
	Router      routing.Router
}

// NewOrchestrator builds an Orchestrator over staticGraph, using catalog
// to resolve any geofence-reference avoidance areas. catalog may be nil
// if the deployment never expects Arn-referenced areas; any request that
// uses one then fails with GeofenceUnavailable.
func NewOrchestrator(staticGraph *graph.Graph, catalog GeofenceCatalog) *Orchestrator {
	return &Orchestrator{
		StaticGraph: staticGraph,
		Catalog:     catalog,
		Router:      routing.NewEngine(),
	}
}

// Route runs the full per-request pipeline: resolve avoidance areas,
// specialize the static graph against them, splice the origin and
// destination into the resulting working graph, then route between them.
func (o *Orchestrator) Route(ctx context.Context, req *RouteRequest) (*geojson.FeatureCollection, error) {
	geofences, err := prefetchGeofences(ctx, o.Catalog, req.Avoid.Areas)
	if err != nil {
		return nil, err
	}

	exclusion, err := resolveExclusions(req.Avoid.Areas, geofences, o.StaticGraph.Projector)
	if err != nil {
		return nil, err
	}

	working, err := specialize.Specialize(o.StaticGraph, exclusion)
	if err != nil {
		return nil, &QueryError{Kind: InternalError, Message: err.Error()}
	}

	originID, err := splice.Splice(working, orb.Point{req.Origin[0], req.Origin[1]})
	if err != nil {
		return nil, &QueryError{Kind: InternalError, Message: err.Error()}
	}

	destID, err := splice.Splice(working, orb.Point{req.Destination[0], req.Destination[1]})
	if err != nil {
		return nil, &QueryError{Kind: InternalError, Message: err.Error()}
	}

	fc, err := o.Router.Route(ctx, working, originID, destID)
	if err != nil {
		if errors.Is(err, routing.ErrNoRoute) {
			return nil, &QueryError{Kind: NoRoute, Message: "No route found."}
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &QueryError{Kind: InternalError, Message: err.Error()}
	}

	return fc, nil
}
