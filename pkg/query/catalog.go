package query

import "context"

// GeofenceEntry is one catalog entry: a named area, shaped exactly like a
// request-side Area minus the Arn case (a geofence can't reference
// another geofence).
type GeofenceEntry struct {
	Circle  *CircleSpec
	Polygon [][][2]float64
}

// GeofenceCatalog is the external geofence lookup collaborator. Fetch
// returns every entry belonging to the named collection (prefix), keyed
// by "<prefix>#<entry-id>"; the catalog is responsible for paginating
// against whatever backing store it wraps.
type GeofenceCatalog interface {
	Fetch(ctx context.Context, prefix string) (map[string]GeofenceEntry, error)
}
