package query

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	geos "github.com/spatial-go/geos/geo"

	"github.com/azybler/georoute/pkg/geo"
)

// circleBufferSegments is the number of straight segments used to
// approximate a quarter-circle when buffering a Circle area, matching
// geos's quadsegs parameter.
const circleBufferSegments = 16

// prefetchGeofences fetches, once per distinct geofence collection resource
// referenced by an Arn area in areas, merging the catalog's responses into
// one flat id -> entry map keyed exactly as the catalog keys its own
// entries. Every Arn is parsed (and its service validated) up front, so a
// malformed or non-geo Arn fails fast as InvalidArea before any fetch.
func prefetchGeofences(ctx context.Context, catalog GeofenceCatalog, areas []AreaSpec) (map[string]GeofenceEntry, error) {
	resources := make(map[string]bool)
	for _, a := range areas {
		if a.Area.Arn == "" {
			continue
		}
		_, _, _, components, err := parseArn(a.Area.Arn)
		if err != nil {
			return nil, err
		}
		resources[components.Resource] = true
	}
	if len(resources) == 0 {
		return nil, nil
	}
	if catalog == nil {
		return nil, &QueryError{Kind: GeofenceUnavailable, Message: "Unable to fetch geofence (no catalog configured)"}
	}

	out := make(map[string]GeofenceEntry)
	for resource := range resources {
		entries, err := catalog.Fetch(ctx, resource)
		if err != nil {
			return nil, &QueryError{
				Kind:    GeofenceUnavailable,
				Message: fmt.Sprintf("Unable to fetch geofence (%s)", resource),
			}
		}
		for k, v := range entries {
			out[k] = v
		}
	}
	return out, nil
}

// resolveExclusions validates each area (exactly one of Circle, Polygon,
// Arn) and resolves it to a WGS84 polygon, buffering circles in proj's
// UTM frame so the radius is metric. The result is every resolved area
// as one GeometryCollection, or an empty Collection if areas is empty.
func resolveExclusions(areas []AreaSpec, geofences map[string]GeofenceEntry, proj *geo.Projector) (orb.Geometry, error) {
	var parts []orb.Geometry

	for _, a := range areas {
		area := a.Area

		count := 0
		if area.Circle != nil {
			count++
		}
		if area.Polygon != nil {
			count++
		}
		if area.Arn != "" {
			count++
		}
		if count != 1 {
			return nil, &QueryError{
				Kind:    InvalidArea,
				Message: "Only one of {Circle, Polygon, Arn} may be provided per Area.",
			}
		}

		circle := area.Circle
		polygon := area.Polygon

		if area.Arn != "" {
			_, entryID, _, components, err := parseArn(area.Arn)
			if err != nil {
				return nil, err
			}

			// prefetchGeofences fetched by Resource, so the catalog keyed
			// this entry as "<resource>#<entry-id>".
			entry, ok := geofences[components.Resource+"#"+entryID]
			if !ok {
				return nil, &QueryError{
					Kind:    GeofenceUnavailable,
					Message: fmt.Sprintf("Unable to fetch geofence (%s)", area.Arn),
				}
			}
			if entry.Circle != nil {
				circle = entry.Circle
			} else {
				polygon = entry.Polygon
			}
		}

		if circle != nil {
			poly, err := bufferCircle(proj, orb.Point{circle.Center[0], circle.Center[1]}, circle.Radius)
			if err != nil {
				return nil, &QueryError{Kind: InvalidArea, Message: fmt.Sprintf("Invalid Circle area: %v", err)}
			}
			parts = append(parts, poly)
		}

		if polygon != nil {
			parts = append(parts, toOrbPolygon(polygon))
		}
	}

	if len(parts) == 0 {
		return orb.Collection{}, nil
	}
	return orb.Collection(parts), nil
}

func toOrbPolygon(rings [][][2]float64) orb.Polygon {
	poly := make(orb.Polygon, len(rings))
	for i, ring := range rings {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			r[j] = orb.Point{pt[0], pt[1]}
		}
		poly[i] = r
	}
	return poly
}

// bufferCircle buffers center by radiusMeters in proj's UTM frame (so the
// radius is a true metric distance) and reprojects the result back to
// geographic coordinates.
func bufferCircle(proj *geo.Projector, center orb.Point, radiusMeters float64) (orb.Polygon, error) {
	metricCenter := proj.ToMetric(center)

	buffered, err := geos.Buffer(wkt.MarshalString(metricCenter), radiusMeters, circleBufferSegments)
	if err != nil {
		return nil, err
	}
	geom, err := wkt.UnmarshalString(buffered)
	if err != nil {
		return nil, err
	}
	poly, ok := geom.(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("buffer of circle did not produce a polygon: %T", geom)
	}

	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			r[j] = proj.ToGeographic(pt)
		}
		out[i] = r
	}
	return out, nil
}
