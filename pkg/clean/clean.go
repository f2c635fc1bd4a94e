// Package clean implements the geometry cleaning pipeline: per-property-group
// polygon union, sliver-hole removal, and linestring pruning from mixed
// geometry collections.
package clean

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	geos "github.com/spatial-go/geos/geo"
)

// sliverThreshold is the coordinate-unit ring area below which an interior
// ring is considered a union artifact and dropped.
const sliverThreshold = 1e-10

// visibilityProperty is the reserved Feature property consulted to exclude
// features from cleaning output.
const visibilityProperty = "visibility"

// Clean runs the full pipeline (drop hidden features, group by properties,
// union each group, tweeze slivers, prune stray linestrings) and returns one
// output Feature per group, in the group's canonical-properties sort order.
func Clean(fc *geojson.FeatureCollection) ([]*geojson.Feature, error) {
	groups, order, err := groupByProperties(fc.Features)
	if err != nil {
		return nil, err
	}

	out := make([]*geojson.Feature, 0, len(order))
	for _, key := range order {
		members := groups[key]

		unioned, err := unionGroup(members)
		if err != nil {
			return nil, fmt.Errorf("union group: %w", err)
		}

		tweezed := tweeze(unioned)
		rolled := lintRoll(tweezed)

		feature := geojson.NewFeature(rolled)
		feature.Properties = members[0].Properties
		out = append(out, feature)
	}

	return out, nil
}

// WriteStream writes features as a streaming GeoJSON FeatureCollection —
// one feature per line between the envelope, matching the reference
// cleaner's incremental stdout emission so arbitrarily large corpora don't
// need to be buffered as a single JSON document.
func WriteStream(w interface{ Write([]byte) (int, error) }, features []*geojson.Feature) error {
	if _, err := w.Write([]byte("{\"type\":\"FeatureCollection\",\"features\":[\n")); err != nil {
		return err
	}
	for i, f := range features {
		b, err := f.MarshalJSON()
		if err != nil {
			return fmt.Errorf("marshal feature %d: %w", i, err)
		}
		if i > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("]}\n"))
	return err
}

// groupByProperties drops invisible features and groups the rest by the
// canonical (sorted-key) JSON serialization of their properties.
func groupByProperties(features []*geojson.Feature) (map[string][]*geojson.Feature, []string, error) {
	groups := make(map[string][]*geojson.Feature)

	for _, f := range features {
		if v, ok := f.Properties["visibility"]; ok {
			if visible, isBool := v.(bool); isBool && !visible {
				continue
			}
		}

		key, err := canonicalProperties(f.Properties)
		if err != nil {
			return nil, nil, err
		}
		groups[key] = append(groups[key], f)
	}

	order := make([]string, 0, len(groups))
	for key := range groups {
		order = append(order, key)
	}
	sort.Strings(order)

	return groups, order, nil
}

// canonicalProperties serializes props with keys sorted, so property-equal
// features land in the same group regardless of original key order.
// encoding/json already sorts map[string]any keys on marshal; this is
// documented here because that's load-bearing, not incidental.
func canonicalProperties(props geojson.Properties) (string, error) {
	b, err := json.Marshal(map[string]any(props))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unionGroup computes the union of every 2D geometry in members. Features
// are joined into a single WKT GEOMETRYCOLLECTION and unioned in one pass
// via UnaryUnion, which also repairs self-intersections (the reference
// implementation's make_valid step) before dissolving boundaries.
func unionGroup(members []*geojson.Feature) (orb.Geometry, error) {
	if len(members) == 1 {
		return makeValid(members[0].Geometry)
	}

	parts := make([]string, 0, len(members))
	for _, f := range members {
		parts = append(parts, wkt.MarshalString(force2D(f.Geometry)))
	}
	collection := "GEOMETRYCOLLECTION(" + strings.Join(parts, ",") + ")"

	unioned, err := geos.UnaryUnion(collection)
	if err != nil {
		return nil, err
	}

	return wkt.UnmarshalString(unioned)
}

// makeValid repairs a single geometry's self-intersections via UnaryUnion,
// the reference implementation's make_valid equivalent.
func makeValid(geom orb.Geometry) (orb.Geometry, error) {
	repaired, err := geos.UnaryUnion(wkt.MarshalString(force2D(geom)))
	if err != nil {
		return nil, err
	}
	return wkt.UnmarshalString(repaired)
}

// force2D is a no-op placeholder: orb's geometry types never carry a Z
// coordinate, so every geometry decoded via orb/geojson is already 2D.
func force2D(geom orb.Geometry) orb.Geometry {
	return geom
}
