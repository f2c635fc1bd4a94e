package query

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
	"github.com/azybler/georoute/pkg/graph"
)

// buildFixtureGraph is a short three-node road used across query tests:
// node 1 -- node 2 -- node 3, a straight line along latitude 1.300.
func buildFixtureGraph(t *testing.T) *graph.Graph {
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

// mockCatalog is a fixed id -> entry map, standing in for a real geofence
// catalog collaborator in tests.
type mockCatalog struct {
	entries map[string]GeofenceEntry
	err     error
}

func (m *mockCatalog) Fetch(ctx context.Context, prefix string) (map[string]GeofenceEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]GeofenceEntry)
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

func TestRouteSimple(t *testing.T) {
	g := buildFixtureGraph(t)
	o := NewOrchestrator(g, nil)

	req := &RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
	}

	fc, err := o.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(fc.Features) == 0 {
		t.Error("expected at least one feature in the route result")
	}
}

func TestRouteInvalidArea(t *testing.T) {
	g := buildFixtureGraph(t)
	o := NewOrchestrator(g, nil)

	req := &RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
		Avoid: AvoidSpec{Areas: []AreaSpec{{Area: Area{
			Circle:  &CircleSpec{Center: [2]float64{103.801, 1.300}, Radius: 50},
			Polygon: [][][2]float64{{{103.8, 1.3}, {103.801, 1.3}, {103.801, 1.301}, {103.8, 1.3}}},
		}}}},
	}

	_, err := o.Route(context.Background(), req)
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("err = %v, want *QueryError", err)
	}
	if qerr.Kind != InvalidArea {
		t.Errorf("Kind = %v, want InvalidArea", qerr.Kind)
	}
	want := "Only one of {Circle, Polygon, Arn} may be provided per Area."
	if qerr.Message != want {
		t.Errorf("Message = %q, want %q", qerr.Message, want)
	}
}

func TestRouteGeofenceUnavailable(t *testing.T) {
	g := buildFixtureGraph(t)
	catalog := &mockCatalog{entries: map[string]GeofenceEntry{}}
	o := NewOrchestrator(g, catalog)

	req := &RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
		Avoid: AvoidSpec{Areas: []AreaSpec{{Area: Area{
			Arn: "arn:aws:geo:us-east-1:123456789012:geofence-collection/collection-a#missing-entry",
		}}}},
	}

	_, err := o.Route(context.Background(), req)
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("err = %v, want *QueryError", err)
	}
	if qerr.Kind != GeofenceUnavailable {
		t.Errorf("Kind = %v, want GeofenceUnavailable", qerr.Kind)
	}
	want := "Unable to fetch geofence (arn:aws:geo:us-east-1:123456789012:geofence-collection/collection-a#missing-entry)"
	if qerr.Message != want {
		t.Errorf("Message = %q, want %q", qerr.Message, want)
	}
}

func TestRouteUnsupportedArnService(t *testing.T) {
	g := buildFixtureGraph(t)
	o := NewOrchestrator(g, &mockCatalog{entries: map[string]GeofenceEntry{}})

	req := &RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
		Avoid: AvoidSpec{Areas: []AreaSpec{{Area: Area{
			Arn: "arn:aws:s3:us-east-1:123456789012:collection-a#entry-1",
		}}}},
	}

	_, err := o.Route(context.Background(), req)
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("err = %v, want *QueryError", err)
	}
	if qerr.Kind != InvalidArea {
		t.Errorf("Kind = %v, want InvalidArea", qerr.Kind)
	}
	want := "Unrecognized service: s3"
	if qerr.Message != want {
		t.Errorf("Message = %q, want %q", qerr.Message, want)
	}
}

func TestHandleEnvelopeSuccess(t *testing.T) {
	g := buildFixtureGraph(t)
	o := NewOrchestrator(g, nil)

	body, _ := json.Marshal(RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
	})
	eventJSON, _ := json.Marshal(RequestEnvelope{Body: string(body)})

	out := o.Handle(context.Background(), eventJSON)

	var resp ResponseEnvelope
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("unmarshal response envelope: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("missing CORS header")
	}
	if resp.Headers["Content-Type"] != "application/geo+json" {
		t.Error("missing Content-Type header on success")
	}
}

func TestHandleEnvelopeInvalidArea(t *testing.T) {
	g := buildFixtureGraph(t)
	o := NewOrchestrator(g, nil)

	body, _ := json.Marshal(RouteRequest{
		Origin:      [2]float64{103.8001, 1.3001},
		Destination: [2]float64{103.8019, 1.3001},
		Avoid: AvoidSpec{Areas: []AreaSpec{{Area: Area{
			Circle:  &CircleSpec{Center: [2]float64{103.801, 1.300}, Radius: 50},
			Polygon: [][][2]float64{{{103.8, 1.3}, {103.801, 1.3}, {103.801, 1.301}, {103.8, 1.3}}},
		}}}},
	})
	eventJSON, _ := json.Marshal(RequestEnvelope{Body: string(body)})

	out := o.Handle(context.Background(), eventJSON)

	var resp ResponseEnvelope
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("unmarshal response envelope: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "" {
		t.Error("error response should not carry Content-Type")
	}

	var eb errorBody
	if err := json.Unmarshal([]byte(resp.Body), &eb); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	want := "Only one of {Circle, Polygon, Arn} may be provided per Area."
	if eb.Error != want {
		t.Errorf("Error = %q, want %q", eb.Error, want)
	}
}
