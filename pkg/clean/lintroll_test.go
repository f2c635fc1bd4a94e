package clean

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestLintRollDropsLineStrings(t *testing.T) {
	coll := orb.Collection{
		orb.Polygon{bigRing()},
		orb.LineString{{0, 0}, {1, 1}},
	}

	out := lintRoll(coll)
	poly, ok := out.(orb.Polygon)
	if !ok {
		t.Fatalf("lintRoll result is %T, want orb.Polygon", out)
	}
	if len(poly) != 1 {
		t.Errorf("unexpected polygon shape")
	}
}

func TestLintRollMergesMultiplePolygons(t *testing.T) {
	coll := orb.Collection{
		orb.Polygon{bigRing()},
		orb.Polygon{realHole()},
		orb.LineString{{0, 0}, {1, 1}},
	}

	out := lintRoll(coll)
	mp, ok := out.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("lintRoll result is %T, want orb.MultiPolygon", out)
	}
	if len(mp) != 2 {
		t.Errorf("len(mp) = %d, want 2", len(mp))
	}
}

func TestLintRollLeavesPolygonOnlyCollectionAlone(t *testing.T) {
	coll := orb.Collection{orb.Polygon{bigRing()}}
	out := lintRoll(coll)
	if _, ok := out.(orb.Collection); !ok {
		t.Errorf("expected collection without linestrings to pass through unchanged")
	}
}

func TestLintRollNonCollectionPassesThrough(t *testing.T) {
	poly := orb.Polygon{bigRing()}
	out := lintRoll(poly)
	if _, ok := out.(orb.Polygon); !ok {
		t.Errorf("expected non-collection geometry to pass through unchanged")
	}
}
