// Package spatial provides nearest-neighbor and within-distance queries
// over 2D points and linestrings, backed by an R-tree over axis-aligned
// bounding boxes with exact geometry refinement.
package spatial

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// Item is one entry in an Index: the geometry that was indexed (a Point or
// a LineString) paired with caller-supplied data.
type Item struct {
	Geom  orb.Geometry
	Data  any
	order int // insertion sequence, used to break nearest-neighbor ties
}

// Index is a spatial index over Points and LineStrings. All distance
// computations are planar (Euclidean) — callers working in geographic
// coordinates should project to a metric frame first (see pkg/geo.Projector).
type Index struct {
	tr      rtree.RTree
	nextOrd int

	// allMin/allMax track the bounding box of everything inserted so far,
	// so Nearest/Within can issue one R-tree query that is guaranteed to
	// cover every item regardless of how query's own box compares to it.
	allMin, allMax [2]float64
}

// New creates an empty Index.
func New() *Index {
	return &Index{}
}

// Insert adds geom (a Point or LineString) to the index, tagged with data.
func (idx *Index) Insert(geom orb.Geometry, data any) {
	min, max := boxOf(geom)
	item := &Item{Geom: geom, Data: data, order: idx.nextOrd}
	if idx.nextOrd == 0 {
		idx.allMin, idx.allMax = min, max
	} else {
		idx.allMin[0] = math.Min(idx.allMin[0], min[0])
		idx.allMin[1] = math.Min(idx.allMin[1], min[1])
		idx.allMax[0] = math.Max(idx.allMax[0], max[0])
		idx.allMax[1] = math.Max(idx.allMax[1], max[1])
	}
	idx.nextOrd++
	idx.tr.Insert(min, max, item)
}

// Len returns the number of items in the index.
func (idx *Index) Len() int {
	return idx.tr.Len()
}

func boxOf(geom orb.Geometry) (min, max [2]float64) {
	b := geom.Bound()
	return [2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}
}

// candidate is a scored item during a nearest/within scan.
type candidate struct {
	item *Item
	dist float64
}

// Nearest returns the k nearest indexed items to query (a Point or
// LineString), ordered by increasing distance. Ties are broken by
// insertion order (stable): an item inserted earlier sorts first.
func (idx *Index) Nearest(query orb.Geometry, k int) []*Item {
	if k <= 0 || idx.tr.Len() == 0 {
		return nil
	}

	candidates := idx.scanAll(query)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].item.order < candidates[j].item.order
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]*Item, k)
	for i := 0; i < k; i++ {
		out[i] = candidates[i].item
	}
	return out
}

// Within returns every indexed item whose distance to query is at most
// distanceM.
func (idx *Index) Within(query orb.Geometry, distanceM float64) []*Item {
	candidates := idx.scanAll(query)
	var out []*Item
	for _, c := range candidates {
		if c.dist <= distanceM {
			out = append(out, c.item)
		}
	}
	return out
}

// scanAll computes the exact planar distance from query to every indexed
// item, using the R-tree to enumerate candidates over the index's full
// extent in one pass.
func (idx *Index) scanAll(query orb.Geometry) []candidate {
	var candidates []candidate

	idx.tr.Search(
		idx.allMin, idx.allMax,
		func(min, max [2]float64, data any) bool {
			item := data.(*Item)
			candidates = append(candidates, candidate{item: item, dist: Distance(query, item.Geom)})
			return true
		},
	)

	return candidates
}
