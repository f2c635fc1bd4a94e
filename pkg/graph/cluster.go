package graph

import (
	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
	"github.com/azybler/georoute/pkg/spatial"
)

// ClusterPoints snaps near-duplicate coordinates together: any two points
// within thresholdMeters of one another (transitively, via UnionFind) are
// replaced by a single representative at their centroid. It returns the
// representative points (one per cluster, in arbitrary order) and, for
// each input point, the index into that slice it was assigned to.
//
// Clustering is applied twice in succession by callers (as the reference
// preparation pipeline does), since merging two points can shift a
// centroid close enough to absorb a third that wasn't within threshold
// of either original point.
func ClusterPoints(points []orb.Point, proj *geo.Projector, thresholdMeters float64) ([]orb.Point, []int) {
	if len(points) == 0 {
		return nil, nil
	}

	metric := make([]orb.Point, len(points))
	idx := spatial.New()
	for i, p := range points {
		metric[i] = proj.ToMetric(p)
		idx.Insert(metric[i], i)
	}

	uf := NewUnionFind()
	for i, mp := range metric {
		uf.ensure(i)
		for _, hit := range idx.Within(mp, thresholdMeters) {
			j := hit.Data.(int)
			if j != i {
				uf.Union(i, j)
			}
		}
	}

	sumX := make(map[int]float64)
	sumY := make(map[int]float64)
	count := make(map[int]int)
	for i, mp := range metric {
		root := uf.Find(i)
		sumX[root] += mp[0]
		sumY[root] += mp[1]
		count[root]++
	}

	clusterIdx := make(map[int]int, len(count))
	var reps []orb.Point
	for i := range points {
		root := uf.Find(i)
		if _, ok := clusterIdx[root]; ok {
			continue
		}
		n := float64(count[root])
		centroidMetric := orb.Point{sumX[root] / n, sumY[root] / n}
		clusterIdx[root] = len(reps)
		reps = append(reps, proj.ToGeographic(centroidMetric))
	}

	assignment := make([]int, len(points))
	for i := range points {
		assignment[i] = clusterIdx[uf.Find(i)]
	}

	return reps, assignment
}

// ClusterPointsTwice runs ClusterPoints twice in succession, feeding the
// first pass's representative points back in as input. This is what the
// Vertex Clusterer actually calls: a single pass can leave two points
// each just outside threshold of the other but both within threshold of
// a centroid that formed between them.
func ClusterPointsTwice(points []orb.Point, proj *geo.Projector, thresholdMeters float64) ([]orb.Point, []int) {
	pass1Reps, pass1Assign := ClusterPoints(points, proj, thresholdMeters)
	pass2Reps, pass2Assign := ClusterPoints(pass1Reps, proj, thresholdMeters)

	final := make([]int, len(points))
	for i, a := range pass1Assign {
		final[i] = pass2Assign[a]
	}
	return pass2Reps, final
}
