package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank, over arbitrary int keys rather than a dense 0..n-1
// range — vertex ids assigned by the Clusterer are not contiguous until
// after clustering finishes.
type UnionFind struct {
	parent map[int]int
	rank   map[int]byte
	size   map[int]uint32
}

// NewUnionFind creates an empty UnionFind; sets are created lazily on
// first use of a key.
func NewUnionFind() *UnionFind {
	return &UnionFind{
		parent: make(map[int]int),
		rank:   make(map[int]byte),
		size:   make(map[int]uint32),
	}
}

func (uf *UnionFind) ensure(x int) {
	if _, ok := uf.parent[x]; !ok {
		uf.parent[x] = x
		uf.size[x] = 1
	}
}

// Find returns the representative of the set containing x, with path
// halving. x is implicitly added as its own singleton set if unseen.
func (uf *UnionFind) Find(x int) int {
	uf.ensure(x)
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already the
// same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node ids belonging to the largest weakly
// connected component of g, treating every edge pair as undirected. The
// preparation pipeline calls this after edge building to drop
// unreachable fragments (disconnected service roads, parking-lot
// slivers) before the graph is published.
func LargestComponent(g *Graph) []int {
	if len(g.Nodes) == 0 {
		return nil
	}

	uf := NewUnionFind()
	for id := range g.Nodes {
		uf.ensure(id)
	}
	for eid := range g.Edges {
		if eid.Key == Forward {
			uf.Union(eid.U, eid.V)
		}
	}

	sizes := make(map[int]uint32)
	bestRoot, bestSize := -1, uint32(0)
	for id := range g.Nodes {
		root := uf.Find(id)
		sizes[root]++
		if sizes[root] > bestSize {
			bestRoot, bestSize = root, sizes[root]
		}
	}

	nodes := make([]int, 0, bestSize)
	for id := range g.Nodes {
		if uf.Find(id) == bestRoot {
			nodes = append(nodes, id)
		}
	}
	return nodes
}

// FilterToNodes returns a new Graph containing only the given node ids
// and the edges whose endpoints both survive, sharing g's Projector.
func FilterToNodes(g *Graph, nodes []int) *Graph {
	out := New(g.Projector)

	keep := make(map[int]bool, len(nodes))
	for _, id := range nodes {
		keep[id] = true
		n := *g.Nodes[id]
		out.Nodes[id] = &n
	}

	for eid, e := range g.Edges {
		if keep[eid.U] && keep[eid.V] {
			cp := *e
			out.Edges[eid] = &cp
		}
	}

	return out
}
