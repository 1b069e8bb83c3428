package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/tracelens/lineview/pkg/model"
)

// Result is the output of one clustering pass.
type Result struct {
	Clusters   []Cluster
	Standalone []model.Node
}

// gridKey addresses a coarse spatial bucket of cell size equal to the
// cluster distance, so all candidates within range of a node live in
// its 3x3 neighborhood.
type gridKey struct {
	cx, cy int
}

// Partition groups nodes whose pairwise-within-distance closure has
// two or more members. Nodes are processed in input order and the
// partition is stable for a fixed node list and distance: every node
// lands in exactly one cluster or in Standalone, and no two standalone
// nodes are within distance of each other.
//
// A non-positive or non-finite distance is a caller bug and fails
// fast.
func Partition(nodes []model.Node, distance float64) (Result, error) {
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return Result{}, fmt.Errorf("cluster distance must be a positive finite number, got %v", distance)
	}

	var res Result
	if len(nodes) < 2 {
		res.Standalone = append(res.Standalone, nodes...)
		return res, nil
	}

	grid := make(map[gridKey][]int, len(nodes))
	for i, n := range nodes {
		k := gridKey{int(math.Floor(n.X / distance)), int(math.Floor(n.Y / distance))}
		grid[k] = append(grid[k], i)
	}

	// Union-find over the within-threshold relation. Only neighbor
	// buckets are consulted, keeping the pass near-linear for spread
	// graphs.
	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Root at the lower input index, so component representatives
		// are deterministic.
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	for i, n := range nodes {
		cx := int(math.Floor(n.X / distance))
		cy := int(math.Floor(n.Y / distance))
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[gridKey{cx + dx, cy + dy}] {
					if j <= i {
						continue
					}
					if n.Center().Dist(nodes[j].Center()) <= distance {
						union(i, j)
					}
				}
			}
		}
	}

	// Collect components in order of their first member's input index.
	componentOf := make(map[int][]int, len(nodes))
	var roots []int
	for i := range nodes {
		r := find(i)
		if _, seen := componentOf[r]; !seen {
			roots = append(roots, r)
		}
		componentOf[r] = append(componentOf[r], i)
	}

	for _, r := range roots {
		members := componentOf[r]
		if len(members) < 2 {
			res.Standalone = append(res.Standalone, nodes[members[0]])
			continue
		}
		res.Clusters = append(res.Clusters, buildCluster(nodes, members))
	}
	return res, nil
}

func buildCluster(nodes []model.Node, members []int) Cluster {
	ids := make([]string, 0, len(members))
	var sx, sy, maxW, maxH float64
	for _, i := range members {
		n := nodes[i]
		ids = append(ids, n.ID)
		sx += n.X
		sy += n.Y
		b := n.Bounds()
		if w := b.Width(); w > maxW {
			maxW = w
		}
		if h := b.Height(); h > maxH {
			maxH = h
		}
	}
	c := Cluster{
		ID:       DeriveID(ids),
		Members:  ids,
		Centroid: model.Point{X: sx / float64(len(members)), Y: sy / float64(len(members))},
		W:        maxW,
		H:        maxH,
	}
	// Members are stored sorted so identity and display are stable
	// regardless of input order.
	sort.Strings(c.Members)
	return c
}
