package model

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Gaps between placed nodes in scene units.
const (
	placementColGap = 80.0
	placementRowGap = 40.0
)

// AssignDefaultPositions places every node whose id appears in missing
// on a deterministic layered grid: columns follow dependency depth in
// topological order, rows fill in input order within a column. Nodes
// with persisted positions are left untouched.
//
// The layout is assigned once and then treated as persisted; this is
// not an automatic graph layout pass and never runs again for nodes
// that already have coordinates.
func AssignDefaultPositions(g *Graph, missing map[string]bool) {
	if len(missing) == 0 || len(g.Nodes) == 0 {
		return
	}

	depth := dependencyDepths(g)

	rows := make(map[int]int, 8)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		col := depth[n.ID]
		row := rows[col]
		rows[col] = row + 1
		if !missing[n.ID] {
			continue
		}
		n.X = float64(col) * (DefaultNodeWidth + placementColGap)
		n.Y = float64(row) * (DefaultNodeHeight + placementRowGap)
	}
}

// dependencyDepths returns, per node id, the length of the longest
// edge chain leading into it. Cyclic graphs fall back to depth 0 for
// every node, which degrades to a single-column grid in input order.
func dependencyDepths(g *Graph) map[string]int {
	depth := make(map[string]int, len(g.Nodes))

	idx := make(map[string]int64, len(g.Nodes))
	dg := simple.NewDirectedGraph()
	for i := range g.Nodes {
		id := int64(i)
		idx[g.Nodes[i].ID] = id
		dg.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		from, okF := idx[e.Source]
		to, okT := idx[e.Target]
		if !okF || !okT || from == to {
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	order, err := topo.Sort(dg)
	if err != nil {
		return depth
	}

	for _, gn := range order {
		id := g.Nodes[gn.ID()].ID
		preds := dg.To(gn.ID())
		for preds.Next() {
			pid := g.Nodes[preds.Node().ID()].ID
			if d := depth[pid] + 1; d > depth[id] {
				depth[id] = d
			}
		}
	}
	return depth
}
