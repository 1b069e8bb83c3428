// Package testutil provides deterministic graph generators and shared
// assertions for engine tests. All generators produce stable output
// for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/tracelens/lineview/pkg/model"
)

// Node is a shorthand constructor with default dimensions and a
// transform kind.
func Node(id string, x, y float64) model.Node {
	return model.Node{
		ID:   id,
		Kind: model.KindTransform,
		X:    x,
		Y:    y,
		W:    model.DefaultNodeWidth,
		H:    model.DefaultNodeHeight,
	}
}

// Edge is a shorthand edge constructor with a derived id.
func Edge(source, target string) model.Edge {
	return model.Edge{
		ID:     source + "->" + target,
		Source: source,
		Target: target,
	}
}

// TightGroup lays n nodes in a small blob around (cx, cy), each within
// spread units of the center. Deterministic placement along a circle.
func TightGroup(prefix string, n int, cx, cy, spread float64) []model.Node {
	nodes := make([]model.Node, 0, n)
	for i := 0; i < n; i++ {
		// Offsets cycle through a few fixed points inside the spread.
		dx := spread * float64(i%3) / 3
		dy := spread * float64((i+1)%3) / 3
		nodes = append(nodes, Node(fmt.Sprintf("%s-%d", prefix, i), cx+dx, cy+dy))
	}
	return nodes
}

// GridGraph produces rows*cols nodes on a regular grid with the given
// spacing, plus edges connecting each node to its right neighbor.
func GridGraph(rows, cols int, spacing float64) *model.Graph {
	g := &model.Graph{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Nodes = append(g.Nodes, Node(fmt.Sprintf("n-%d-%d", r, c),
				float64(c)*spacing, float64(r)*spacing))
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			g.Edges = append(g.Edges, Edge(
				fmt.Sprintf("n-%d-%d", r, c),
				fmt.Sprintf("n-%d-%d", r, c+1)))
		}
	}
	return g
}

// ClusterScenario is the canonical clustering fixture: two tight
// groups (5 and 4 nodes, each within distance 10 of their neighbors)
// plus 3 isolated nodes roughly 500 units apart from everything.
func ClusterScenario() []model.Node {
	var nodes []model.Node
	nodes = append(nodes, TightGroup("a", 5, 0, 0, 9)...)
	nodes = append(nodes, TightGroup("b", 4, 1000, 0, 9)...)
	nodes = append(nodes,
		Node("iso-0", 500, 500),
		Node("iso-1", 500, 1000),
		Node("iso-2", 500, 1500),
	)
	return nodes
}

// RandomNodes scatters n nodes uniformly in the given extent using a
// fixed seed so every run sees the same placement.
func RandomNodes(n int, extent float64, seed int64) []model.Node {
	rng := rand.New(rand.NewSource(seed))
	nodes := make([]model.Node, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, Node(fmt.Sprintf("r-%d", i),
			rng.Float64()*extent, rng.Float64()*extent))
	}
	return nodes
}

// LineageChain builds a source -> transforms -> sink pipeline with n
// stages spaced horizontally.
func LineageChain(n int, spacing float64) *model.Graph {
	g := &model.Graph{}
	for i := 0; i < n; i++ {
		node := Node(fmt.Sprintf("stage-%d", i), float64(i)*spacing, 0)
		switch {
		case i == 0:
			node.Kind = model.KindSource
		case i == n-1:
			node.Kind = model.KindSink
		}
		g.Nodes = append(g.Nodes, node)
		if i > 0 {
			g.Edges = append(g.Edges, Edge(fmt.Sprintf("stage-%d", i-1), node.ID))
		}
	}
	return g
}
