// Package model defines the graph entities consumed by the rendering
// engine: nodes, edges, and the geometric primitives shared by the
// viewport, clustering, and culling packages.
//
// The engine only ever reads this data. The host UI owns the collection
// and is responsible for triggering a recomputation after mutating it.
package model

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// NodeKind classifies a lineage node. The painter maps kinds to shapes
// and colors; the engine's geometry code never branches on it.
type NodeKind string

const (
	KindSource    NodeKind = "source"
	KindTransform NodeKind = "transform"
	KindSink      NodeKind = "sink"
)

// Valid reports whether k is one of the known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindSource, KindTransform, KindSink:
		return true
	}
	return false
}

// Default node box size in scene units, used when the data source does
// not supply one.
const (
	DefaultNodeWidth  = 160.0
	DefaultNodeHeight = 60.0
)

// Node is a single lineage node. X and Y are the center of the node in
// scene space; W and H are a fixed approximate bounding size used for
// all geometric computations. Label is an opaque payload relayed to the
// painter untouched.
type Node struct {
	ID    string          `json:"id"`
	Kind  NodeKind        `json:"kind"`
	X     float64         `json:"x"`
	Y     float64         `json:"y"`
	W     float64         `json:"w,omitempty"`
	H     float64         `json:"h,omitempty"`
	Label json.RawMessage `json:"label,omitempty"`
}

// Bounds returns the node's scene-space bounding box, centered on its
// position.
func (n Node) Bounds() Rect {
	w := n.W
	h := n.H
	if w <= 0 {
		w = DefaultNodeWidth
	}
	if h <= 0 {
		h = DefaultNodeHeight
	}
	return Rect{
		MinX: n.X - w/2,
		MinY: n.Y - h/2,
		MaxX: n.X + w/2,
		MaxY: n.Y + h/2,
	}
}

// Center returns the node position as a Point.
func (n Node) Center() Point {
	return Point{X: n.X, Y: n.Y}
}

// Validate checks the node for structural problems.
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node has empty id")
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
	}
	return nil
}

// Edge is a directed connection between two nodes. Type is an opaque
// tag relayed to the painter.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// Validate checks the edge for structural problems.
func (e Edge) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("edge has empty id")
	}
	if e.Source == "" || e.Target == "" {
		return fmt.Errorf("edge %s: missing endpoint", e.ID)
	}
	return nil
}

// Graph is the full node/edge collection owned by the host UI.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeLookup builds an id -> node index for the current node set.
// Pointers reference the graph's backing slice, so the map stays valid
// only as long as Nodes is not reallocated.
func (g *Graph) NodeLookup() map[string]*Node {
	lookup := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		lookup[g.Nodes[i].ID] = &g.Nodes[i]
	}
	return lookup
}

// DropDanglingEdges removes edges whose endpoints are not present in
// the node set and returns how many were dropped. Dangling edges are a
// data-quality issue in the upstream source, not a rendering fault.
func (g *Graph) DropDanglingEdges() int {
	ids := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		ids[g.Nodes[i].ID] = true
	}
	kept := g.Edges[:0]
	dropped := 0
	for _, e := range g.Edges {
		if ids[e.Source] && ids[e.Target] {
			kept = append(kept, e)
		} else {
			dropped++
		}
	}
	g.Edges = kept
	return dropped
}

// Positions returns the current scene position of every node, for
// handing to a position persistence sink.
func (g *Graph) Positions() map[string]Point {
	out := make(map[string]Point, len(g.Nodes))
	for i := range g.Nodes {
		out[g.Nodes[i].ID] = g.Nodes[i].Center()
	}
	return out
}
