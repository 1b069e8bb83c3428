package model

import (
	"testing"
)

func TestNodeBoundsCentered(t *testing.T) {
	n := Node{ID: "n", X: 100, Y: 50, W: 160, H: 60}
	b := n.Bounds()
	if b.MinX != 20 || b.MaxX != 180 || b.MinY != 20 || b.MaxY != 80 {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestNodeBoundsDefaultsSize(t *testing.T) {
	n := Node{ID: "n", X: 0, Y: 0}
	b := n.Bounds()
	if b.Width() != DefaultNodeWidth || b.Height() != DefaultNodeHeight {
		t.Errorf("zero-size node got %gx%g box", b.Width(), b.Height())
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{"valid", Node{ID: "n", Kind: KindSource}, false},
		{"empty id", Node{Kind: KindSource}, true},
		{"unknown kind", Node{ID: "n", Kind: "widget"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRectIntersectsInclusive(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	touching := Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}
	if !a.Intersects(touching) {
		t.Error("touching edges should intersect")
	}
	apart := Rect{MinX: 10.01, MinY: 0, MaxX: 20, MaxY: 10}
	if a.Intersects(apart) {
		t.Error("separated rects should not intersect")
	}
}

func TestRectExpand(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}.Expand(5)
	if r.MinX != -5 || r.MaxX != 15 {
		t.Errorf("Expand = %+v", r)
	}
}

func TestDropDanglingEdges(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a", Kind: KindSource}, {ID: "b", Kind: KindSink}},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "ghost"},
			{ID: "e3", Source: "ghost", Target: "b"},
		},
	}
	dropped := g.DropDanglingEdges()
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(g.Edges) != 1 || g.Edges[0].ID != "e1" {
		t.Errorf("surviving edges = %+v", g.Edges)
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Error("empty node set should report no bounds")
	}
	nodes := []Node{
		{ID: "a", X: 0, Y: 0, W: 10, H: 10},
		{ID: "b", X: 100, Y: 200, W: 10, H: 10},
	}
	b, ok := BoundsOf(nodes)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.MinX != -5 || b.MaxX != 105 || b.MinY != -5 || b.MaxY != 205 {
		t.Errorf("BoundsOf = %+v", b)
	}
}

func TestAssignDefaultPositionsLayersByDepth(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "src", Kind: KindSource},
			{ID: "mid", Kind: KindTransform},
			{ID: "out", Kind: KindSink},
		},
		Edges: []Edge{
			{ID: "e1", Source: "src", Target: "mid"},
			{ID: "e2", Source: "mid", Target: "out"},
		},
	}
	missing := map[string]bool{"src": true, "mid": true, "out": true}
	AssignDefaultPositions(g, missing)

	xs := map[string]float64{}
	for _, n := range g.Nodes {
		xs[n.ID] = n.X
	}
	if !(xs["src"] < xs["mid"] && xs["mid"] < xs["out"]) {
		t.Errorf("depth should order columns left to right: %+v", xs)
	}
}

func TestAssignDefaultPositionsKeepsPersisted(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "kept", Kind: KindSource, X: 123, Y: 456},
			{ID: "placed", Kind: KindSink},
		},
		Edges: []Edge{{ID: "e", Source: "kept", Target: "placed"}},
	}
	AssignDefaultPositions(g, map[string]bool{"placed": true})

	if g.Nodes[0].X != 123 || g.Nodes[0].Y != 456 {
		t.Errorf("persisted position was overwritten: %+v", g.Nodes[0])
	}
	if g.Nodes[1].X == 0 && g.Nodes[1].Y == 0 {
		// Depth 1 guarantees a non-zero column.
		t.Errorf("missing node was not placed: %+v", g.Nodes[1])
	}
}

func TestAssignDefaultPositionsCycleFallback(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Kind: KindTransform},
			{ID: "b", Kind: KindTransform},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "a"},
		},
	}
	AssignDefaultPositions(g, map[string]bool{"a": true, "b": true})
	// Cycles degrade to a single column: same X, distinct Y.
	if g.Nodes[0].X != g.Nodes[1].X {
		t.Errorf("cycle fallback should single-column: %g vs %g", g.Nodes[0].X, g.Nodes[1].X)
	}
	if g.Nodes[0].Y == g.Nodes[1].Y {
		t.Error("nodes stacked on the same row")
	}
}
