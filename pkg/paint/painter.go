// Package paint turns a computed RenderSet into pixels.
//
// The engine decides what to draw and at what fidelity; this package
// owns how. The Painter interface is the contract a drawing backend
// implements, and the package ships two reference backends: a PNG
// rasterizer and an SVG writer.
package paint

import (
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/perf"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// NodeBox is one entity placed in screen space.
type NodeBox struct {
	Entity     render.Entity
	X, Y, W, H float64 // screen-space box, X/Y top-left
}

// EdgeLine is one edge stroke in screen space, endpoint centers
// already resolved (post cluster remap).
type EdgeLine struct {
	Edge           model.Edge
	X1, Y1, X2, Y2 float64
}

// Painter renders placed entities and edge strokes. Implementations
// receive the LOD tier on each entity and choose their own level of
// drawn detail; they never decide visibility.
type Painter interface {
	PaintEdge(e EdgeLine)
	PaintNode(b NodeBox)
}

// Frame is a RenderSet resolved into screen space, ready for any
// Painter.
type Frame struct {
	Nodes  []NodeBox
	Edges  []EdgeLine
	Width  int
	Height int
}

// BuildFrame projects a RenderSet through the viewport into screen
// coordinates.
func BuildFrame(rs render.RenderSet, vp viewport.Viewport) Frame {
	f := Frame{
		Nodes:  make([]NodeBox, 0, len(rs.Entities)),
		Edges:  make([]EdgeLine, 0, len(rs.Edges)),
		Width:  int(vp.Width),
		Height: int(vp.Height),
	}

	centers := make(map[string]model.Point, len(rs.Entities))
	for _, e := range rs.Entities {
		box := vp.SceneRectToScreen(e.Bounds())
		f.Nodes = append(f.Nodes, NodeBox{
			Entity: e,
			X:      box.MinX,
			Y:      box.MinY,
			W:      box.Width(),
			H:      box.Height(),
		})
		centers[e.ID()] = box.Center()
	}

	for _, edge := range rs.Edges {
		from, okF := centers[edge.Source]
		to, okT := centers[edge.Target]
		if !okF || !okT {
			continue
		}
		f.Edges = append(f.Edges, EdgeLine{
			Edge: edge,
			X1:   from.X, Y1: from.Y,
			X2: to.X, Y2: to.Y,
		})
	}
	return f
}

// PaintFrame hands a frame to a painter, edges beneath nodes.
func PaintFrame(p Painter, f Frame) {
	defer perf.Timer(perf.PaintFrame)()
	for _, e := range f.Edges {
		p.PaintEdge(e)
	}
	for _, n := range f.Nodes {
		p.PaintNode(n)
	}
}
