// Package minimap projects the full graph into a fixed-size overview
// box and translates clicks on it into viewport navigation.
//
// The projection is uniform and never upscales: a sparse three-node
// graph draws small rather than stretched.
package minimap

import (
	"errors"
	"math"

	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/viewport"
)

// ErrEmptyGraph means there is nothing to project.
var ErrEmptyGraph = errors.New("minimap: empty node set")

// DefaultPadding is the scene-space border added around the graph
// bounds before fitting.
const DefaultPadding = 40.0

// Projection maps scene coordinates into the minimap's pixel box.
type Projection struct {
	// Bounds is the padded scene-space bounding box being projected.
	Bounds model.Rect
	// Scale is the uniform scene-to-minimap factor, capped at 1.
	Scale float64
	// Width and Height are the minimap pixel dimensions.
	Width, Height int
	// offX and offY center the scaled graph inside the box.
	offX, offY float64
}

// New fits the bounding box of all node positions, plus padding, into
// a w x h pixel box using min(scaleX, scaleY, 1).
func New(nodes []model.Node, w, h int, padding float64) (Projection, error) {
	bounds, ok := model.BoundsOf(nodes)
	if !ok {
		return Projection{}, ErrEmptyGraph
	}
	if padding < 0 {
		padding = DefaultPadding
	}
	bounds = bounds.Expand(padding)

	scale := math.Min(float64(w)/bounds.Width(), float64(h)/bounds.Height())
	if scale > 1 {
		scale = 1
	}
	p := Projection{
		Bounds: bounds,
		Scale:  scale,
		Width:  w,
		Height: h,
	}
	p.offX = (float64(w) - bounds.Width()*scale) / 2
	p.offY = (float64(h) - bounds.Height()*scale) / 2
	return p, nil
}

// Project converts a scene point into minimap pixel coordinates.
func (p Projection) Project(scene model.Point) model.Point {
	return model.Point{
		X: (scene.X-p.Bounds.MinX)*p.Scale + p.offX,
		Y: (scene.Y-p.Bounds.MinY)*p.Scale + p.offY,
	}
}

// Unproject converts minimap pixel coordinates back into scene space.
func (p Projection) Unproject(px model.Point) model.Point {
	return model.Point{
		X: (px.X-p.offX)/p.Scale + p.Bounds.MinX,
		Y: (px.Y-p.offY)/p.Scale + p.Bounds.MinY,
	}
}

// ViewRect returns the minimap-pixel rectangle covering the viewport's
// currently visible scene region, via the forward projection of its
// corners.
func (p Projection) ViewRect(vp viewport.Viewport) model.Rect {
	visible := vp.VisibleRect()
	tl := p.Project(model.Point{X: visible.MinX, Y: visible.MinY})
	br := p.Project(model.Point{X: visible.MaxX, Y: visible.MaxY})
	return model.Rect{MinX: tl.X, MinY: tl.Y, MaxX: br.X, MaxY: br.Y}
}

// Navigate translates a click at minimap pixel coordinates into a new
// viewport centered on the clicked scene point, preserving zoom.
func (p Projection) Navigate(click model.Point, vp viewport.Viewport) viewport.Viewport {
	return vp.CenterOn(p.Unproject(click))
}
