// Package viewport models the pan/zoom transform between the graph's
// scene space and the pixel coordinates of the rendering surface.
//
// The transform is:
//
//	screen = (scene - pan) * zoom
//
// where pan (X, Y) is the scene point that sits at the screen origin.
// All conversions are pure functions of the current Viewport value.
package viewport

import (
	"errors"
	"math"

	"github.com/tracelens/lineview/pkg/model"
)

// ErrInvalidViewport flags a viewport with zoom <= 0 or non-finite
// pan/zoom values. Callers recover by keeping the last known-good
// viewport; the error never propagates as a fatal condition.
var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport is the current pan/zoom transform plus surface size.
// X and Y are the scene coordinates of the screen origin, Zoom scales
// scene units to screen pixels, Width and Height are the surface size
// in pixels.
type Viewport struct {
	X, Y   float64
	Zoom   float64
	Width  float64
	Height float64
}

// New returns a viewport at the scene origin with 1:1 zoom.
func New(width, height float64) Viewport {
	return Viewport{Zoom: 1, Width: width, Height: height}
}

// Validate reports ErrInvalidViewport for degenerate zoom or
// non-finite pan/zoom values.
func (v Viewport) Validate() error {
	if v.Zoom <= 0 ||
		math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) ||
		math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
		math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return ErrInvalidViewport
	}
	return nil
}

// Sanitize returns next if it is valid, otherwise the last known-good
// viewport along with ErrInvalidViewport so the caller can surface a
// warning.
func Sanitize(lastGood, next Viewport) (Viewport, error) {
	if err := next.Validate(); err != nil {
		return lastGood, err
	}
	return next, nil
}

// SceneToScreen converts a scene point to surface pixels.
func (v Viewport) SceneToScreen(p model.Point) model.Point {
	return model.Point{
		X: (p.X - v.X) * v.Zoom,
		Y: (p.Y - v.Y) * v.Zoom,
	}
}

// ScreenToScene converts a surface pixel position to scene space.
func (v Viewport) ScreenToScene(p model.Point) model.Point {
	return model.Point{
		X: p.X/v.Zoom + v.X,
		Y: p.Y/v.Zoom + v.Y,
	}
}

// SceneRectToScreen transforms a scene rectangle into screen space.
func (v Viewport) SceneRectToScreen(r model.Rect) model.Rect {
	min := v.SceneToScreen(model.Point{X: r.MinX, Y: r.MinY})
	max := v.SceneToScreen(model.Point{X: r.MaxX, Y: r.MaxY})
	return model.Rect{MinX: min.X, MinY: min.Y, MaxX: max.X, MaxY: max.Y}
}

// VisibleRect returns the scene-space rectangle currently covered by
// the surface, computed by inverse-transforming the screen corners.
func (v Viewport) VisibleRect() model.Rect {
	tl := v.ScreenToScene(model.Point{X: 0, Y: 0})
	br := v.ScreenToScene(model.Point{X: v.Width, Y: v.Height})
	return model.Rect{MinX: tl.X, MinY: tl.Y, MaxX: br.X, MaxY: br.Y}
}

// Pan shifts the view by a screen-space delta (e.g. a pointer drag).
// Dragging content right means the viewport origin moves left in scene
// space, hence the subtraction.
func (v Viewport) Pan(dxScreen, dyScreen float64) Viewport {
	v.X -= dxScreen / v.Zoom
	v.Y -= dyScreen / v.Zoom
	return v
}

// ZoomAt multiplies the zoom by factor while keeping the scene point
// under the given screen anchor fixed. Invalid results (factor <= 0,
// overflow to non-finite) leave the viewport unchanged.
func (v Viewport) ZoomAt(anchor model.Point, factor float64) Viewport {
	next := v
	next.Zoom = v.Zoom * factor
	if next.Validate() != nil {
		return v
	}
	// Re-anchor: the scene point under the cursor must not move.
	scene := v.ScreenToScene(anchor)
	next.X = scene.X - anchor.X/next.Zoom
	next.Y = scene.Y - anchor.Y/next.Zoom
	return next
}

// CenterOn pans so that the given scene point sits at the middle of
// the surface, preserving zoom.
func (v Viewport) CenterOn(scene model.Point) Viewport {
	v.X = scene.X - v.Width/(2*v.Zoom)
	v.Y = scene.Y - v.Height/(2*v.Zoom)
	return v
}

// Resize updates the surface dimensions, leaving pan and zoom alone.
func (v Viewport) Resize(width, height float64) Viewport {
	v.Width = width
	v.Height = height
	return v
}
