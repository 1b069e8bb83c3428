package model

import "math"

// Point is a position in either scene or screen space; which one is
// determined by context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle. A Rect with MaxX < MinX or
// MaxY < MinY is empty.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent, or 0 for empty rects.
func (r Rect) Width() float64 {
	if r.MaxX < r.MinX {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the vertical extent, or 0 for empty rects.
func (r Rect) Height() float64 {
	if r.MaxY < r.MinY {
		return 0
	}
	return r.MaxY - r.MinY
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Intersects reports whether r and o overlap. Touching edges count as
// an intersection so entities exactly on the view boundary still draw.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX &&
		r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Contains reports whether p lies inside r (boundary inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows the rectangle by m on every side. Negative m shrinks it.
func (r Rect) Expand(m float64) Rect {
	return Rect{
		MinX: r.MinX - m,
		MinY: r.MinY - m,
		MaxX: r.MaxX + m,
		MaxY: r.MaxY + m,
	}
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// BoundsOf returns the bounding box over all node positions. The second
// return is false when the node list is empty.
func BoundsOf(nodes []Node) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}
	b := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		b = b.Union(n.Bounds())
	}
	return b, true
}
