package paint

import (
	"image/color"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/tracelens/lineview/pkg/minimap"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// PNGPainter rasterizes a frame onto a gg context.
type PNGPainter struct {
	dc *gg.Context
}

// NewPNGPainter creates a painter over a fresh w x h canvas with the
// backdrop already cleared.
func NewPNGPainter(w, h int) *PNGPainter {
	dc := gg.NewContext(w, h)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return &PNGPainter{dc: dc}
}

// Context exposes the underlying gg context for overlays.
func (p *PNGPainter) Context() *gg.Context { return p.dc }

// SavePNG writes the canvas to disk.
func (p *PNGPainter) SavePNG(path string) error {
	return p.dc.SavePNG(path)
}

// PaintEdge draws one edge stroke with a small arrow head at the
// target end.
func (p *PNGPainter) PaintEdge(e EdgeLine) {
	dc := p.dc
	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
	dc.Stroke()

	// Arrow head oriented along the stroke.
	angle := math.Atan2(e.Y2-e.Y1, e.X2-e.X1)
	const sz = 7.0
	dc.NewSubPath()
	dc.MoveTo(e.X2, e.Y2)
	dc.LineTo(e.X2-sz*math.Cos(angle-0.4), e.Y2-sz*math.Sin(angle-0.4))
	dc.LineTo(e.X2-sz*math.Cos(angle+0.4), e.Y2-sz*math.Sin(angle+0.4))
	dc.ClosePath()
	dc.Fill()
}

// PaintNode draws one entity at the fidelity the engine assigned.
func (p *PNGPainter) PaintNode(b NodeBox) {
	switch b.Entity.Tier {
	case render.TierMinimal:
		p.paintDot(b)
	case render.TierSimplified:
		p.paintBox(b, false)
	default:
		p.paintBox(b, true)
	}
}

func (p *PNGPainter) paintDot(b NodeBox) {
	dc := p.dc
	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	dc.SetColor(p.fillFor(b))
	dc.DrawCircle(cx, cy, 3)
	dc.Fill()
}

func (p *PNGPainter) paintBox(b NodeBox, detailed bool) {
	dc := p.dc
	dc.SetColor(p.fillFor(b))
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 6)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.2)
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 6)
	dc.Stroke()

	if !detailed {
		return
	}
	dc.SetColor(colorText)
	if b.Entity.Kind == render.EntityCluster {
		label := truncate(b.Entity.Cluster.ID, 18)
		dc.DrawStringAnchored(label, b.X+8, b.Y+14, 0, 0.5)
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(clusterBadge(b.Entity.Cluster.Size()), b.X+8, b.Y+30, 0, 0.5)
		return
	}
	dc.DrawStringAnchored(truncate(b.Entity.Node.ID, 22), b.X+8, b.Y+14, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(string(b.Entity.Node.Kind), b.X+8, b.Y+30, 0, 0.5)
}

func (p *PNGPainter) fillFor(b NodeBox) color.RGBA {
	if b.Entity.Kind == render.EntityCluster {
		return colorCluster
	}
	return kindColor(b.Entity.Node.Kind)
}

// DrawMinimap renders the overview inset with the current view
// rectangle at the given canvas offset.
func (p *PNGPainter) DrawMinimap(proj minimap.Projection, frame Frame, vp viewport.Viewport, ox, oy float64) {
	dc := p.dc
	dc.SetColor(colorMinimapBG)
	dc.DrawRectangle(ox, oy, float64(proj.Width), float64(proj.Height))
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRectangle(ox, oy, float64(proj.Width), float64(proj.Height))
	dc.Stroke()

	for _, b := range frame.Nodes {
		pt := proj.Project(b.Entity.Center())
		dc.SetColor(p.fillFor(b))
		dc.DrawCircle(ox+pt.X, oy+pt.Y, 2)
		dc.Fill()
	}

	view := proj.ViewRect(vp)
	dc.SetColor(colorViewRect)
	dc.SetLineWidth(1)
	dc.DrawRectangle(ox+view.MinX, oy+view.MinY, view.Width(), view.Height())
	dc.Stroke()
}
