package paint

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/tracelens/lineview/pkg/minimap"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// SVGPainter writes a frame as an SVG document.
type SVGPainter struct {
	canvas *svg.SVG
}

// NewSVGPainter starts a document of the given size with the backdrop
// filled. End must be called to close the document.
func NewSVGPainter(w io.Writer, width, height int) *SVGPainter {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	return &SVGPainter{canvas: canvas}
}

// End closes the SVG document.
func (p *SVGPainter) End() {
	p.canvas.End()
}

// PaintEdge draws one edge stroke with a simple arrow head.
func (p *SVGPainter) PaintEdge(e EdgeLine) {
	x1, y1 := int(e.X1), int(e.Y1)
	x2, y2 := int(e.X2), int(e.Y2)
	p.canvas.Line(x1, y1, x2, y2, fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorEdge)))
	p.canvas.Circle(x2, y2, 3, fmt.Sprintf("fill:%s", css(colorEdge)))
}

// PaintNode draws one entity at its assigned fidelity.
func (p *SVGPainter) PaintNode(b NodeBox) {
	x, y := int(b.X), int(b.Y)
	w, h := int(b.W), int(b.H)

	switch b.Entity.Tier {
	case render.TierMinimal:
		p.canvas.Circle(x+w/2, y+h/2, 3, fmt.Sprintf("fill:%s", css(p.fill(b))))
		return
	case render.TierSimplified:
		p.canvas.Roundrect(x, y, w, h, 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(p.fill(b)), css(colorStroke)))
		return
	}

	p.canvas.Roundrect(x, y, w, h, 6, 6,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(p.fill(b)), css(colorStroke)))
	if b.Entity.Kind == render.EntityCluster {
		p.canvas.Text(x+8, y+18, truncate(b.Entity.Cluster.ID, 18), textStyle(colorText))
		p.canvas.Text(x+8, y+34, clusterBadge(b.Entity.Cluster.Size()), textStyle(colorSubtle))
		return
	}
	p.canvas.Text(x+8, y+18, truncate(b.Entity.Node.ID, 22), textStyle(colorText))
	p.canvas.Text(x+8, y+34, string(b.Entity.Node.Kind), textStyle(colorSubtle))
}

// DrawMinimap renders the overview inset with the view rectangle.
func (p *SVGPainter) DrawMinimap(proj minimap.Projection, frame Frame, vp viewport.Viewport, ox, oy int) {
	p.canvas.Rect(ox, oy, proj.Width, proj.Height,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorMinimapBG), css(colorStroke)))
	for _, b := range frame.Nodes {
		pt := proj.Project(b.Entity.Center())
		p.canvas.Circle(ox+int(pt.X), oy+int(pt.Y), 2, fmt.Sprintf("fill:%s", css(p.fill(b))))
	}
	view := proj.ViewRect(vp)
	p.canvas.Rect(ox+int(view.MinX), oy+int(view.MinY), int(view.Width()), int(view.Height()),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorViewRect)))
}

func (p *SVGPainter) fill(b NodeBox) color.RGBA {
	if b.Entity.Kind == render.EntityCluster {
		return colorCluster
	}
	return kindColor(b.Entity.Node.Kind)
}

func textStyle(c color.RGBA) string {
	return fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(c))
}
