package minimap

import (
	"errors"
	"math"
	"testing"

	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/testutil"
	"github.com/tracelens/lineview/pkg/viewport"
)

func TestNewEmptyGraph(t *testing.T) {
	_, err := New(nil, 200, 150, DefaultPadding)
	if !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("err = %v, want ErrEmptyGraph", err)
	}
}

func TestScaleNeverUpscales(t *testing.T) {
	// Three nodes in a tiny area: scale caps at 1 rather than
	// stretching to fill the box.
	nodes := []model.Node{
		testutil.Node("a", 0, 0),
		testutil.Node("b", 10, 10),
		testutil.Node("c", 5, 20),
	}
	p, err := New(nodes, 2000, 2000, DefaultPadding)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Scale != 1 {
		t.Errorf("Scale = %g, want capped at 1", p.Scale)
	}
}

func TestScaleFitsLargeGraph(t *testing.T) {
	nodes := []model.Node{
		testutil.Node("a", 0, 0),
		testutil.Node("b", 10000, 5000),
	}
	p, err := New(nodes, 200, 150, DefaultPadding)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Scale >= 1 {
		t.Fatalf("Scale = %g, want < 1 for a large graph", p.Scale)
	}
	// Every projected node must land inside the box.
	for _, n := range nodes {
		pt := p.Project(n.Center())
		if pt.X < 0 || pt.X > float64(p.Width) || pt.Y < 0 || pt.Y > float64(p.Height) {
			t.Errorf("node %s projects outside the box: %v", n.ID, pt)
		}
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	nodes := testutil.RandomNodes(20, 5000, 3)
	p, err := New(nodes, 200, 150, DefaultPadding)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, n := range nodes {
		back := p.Unproject(p.Project(n.Center()))
		if math.Abs(back.X-n.X) > 1e-6 || math.Abs(back.Y-n.Y) > 1e-6 {
			t.Errorf("round trip drifted for %s: (%g,%g) -> (%g,%g)", n.ID, n.X, n.Y, back.X, back.Y)
		}
	}
}

func TestNavigateCentersPreservingZoom(t *testing.T) {
	nodes := []model.Node{
		testutil.Node("a", 0, 0),
		testutil.Node("b", 4000, 3000),
	}
	p, err := New(nodes, 200, 150, DefaultPadding)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vp := viewport.Viewport{Zoom: 1.5, Width: 800, Height: 600}

	click := p.Project(model.Point{X: 2000, Y: 1500})
	moved := p.Navigate(click, vp)
	if moved.Zoom != vp.Zoom {
		t.Errorf("Navigate changed zoom: %g", moved.Zoom)
	}
	center := moved.ScreenToScene(model.Point{X: 400, Y: 300})
	testutil.AssertPointNear(t, center, model.Point{X: 2000, Y: 1500}, 1e-6)
}

func TestViewRectTracksViewport(t *testing.T) {
	nodes := []model.Node{
		testutil.Node("a", 0, 0),
		testutil.Node("b", 4000, 3000),
	}
	p, err := New(nodes, 200, 150, DefaultPadding)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vp := viewport.Viewport{X: 1000, Y: 1000, Zoom: 1, Width: 800, Height: 600}
	r := p.ViewRect(vp)
	tl := p.Project(model.Point{X: 1000, Y: 1000})
	testutil.AssertFloatNear(t, r.MinX, tl.X, 1e-9)
	testutil.AssertFloatNear(t, r.MinY, tl.Y, 1e-9)
	testutil.AssertFloatNear(t, r.Width(), 800*p.Scale, 1e-9)
	testutil.AssertFloatNear(t, r.Height(), 600*p.Scale, 1e-9)
}
