package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracelens/lineview/pkg/config"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/testutil"
)

func newTestModel(t *testing.T, nodes []model.Node, edges []model.Edge) Model {
	t.Helper()
	m := New(&model.Graph{Nodes: nodes, Edges: edges}, config.DefaultConfig())
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWindowSizeTriggersRecompute(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)
	if len(m.rs.Entities) != 1 {
		t.Fatalf("resize did not recompute: %d entities", len(m.rs.Entities))
	}
	if m.vp.Width != 80 || m.vp.Height != 22 {
		t.Errorf("viewport = %gx%g, want 80x22 (two status rows reserved)", m.vp.Width, m.vp.Height)
	}
}

func TestZoomKeysChangeZoom(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)
	before := m.vp.Zoom

	next, cmd := m.Update(keyMsg("+"))
	m = next.(Model)
	if m.vp.Zoom <= before {
		t.Errorf("zoom in did not increase zoom: %g -> %g", before, m.vp.Zoom)
	}
	if cmd == nil {
		t.Error("gesture should schedule a recompute")
	}

	next, _ = m.Update(keyMsg("-"))
	m = next.(Model)
	if m.vp.Zoom >= before*zoomStep {
		t.Errorf("zoom out did not decrease zoom: %g", m.vp.Zoom)
	}
}

func TestZoomKeysClampToHostRange(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)

	// Hammering zoom-in must saturate, not run the zoom to infinity.
	for i := 0; i < 200; i++ {
		next, _ := m.Update(keyMsg("+"))
		m = next.(Model)
	}
	if m.vp.Zoom > maxZoom {
		t.Fatalf("zoom ran past the host cap: %g", m.vp.Zoom)
	}

	for i := 0; i < 400; i++ {
		next, _ := m.Update(keyMsg("-"))
		m = next.(Model)
	}
	if m.vp.Zoom < minZoom {
		t.Fatalf("zoom ran past the host floor: %g", m.vp.Zoom)
	}
}

func TestMinimapOverlayExtremeZoomOut(t *testing.T) {
	// Zoomed far out the projected view rectangle dwarfs the overlay;
	// the border loops must clip to the overlay grid.
	m := newTestModel(t, testutil.ClusterScenario(), nil)
	m.vp.Zoom = 1e-6
	m.minimapMode = true

	lines := renderCanvas(m.rs, m.vp, m.width, m.height-2, "")
	out := m.overlayMinimap(lines)
	if len(out) != len(lines) {
		t.Fatalf("overlay changed line count: %d -> %d", len(lines), len(out))
	}
	for i, l := range out {
		if len([]rune(l)) != m.width {
			t.Errorf("line %d is %d runes wide, want %d", i, len([]rune(l)), m.width)
		}
	}
}

func TestPanKeysMoveViewport(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)
	x := m.vp.X
	next, _ := m.Update(keyMsg("left"))
	m = next.(Model)
	if m.vp.X == x {
		t.Error("pan key did not move the viewport")
	}
}

func TestGestureCoalescing(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)

	next, cmd1 := m.Update(keyMsg("+"))
	m = next.(Model)
	if cmd1 == nil {
		t.Fatal("first gesture should arm the timer")
	}
	next, cmd2 := m.Update(keyMsg("+"))
	m = next.(Model)
	if cmd2 != nil {
		t.Error("second gesture inside the window should coalesce")
	}

	// The settle message runs exactly one pass and disarms.
	next, _ = m.Update(recomputeMsg{})
	m = next.(Model)
	if m.dirty || m.pending {
		t.Error("settle left the model dirty or pending")
	}
}

func TestClusterToggleOverridesRecommendation(t *testing.T) {
	m := newTestModel(t, testutil.ClusterScenario(), nil)
	if m.clusteringEnabled() {
		t.Fatal("12 nodes should not cluster by recommendation")
	}
	next, _ := m.Update(keyMsg("c"))
	m = next.(Model)
	if !m.clusteringEnabled() {
		t.Error("manual toggle should force clustering on")
	}
	if !strings.Contains(m.status, "clustering on") {
		t.Errorf("status = %q", m.status)
	}
}

func TestExpandToggleOnCluster(t *testing.T) {
	m := newTestModel(t, testutil.ClusterScenario(), nil)
	on := true
	m.clustersOn = &on
	m.recompute()

	// Select the first cluster entity.
	found := false
	for i, e := range m.rs.Entities {
		if e.Kind == render.EntityCluster {
			m.selected = i
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no cluster entity in the render set")
	}
	id := m.rs.Entities[m.selected].ID()

	next, _ := m.Update(keyMsg("e"))
	m = next.(Model)
	if !m.expanded.Has(id) {
		t.Error("expand key did not toggle the selected cluster")
	}
}

func TestGraphReload(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("old", 40, 10)}, nil)

	next, _ := m.Update(GraphReloadedMsg{Graph: &model.Graph{
		Nodes: []model.Node{
			testutil.Node("new-a", 40, 10),
			testutil.Node("new-b", 50, 12),
		},
	}})
	m = next.(Model)
	if len(m.graph.Nodes) != 2 {
		t.Fatalf("graph not swapped: %d nodes", len(m.graph.Nodes))
	}
	ids := m.rs.VisibleIDs()
	if ids["old"] || !ids["new-a"] {
		t.Errorf("render set not recomputed after reload: %v", ids)
	}
}

func TestViewRendersStatusBar(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)
	out := m.View()
	if !strings.Contains(out, "zoom") {
		t.Error("status bar missing zoom readout")
	}
	if !strings.Contains(out, "entities") {
		t.Error("status bar missing entity counts")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, []model.Node{testutil.Node("n", 40, 10)}, nil)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
}
