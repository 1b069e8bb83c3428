package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tracelens/lineview/pkg/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBasicGraph(t *testing.T) {
	path := writeFile(t, "graph.json", `{
		"nodes": [
			{"id": "src", "nodeKind": "source", "x": 0, "y": 0},
			{"id": "out", "nodeKind": "sink", "x": 300, "y": 0, "w": 200, "h": 80}
		],
		"edges": [
			{"id": "e1", "sourceNodeId": "src", "targetNodeId": "out"}
		]
	}`)

	g, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertNodeCount(t, g.Nodes, 2)
	testutil.AssertNoDuplicateIDs(t, g.Nodes)
	if stats.Edges != 1 || stats.DanglingDropped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if g.Nodes[1].W != 200 || g.Nodes[1].H != 80 {
		t.Errorf("explicit size lost: %+v", g.Nodes[1])
	}
	if g.Nodes[0].W == 0 {
		t.Error("default size not applied")
	}
}

func TestLoadPlacesNullPositions(t *testing.T) {
	path := writeFile(t, "graph.json", `{
		"nodes": [
			{"id": "a", "nodeKind": "source", "x": 10, "y": 20},
			{"id": "b", "nodeKind": "transform", "x": null, "y": null},
			{"id": "c", "nodeKind": "sink"}
		],
		"edges": [
			{"id": "e1", "sourceNodeId": "a", "targetNodeId": "b"},
			{"id": "e2", "sourceNodeId": "b", "targetNodeId": "c"}
		]
	}`)

	g, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Placed != 2 {
		t.Errorf("Placed = %d, want 2", stats.Placed)
	}
	if g.Nodes[0].X != 10 || g.Nodes[0].Y != 20 {
		t.Errorf("persisted position changed: %+v", g.Nodes[0])
	}
	// b depends on a, c on b; default placement puts them in distinct
	// columns to the right of depth 0.
	if g.Nodes[1].X <= 0 || g.Nodes[2].X <= g.Nodes[1].X {
		t.Errorf("placement not layered: b.X=%g c.X=%g", g.Nodes[1].X, g.Nodes[2].X)
	}
}

func TestLoadDropsInvalidAndDangling(t *testing.T) {
	path := writeFile(t, "graph.json", `{
		"nodes": [
			{"id": "a", "nodeKind": "source", "x": 0, "y": 0},
			{"id": "", "nodeKind": "source", "x": 0, "y": 0},
			{"id": "weird", "nodeKind": "gadget", "x": 0, "y": 0},
			{"id": "a", "nodeKind": "source", "x": 1, "y": 1}
		],
		"edges": [
			{"id": "e1", "sourceNodeId": "a", "targetNodeId": "ghost"},
			{"id": "", "sourceNodeId": "a", "targetNodeId": "a"}
		]
	}`)

	g, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertNodeCount(t, g.Nodes, 1)
	if stats.InvalidDropped != 3 {
		t.Errorf("InvalidDropped = %d, want 3 (empty id, bad kind, duplicate)", stats.InvalidDropped)
	}
	if stats.DanglingDropped != 1 {
		t.Errorf("DanglingDropped = %d, want 1", stats.DanglingDropped)
	}
	// The id-less self edge survives with a synthesized id.
	if len(g.Edges) != 1 || g.Edges[0].ID == "" {
		t.Errorf("edges = %+v", g.Edges)
	}
}

func TestLoadDuplicateDoesNotDisturbPlacement(t *testing.T) {
	// The kept first occurrence decides whether a node needs placement;
	// a dropped duplicate must neither clear that flag nor set it.
	path := writeFile(t, "graph.json", `{
		"nodes": [
			{"id": "a", "nodeKind": "transform"},
			{"id": "a", "nodeKind": "transform", "x": 7, "y": 7},
			{"id": "b", "nodeKind": "source", "x": 10, "y": 20},
			{"id": "b", "nodeKind": "source"}
		],
		"edges": [
			{"id": "e1", "sourceNodeId": "b", "targetNodeId": "a"}
		]
	}`)

	g, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertNodeCount(t, g.Nodes, 2)
	if stats.InvalidDropped != 2 {
		t.Errorf("InvalidDropped = %d, want 2", stats.InvalidDropped)
	}
	if stats.Placed != 1 {
		t.Errorf("Placed = %d, want only the unpositioned first occurrence", stats.Placed)
	}

	// a sat downstream of b, so the layered default puts it in a later
	// column; the duplicate's (7, 7) must not leak in.
	a := g.Nodes[0]
	if a.X <= 0 || a.X == 7 {
		t.Errorf("a not default-placed: %+v", a)
	}
	// b carried a position; the unpositioned duplicate must not have
	// re-flagged it for placement.
	b := g.Nodes[1]
	if b.X != 10 || b.Y != 20 {
		t.Errorf("persisted position disturbed: %+v", b)
	}
}

func TestLoadSplit(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.json")
	edgesPath := filepath.Join(dir, "edges.json")
	if err := os.WriteFile(nodesPath, []byte(`[
		{"id": "a", "nodeKind": "source", "x": 0, "y": 0},
		{"id": "b", "nodeKind": "sink", "x": 100, "y": 0}
	]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(edgesPath, []byte(`[
		{"id": "e1", "sourceNodeId": "a", "targetNodeId": "b"}
	]`), 0o644); err != nil {
		t.Fatal(err)
	}

	g, stats, err := LoadSplit(nodesPath, edgesPath)
	if err != nil {
		t.Fatalf("LoadSplit: %v", err)
	}
	testutil.AssertNodeCount(t, g.Nodes, 2)
	if stats.Edges != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}
	path := writeFile(t, "bad.json", "{not json")
	if _, _, err := Load(path); err == nil {
		t.Error("malformed JSON should error")
	}
}
