package testutil

import "testing"

func TestGridGraphShape(t *testing.T) {
	g := GridGraph(3, 4, 100)
	AssertNodeCount(t, g.Nodes, 12)
	AssertNoDuplicateIDs(t, g.Nodes)
	if len(g.Edges) != 9 {
		t.Errorf("got %d edges, want 9 row connectors", len(g.Edges))
	}
}

func TestClusterScenarioLayout(t *testing.T) {
	nodes := ClusterScenario()
	AssertNodeCount(t, nodes, 12)
	AssertNoDuplicateIDs(t, nodes)

	// Group members sit within 10 of each other; groups and isolated
	// nodes are hundreds apart.
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			if d := nodes[i].Center().Dist(nodes[j].Center()); d > 10 {
				t.Errorf("group a spread too wide: %s-%s at %g", nodes[i].ID, nodes[j].ID, d)
			}
		}
	}
	if d := nodes[0].Center().Dist(nodes[5].Center()); d < 400 {
		t.Errorf("groups too close: %g", d)
	}
}

func TestRandomNodesDeterministic(t *testing.T) {
	a := RandomNodes(10, 100, 1)
	b := RandomNodes(10, 100, 1)
	for i := range a {
		if a[i].ID != b[i].ID || a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("same seed produced different node %d", i)
		}
	}
}

func TestLineageChainKinds(t *testing.T) {
	g := LineageChain(4, 100)
	AssertNodeCount(t, g.Nodes, 4)
	if g.Nodes[0].Kind != "source" || g.Nodes[3].Kind != "sink" {
		t.Errorf("endpoint kinds wrong: %s, %s", g.Nodes[0].Kind, g.Nodes[3].Kind)
	}
	if len(g.Edges) != 3 {
		t.Errorf("got %d edges, want 3", len(g.Edges))
	}
}
