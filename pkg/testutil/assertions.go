package testutil

import (
	"math"
	"testing"

	"github.com/tracelens/lineview/pkg/model"
)

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, nodes []model.Node, expected int) {
	t.Helper()
	if len(nodes) != expected {
		t.Errorf("expected %d nodes, got %d", expected, len(nodes))
	}
}

// AssertNoDuplicateIDs verifies all node IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, nodes []model.Node) {
	t.Helper()
	seen := make(map[string]bool)
	for _, n := range nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

// AssertPointNear verifies two points coincide within tol.
func AssertPointNear(t *testing.T, got, want model.Point, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol {
		t.Errorf("point = (%g, %g), want (%g, %g) within %g", got.X, got.Y, want.X, want.Y, tol)
	}
}

// AssertFloatNear verifies two floats agree within tol.
func AssertFloatNear(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("value = %g, want %g within %g", got, want, tol)
	}
}

// AssertContainsID verifies the id appears in the slice.
func AssertContainsID(t *testing.T, ids []string, id string) {
	t.Helper()
	for _, got := range ids {
		if got == id {
			return
		}
	}
	t.Errorf("id %q not found in %v", id, ids)
}

// AssertNotContainsID verifies the id does not appear in the slice.
func AssertNotContainsID(t *testing.T, ids []string, id string) {
	t.Helper()
	for _, got := range ids {
		if got == id {
			t.Errorf("id %q unexpectedly present in %v", id, ids)
			return
		}
	}
}
