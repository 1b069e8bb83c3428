// Package cluster groups spatially close nodes into aggregate entities
// so the render pass has fewer things to draw at low zoom.
//
// The partition is deterministic for a fixed node set and distance:
// cluster ids are derived from the sorted member-id list, so an
// unchanged node subset keeps the same id across recomputations and
// its expanded state survives.
package cluster

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/tracelens/lineview/pkg/model"
)

// Cluster is a synthetic aggregate of two or more nearby nodes. A
// degenerate cluster of zero or one member is never created; single
// nodes render as themselves.
type Cluster struct {
	ID       string
	Members  []string // sorted ascending
	Centroid model.Point
	// W and H approximate the cluster's visual footprint for culling:
	// the largest member box, since the aggregate draws at the
	// centroid with roughly one node's bulk.
	W, H float64
}

// Size returns the member count.
func (c Cluster) Size() int { return len(c.Members) }

// Bounds returns the cluster's scene-space bounding box at its
// centroid.
func (c Cluster) Bounds() model.Rect {
	return model.Rect{
		MinX: c.Centroid.X - c.W/2,
		MinY: c.Centroid.Y - c.H/2,
		MaxX: c.Centroid.X + c.W/2,
		MaxY: c.Centroid.Y + c.H/2,
	}
}

// DeriveID computes the stable cluster id for a membership set. The
// id is a pure function of the sorted member ids, independent of
// input order.
func DeriveID(members []string) string {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	h := fnv.New64a()
	for _, id := range sorted {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("cluster-%016x", h.Sum64())
}

// Expand returns the cluster's member nodes verbatim, at their real
// scene coordinates. Members missing from the lookup are dropped and
// the rest of the cluster still expands; a stale membership is a
// data-consistency fault, not a reason to fail the pass.
func (c Cluster) Expand(lookup map[string]*model.Node) []model.Node {
	out := make([]model.Node, 0, len(c.Members))
	for _, id := range c.Members {
		n, ok := lookup[id]
		if !ok {
			continue
		}
		out = append(out, *n)
	}
	return out
}

// ExpandedSet tracks which cluster ids the user has expanded. It is
// the only engine-adjacent state that persists across recomputation;
// the host toggles it between passes and hands a copy into each pass
// so a toggle never lands mid-pass.
type ExpandedSet map[string]struct{}

// NewExpandedSet returns an empty set.
func NewExpandedSet() ExpandedSet { return make(ExpandedSet) }

// Has reports whether the cluster id is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the expanded state for id and reports the new state.
func (s ExpandedSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Clone returns an independent copy for handing into a pass.
func (s ExpandedSet) Clone() ExpandedSet {
	out := make(ExpandedSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// String renders the set in sorted order, for debug logging.
func (s ExpandedSet) String() string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
