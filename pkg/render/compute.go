package render

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tracelens/lineview/pkg/cluster"
	"github.com/tracelens/lineview/pkg/debug"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/perf"
	"github.com/tracelens/lineview/pkg/viewport"
)

// Options are the per-pass tunables. Zero values are invalid; use
// DefaultOptions as a base.
type Options struct {
	// ClusterEnabled turns on spatial clustering before culling.
	ClusterEnabled bool
	// ClusterDistance is the grouping threshold in scene units.
	ClusterDistance float64
	// MaxVisible caps the number of entities in the RenderSet.
	MaxVisible int
	// MarginPx pre-renders just-offscreen entities to avoid pop-in
	// during small pans. Screen pixels, converted to scene units at
	// the current zoom.
	MarginPx float64
	// LOD holds the zoom breakpoints between fidelity tiers.
	LOD Breakpoints
	// ClusterWeighting makes truncation favor heavier clusters:
	// priority is distance from the view center divided by the square
	// root of the member count. Disabled, priority is pure distance.
	ClusterWeighting bool
}

// DefaultOptions returns the tunables used when the host has no
// configuration of its own.
func DefaultOptions() Options {
	return Options{
		ClusterEnabled:   false,
		ClusterDistance:  120,
		MaxVisible:       500,
		MarginPx:         100,
		LOD:              DefaultBreakpoints,
		ClusterWeighting: true,
	}
}

func (o Options) validate() error {
	if o.MaxVisible <= 0 {
		return fmt.Errorf("render budget must be positive, got %d", o.MaxVisible)
	}
	if o.MarginPx < 0 || math.IsNaN(o.MarginPx) {
		return fmt.Errorf("margin must be non-negative, got %v", o.MarginPx)
	}
	if !o.LOD.Valid() {
		return fmt.Errorf("lod breakpoints out of order: full=%v simplified=%v", o.LOD.Full, o.LOD.Simplified)
	}
	if o.ClusterEnabled && (o.ClusterDistance <= 0 || math.IsNaN(o.ClusterDistance)) {
		return fmt.Errorf("cluster distance must be positive, got %v", o.ClusterDistance)
	}
	return nil
}

// Compute runs one full recomputation pass: cluster (if enabled), cull
// against the margin-expanded visible rectangle, truncate to the
// budget, filter and remap edges, and stamp every entity with its LOD
// tier.
//
// The node/edge slices and the expanded set are read-only for the
// duration of the call. An invalid viewport or option set is a caller
// bug and returns an error; data-quality faults (dangling edges, stale
// cluster members) are dropped and counted in Stats instead.
func Compute(nodes []model.Node, edges []model.Edge, vp viewport.Viewport, expanded cluster.ExpandedSet, opts Options) (RenderSet, error) {
	defer perf.Timer(perf.RecomputePass)()
	start := time.Now()

	if err := vp.Validate(); err != nil {
		return RenderSet{}, err
	}
	if err := opts.validate(); err != nil {
		return RenderSet{}, err
	}

	var rs RenderSet

	// Phase 1: candidate entities plus the node-id -> entity-id remap
	// used for edge filtering.
	candidates, remap, err := buildCandidates(nodes, expanded, opts, &rs.Stats)
	if err != nil {
		return RenderSet{}, err
	}
	rs.Stats.Candidates = len(candidates)

	// Phase 2: cull and truncate.
	visible := selectVisible(candidates, vp, opts, &rs.Stats)

	// Phase 3: LOD is orthogonal to selection; stamp after culling.
	tier := opts.LOD.TierFor(vp.Zoom)
	for i := range visible {
		visible[i].Tier = tier
	}
	rs.Entities = visible
	rs.Stats.Visible = len(visible)

	// Phase 4: edges between entities present in this same pass.
	rs.Edges = FilterVisibleEdges(edges, remap, rs.VisibleIDs(), &rs.Stats)

	rs.Stats.Duration = time.Since(start)
	debug.Log("render pass: %d/%d entities, %d edges, truncated=%d in %v",
		rs.Stats.Visible, rs.Stats.Candidates, len(rs.Edges), rs.Stats.Truncated, rs.Stats.Duration)
	return rs, nil
}

// buildCandidates expands the node set into renderable entities. With
// clustering off every node is its own entity; with clustering on,
// unexpanded clusters stand in for their members and expanded clusters
// contribute their members verbatim.
func buildCandidates(nodes []model.Node, expanded cluster.ExpandedSet, opts Options, stats *Stats) ([]Entity, map[string]string, error) {
	remap := make(map[string]string, len(nodes))

	if !opts.ClusterEnabled {
		entities := make([]Entity, 0, len(nodes))
		for _, n := range nodes {
			entities = append(entities, Entity{Kind: EntityNode, Node: n})
			remap[n.ID] = n.ID
		}
		return entities, remap, nil
	}

	defer perf.Timer(perf.ClusterPass)()
	part, err := cluster.Partition(nodes, opts.ClusterDistance)
	if err != nil {
		return nil, nil, err
	}
	stats.Clusters = len(part.Clusters)

	lookup := make(map[string]*model.Node, len(nodes))
	for i := range nodes {
		lookup[nodes[i].ID] = &nodes[i]
	}

	entities := make([]Entity, 0, len(part.Standalone)+len(part.Clusters))
	for _, n := range part.Standalone {
		entities = append(entities, Entity{Kind: EntityNode, Node: n})
		remap[n.ID] = n.ID
	}
	for _, c := range part.Clusters {
		if expanded.Has(c.ID) {
			// Expanded: the aggregate steps aside for its members at
			// their real coordinates.
			for _, n := range c.Expand(lookup) {
				entities = append(entities, Entity{Kind: EntityNode, Node: n})
				remap[n.ID] = n.ID
			}
			continue
		}
		entities = append(entities, Entity{Kind: EntityCluster, Cluster: c})
		for _, id := range c.Members {
			remap[id] = c.ID
		}
	}
	return entities, remap, nil
}

// selectVisible keeps entities whose bounding box intersects the
// margin-expanded visible rectangle, then truncates to the budget by
// distance from the view center so degradation eats the periphery
// first. Ties break by id; the surviving order is the candidate order.
func selectVisible(candidates []Entity, vp viewport.Viewport, opts Options, stats *Stats) []Entity {
	defer perf.Timer(perf.CullPass)()

	view := vp.VisibleRect().Expand(opts.MarginPx / vp.Zoom)

	type scored struct {
		idx      int
		priority float64
	}
	var inView []scored
	center := view.Center()
	for i, e := range candidates {
		if !e.Bounds().Intersects(view) {
			continue
		}
		p := e.Center().Dist(center)
		if opts.ClusterWeighting {
			if w := e.Weight(); w > 1 {
				p /= math.Sqrt(float64(w))
			}
		}
		inView = append(inView, scored{idx: i, priority: p})
	}

	if len(inView) > opts.MaxVisible {
		stats.Truncated = len(inView) - opts.MaxVisible
		sort.Slice(inView, func(a, b int) bool {
			// Epsilon comparison keeps ordering stable when distances
			// are tied up to floating point noise.
			const eps = 1e-9
			if d := inView[a].priority - inView[b].priority; math.Abs(d) > eps {
				return d < 0
			}
			return candidates[inView[a].idx].ID() < candidates[inView[b].idx].ID()
		})
		inView = inView[:opts.MaxVisible]
		// Restore candidate order so the painter's draw order does not
		// shuffle between frames.
		sort.Slice(inView, func(a, b int) bool { return inView[a].idx < inView[b].idx })
	}

	out := make([]Entity, 0, len(inView))
	for _, s := range inView {
		out = append(out, candidates[s.idx])
	}
	return out
}

// FilterVisibleEdges retains edges whose endpoints are both present in
// this pass, remapping endpoints subsumed into unexpanded clusters to
// the cluster id so cross-cluster relationships stay visible. Edges
// internal to a single unexpanded cluster are absorbed by the
// aggregate and dropped; genuine self-loops on entities visible as
// themselves are kept. Dangling edges referencing unknown nodes are
// dropped and counted.
func FilterVisibleEdges(edges []model.Edge, remap map[string]string, visible map[string]bool, stats *Stats) []model.Edge {
	out := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		src, okS := remap[e.Source]
		dst, okT := remap[e.Target]
		if !okS || !okT {
			if stats != nil {
				stats.DanglingDropped++
			}
			continue
		}
		if src == dst && src != e.Source {
			// Both endpoints remapped into the same unexpanded
			// cluster; the relationship is internal to the aggregate.
			if stats != nil {
				stats.ClusterLoops++
			}
			continue
		}
		if !visible[src] || !visible[dst] {
			continue
		}
		e.Source = src
		e.Target = dst
		out = append(out, e)
	}
	return out
}
