// Package render computes, for one viewport state, the set of entities
// and edges worth handing to a painter: clustering (optional), culling
// against the visible rectangle, budget truncation, and level-of-detail
// assignment.
//
// Compute is pure: it never mutates the node/edge collection or the
// expanded set, and recomputing with identical inputs yields an
// identical RenderSet. The host calls it on every relevant viewport or
// topology change and throws the result away afterwards.
package render

import (
	"time"

	"github.com/tracelens/lineview/pkg/cluster"
	"github.com/tracelens/lineview/pkg/model"
)

// EntityKind discriminates renderable entities.
type EntityKind int

const (
	EntityNode EntityKind = iota
	EntityCluster
)

// Entity is one renderable item: a real node, an expanded-cluster
// member (also EntityNode), or an unexpanded cluster aggregate.
type Entity struct {
	Kind    EntityKind
	Node    model.Node      // set when Kind == EntityNode
	Cluster cluster.Cluster // set when Kind == EntityCluster
	Tier    Tier
}

// ID returns the entity's identity: the node id or the derived
// cluster id.
func (e Entity) ID() string {
	if e.Kind == EntityCluster {
		return e.Cluster.ID
	}
	return e.Node.ID
}

// Bounds returns the entity's scene-space bounding box.
func (e Entity) Bounds() model.Rect {
	if e.Kind == EntityCluster {
		return e.Cluster.Bounds()
	}
	return e.Node.Bounds()
}

// Center returns the entity's scene position.
func (e Entity) Center() model.Point {
	if e.Kind == EntityCluster {
		return e.Cluster.Centroid
	}
	return e.Node.Center()
}

// Weight is the entity's member count: 1 for nodes, the membership
// size for clusters. Used by the truncation priority when cluster
// weighting is enabled.
func (e Entity) Weight() int {
	if e.Kind == EntityCluster {
		return e.Cluster.Size()
	}
	return 1
}

// Stats describes what one pass did, for the telemetry badge. Budget
// truncation is a designed degradation path, not an error.
type Stats struct {
	Candidates      int
	Visible         int
	Truncated       int
	DanglingDropped int
	ClusterLoops    int
	Clusters        int
	Duration        time.Duration
}

// RenderSet is the ephemeral output of one pass: the ordered entities
// to draw and the edge subset connecting only entities present in this
// same pass.
type RenderSet struct {
	Entities []Entity
	Edges    []model.Edge
	Stats    Stats
}

// VisibleIDs returns the set of entity ids present in the pass.
func (rs RenderSet) VisibleIDs() map[string]bool {
	ids := make(map[string]bool, len(rs.Entities))
	for _, e := range rs.Entities {
		ids[e.ID()] = true
	}
	return ids
}
