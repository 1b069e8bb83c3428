// Package loader reads lineage graph documents from disk and prepares
// them for the rendering engine: kind validation, dangling-edge
// cleanup, and default placement for nodes without persisted
// positions.
package loader

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tracelens/lineview/pkg/debug"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/perf"
)

// Stats reports what cleanup the load performed.
type Stats struct {
	Nodes           int
	Edges           int
	DanglingDropped int
	InvalidDropped  int
	Placed          int // nodes that received a default position
}

// wireNode mirrors the backend API payload: positions are nullable
// because a node may never have been laid out.
type wireNode struct {
	ID    string          `json:"id"`
	Kind  model.NodeKind  `json:"nodeKind"`
	X     *float64        `json:"x"`
	Y     *float64        `json:"y"`
	W     *float64        `json:"w"`
	H     *float64        `json:"h"`
	Label json.RawMessage `json:"label"`
}

type wireEdge struct {
	ID     string `json:"id"`
	Source string `json:"sourceNodeId"`
	Target string `json:"targetNodeId"`
	Type   string `json:"type"`
}

type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

// Load reads a single graph document containing both nodes and edges.
func Load(path string) (*model.Graph, Stats, error) {
	defer perf.Timer(perf.GraphLoad)()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading graph: %w", err)
	}
	var wire wireGraph
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, Stats{}, fmt.Errorf("parsing graph %s: %w", path, err)
	}
	return assemble(wire)
}

// LoadSplit reads nodes and edges from two separate documents
// concurrently; some backends export them as independent endpoints.
func LoadSplit(nodesPath, edgesPath string) (*model.Graph, Stats, error) {
	defer perf.Timer(perf.GraphLoad)()

	var wire wireGraph
	var g errgroup.Group
	g.Go(func() error {
		data, err := os.ReadFile(nodesPath)
		if err != nil {
			return fmt.Errorf("reading nodes: %w", err)
		}
		return json.Unmarshal(data, &wire.Nodes)
	})
	g.Go(func() error {
		data, err := os.ReadFile(edgesPath)
		if err != nil {
			return fmt.Errorf("reading edges: %w", err)
		}
		return json.Unmarshal(data, &wire.Edges)
	})
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	return assemble(wire)
}

func assemble(wire wireGraph) (*model.Graph, Stats, error) {
	var stats Stats
	g := &model.Graph{
		Nodes: make([]model.Node, 0, len(wire.Nodes)),
		Edges: make([]model.Edge, 0, len(wire.Edges)),
	}

	missing := make(map[string]bool)
	seen := make(map[string]bool, len(wire.Nodes))
	for _, wn := range wire.Nodes {
		n := model.Node{
			ID:    wn.ID,
			Kind:  wn.Kind,
			Label: wn.Label,
			W:     model.DefaultNodeWidth,
			H:     model.DefaultNodeHeight,
		}
		if wn.W != nil && *wn.W > 0 {
			n.W = *wn.W
		}
		if wn.H != nil && *wn.H > 0 {
			n.H = *wn.H
		}
		posMissing := wn.X == nil || wn.Y == nil
		if !posMissing {
			n.X = *wn.X
			n.Y = *wn.Y
		}
		if err := n.Validate(); err != nil || seen[n.ID] {
			stats.InvalidDropped++
			debug.Warn("dropping node %q: %v", wn.ID, err)
			continue
		}
		seen[n.ID] = true
		// Flag only for the record actually kept, so a dropped
		// duplicate can neither clear nor set placement for it.
		if posMissing {
			missing[n.ID] = true
		}
		g.Nodes = append(g.Nodes, n)
	}

	for i, we := range wire.Edges {
		e := model.Edge{ID: we.ID, Source: we.Source, Target: we.Target, Type: we.Type}
		if e.ID == "" {
			// Some exporters omit edge ids; synthesize a stable one.
			e.ID = fmt.Sprintf("%s->%s#%d", e.Source, e.Target, i)
		}
		if err := e.Validate(); err != nil {
			stats.InvalidDropped++
			debug.Warn("dropping edge %q: %v", we.ID, err)
			continue
		}
		g.Edges = append(g.Edges, e)
	}

	stats.DanglingDropped = g.DropDanglingEdges()
	stats.Placed = len(missing)
	model.AssignDefaultPositions(g, missing)

	stats.Nodes = len(g.Nodes)
	stats.Edges = len(g.Edges)
	debug.Log("loaded graph: %d nodes, %d edges, %d placed, %d dangling dropped",
		stats.Nodes, stats.Edges, stats.Placed, stats.DanglingDropped)
	return g, stats, nil
}
