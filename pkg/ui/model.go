// Package ui is the interactive terminal host for the rendering
// engine. It owns the graph, the live viewport, and the expanded
// cluster set, and recomputes the render set after every gesture.
//
// The engine stays pure; all reactive glue lives here. Rapid gestures
// are coalesced so only the settled viewport state triggers a pass.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracelens/lineview/pkg/cluster"
	"github.com/tracelens/lineview/pkg/config"
	"github.com/tracelens/lineview/pkg/minimap"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/perf"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/viewport"
)

// panStep is the pan distance per keypress, in screen cells.
const panStep = 4

// zoomStep is the multiplicative zoom change per keypress.
const zoomStep = 1.25

// recomputeDelay coalesces bursts of gestures into one engine pass.
const recomputeDelay = 16 * time.Millisecond

// Zoom limits for the host. The engine accepts any positive zoom, but
// a terminal cell has nothing useful to show beyond this range.
const (
	minZoom = 0.01
	maxZoom = 100
)

// recomputeMsg fires once a burst of gestures settles.
type recomputeMsg struct{}

// GraphReloadedMsg swaps in a freshly loaded graph, typically sent by
// a file watcher via Program.Send. Viewport and expanded clusters are
// preserved; stale expanded ids simply stop matching.
type GraphReloadedMsg struct {
	Graph *model.Graph
}

// Model is the bubbletea model for the graph viewer.
type Model struct {
	graph    *model.Graph
	cfg      config.Config
	lod      render.Breakpoints
	vp       viewport.Viewport
	expanded cluster.ExpandedSet
	monitor  *perf.Monitor
	rs       render.RenderSet

	// clustersOn, when non-nil, is a manual toggle; nil defers to the
	// monitor's recommendation. Virtualization override lives on the
	// monitor itself.
	clustersOn *bool

	selected    int // index into rs.Entities
	minimapMode bool
	reticle     model.Point // reticle position in minimap pixels
	dirty       bool
	pending     bool

	keys   keyMap
	help   help.Model
	status string
	err    error

	width, height int
}

// New builds the viewer model for a loaded graph.
func New(g *model.Graph, cfg config.Config) Model {
	return Model{
		graph:    g,
		cfg:      cfg,
		lod:      cfg.RenderOptions(false).LOD,
		vp:       viewport.New(80, 24),
		expanded: cluster.NewExpandedSet(),
		monitor:  perf.NewMonitor(cfg.Perf),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// clusteringEnabled resolves the manual toggle against the
// recommendation. The toggle always wins.
func (m *Model) clusteringEnabled() bool {
	if m.clustersOn != nil {
		return *m.clustersOn
	}
	return m.monitor.Recommendations(len(m.graph.Nodes)).Cluster
}

// recompute runs one engine pass against the current viewport. The
// expanded set is cloned first so a toggle arriving mid-pass applies
// to the next pass, never a torn one.
func (m *Model) recompute() {
	opts := m.cfg.RenderOptions(m.clusteringEnabled())
	if !m.monitor.VirtualizationEnabled(len(m.graph.Nodes)) {
		// Culling off: a budget covering every candidate keeps the
		// pipeline identical while nothing gets truncated.
		opts.MaxVisible = len(m.graph.Nodes) + 1
	}
	rs, err := render.Compute(m.graph.Nodes, m.graph.Edges, m.vp, m.expanded.Clone(), opts)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.rs = rs
	m.monitor.RecordFrame()
	if m.selected >= len(m.rs.Entities) {
		m.selected = 0
	}
}

// scheduleRecompute marks the state dirty and arms the coalescing
// timer. Gestures inside the window collapse into one pass.
func (m *Model) scheduleRecompute() tea.Cmd {
	m.dirty = true
	if m.pending {
		return nil
	}
	m.pending = true
	return tea.Tick(recomputeDelay, func(time.Time) tea.Msg { return recomputeMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The status bar and help line live below the canvas.
		m.vp = m.vp.Resize(float64(msg.Width), float64(maxInt(1, msg.Height-2)))
		m.recompute()
		return m, nil

	case GraphReloadedMsg:
		if msg.Graph != nil {
			m.graph = msg.Graph
			m.status = fmt.Sprintf("reloaded %d nodes", len(msg.Graph.Nodes))
			m.recompute()
		}
		return m, nil

	case recomputeMsg:
		m.pending = false
		if m.dirty {
			m.dirty = false
			m.recompute()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.minimapMode {
		return m.handleMinimapKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.PanLeft):
		m.vp = m.vp.Pan(panStep, 0)
		return m, m.scheduleRecompute()
	case key.Matches(msg, m.keys.PanRight):
		m.vp = m.vp.Pan(-panStep, 0)
		return m, m.scheduleRecompute()
	case key.Matches(msg, m.keys.PanUp):
		m.vp = m.vp.Pan(0, panStep)
		return m, m.scheduleRecompute()
	case key.Matches(msg, m.keys.PanDown):
		m.vp = m.vp.Pan(0, -panStep)
		return m, m.scheduleRecompute()

	case key.Matches(msg, m.keys.ZoomIn):
		m.vp = m.zoomAtCenter(zoomStep)
		return m, m.scheduleRecompute()
	case key.Matches(msg, m.keys.ZoomOut):
		m.vp = m.zoomAtCenter(1 / zoomStep)
		return m, m.scheduleRecompute()

	case key.Matches(msg, m.keys.Center):
		if bounds, ok := model.BoundsOf(m.graph.Nodes); ok {
			m.vp = m.vp.CenterOn(bounds.Center())
		}
		return m, m.scheduleRecompute()

	case key.Matches(msg, m.keys.NextNode):
		if n := len(m.rs.Entities); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevNode):
		if n := len(m.rs.Entities); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		return m.toggleSelectedCluster()

	case key.Matches(msg, m.keys.Clusters):
		on := !m.clusteringEnabled()
		m.clustersOn = &on
		m.status = onOff("clustering", on)
		return m, m.scheduleRecompute()

	case key.Matches(msg, m.keys.Virtual):
		on := !m.monitor.VirtualizationEnabled(len(m.graph.Nodes))
		m.monitor.SetVirtualizationOverride(&on)
		m.status = onOff("virtualization", on)
		return m, m.scheduleRecompute()

	case key.Matches(msg, m.keys.Minimap):
		m.minimapMode = true
		m.reticle = model.Point{
			X: float64(m.cfg.Minimap.Width) / 2,
			Y: float64(m.cfg.Minimap.Height) / 2,
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyID):
		if e, ok := m.selectedEntity(); ok {
			if err := clipboard.WriteAll(e.ID()); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "copied " + e.ID()
			}
		}
		return m, nil
	}
	return m, nil
}

// handleMinimapKey drives the overview reticle; enter recenters the
// viewport on the chosen scene point, preserving zoom.
func (m Model) handleMinimapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const step = 4
	switch msg.String() {
	case "esc", "m", "q":
		m.minimapMode = false
		return m, nil
	case "left", "h":
		m.reticle.X -= step
	case "right", "l":
		m.reticle.X += step
	case "up", "k":
		m.reticle.Y -= step
	case "down", "j":
		m.reticle.Y += step
	case "enter":
		proj, err := minimap.New(m.graph.Nodes, m.cfg.Minimap.Width, m.cfg.Minimap.Height, m.cfg.Minimap.Padding)
		if err == nil {
			m.vp = proj.Navigate(m.reticle, m.vp)
		}
		m.minimapMode = false
		return m, m.scheduleRecompute()
	}
	m.reticle.X = clampF(m.reticle.X, 0, float64(m.cfg.Minimap.Width-1))
	m.reticle.Y = clampF(m.reticle.Y, 0, float64(m.cfg.Minimap.Height-1))
	return m, nil
}

func (m Model) toggleSelectedCluster() (tea.Model, tea.Cmd) {
	e, ok := m.selectedEntity()
	if !ok || e.Kind != render.EntityCluster {
		return m, nil
	}
	if m.expanded.Toggle(e.Cluster.ID) {
		m.status = "expanded " + e.Cluster.ID
	} else {
		m.status = "collapsed " + e.Cluster.ID
	}
	return m, m.scheduleRecompute()
}

func (m Model) selectedEntity() (render.Entity, bool) {
	if m.selected < 0 || m.selected >= len(m.rs.Entities) {
		return render.Entity{}, false
	}
	return m.rs.Entities[m.selected], true
}

func (m Model) zoomAtCenter(factor float64) viewport.Viewport {
	anchor := model.Point{X: m.vp.Width / 2, Y: m.vp.Height / 2}
	next := m.vp.ZoomAt(anchor, factor)
	if next.Zoom < minZoom || next.Zoom > maxZoom {
		return m.vp
	}
	return next
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	canvasH := maxInt(1, m.height-2)

	var selectedID string
	if e, ok := m.selectedEntity(); ok {
		selectedID = e.ID()
	}
	lines := renderCanvas(m.rs, m.vp, m.width, canvasH, selectedID)

	if m.minimapMode {
		lines = m.overlayMinimap(lines)
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	badgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
)

// statusBar renders the telemetry line: FPS estimate, zoom and tier,
// pass stats, and recommendation flags.
func (m Model) statusBar() string {
	parts := make([]string, 0, 7)
	if m.cfg.UI.FPSBadge {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%.0f fps", m.monitor.FPS())))
	}
	parts = append(parts, fmt.Sprintf("zoom %.2f [%s]", m.vp.Zoom, m.lod.TierFor(m.vp.Zoom)))
	parts = append(parts, fmt.Sprintf("%d/%d entities", m.rs.Stats.Visible, m.rs.Stats.Candidates))
	if m.rs.Stats.Truncated > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%d truncated", m.rs.Stats.Truncated)))
	}
	if m.monitor.Recommendations(len(m.graph.Nodes)).Warn {
		parts = append(parts, warnStyle.Render("large graph"))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.err != nil {
		parts = append(parts, warnStyle.Render(m.err.Error()))
	}
	return statusStyle.Render(strings.Join(parts, " │ "))
}

// overlayMinimap draws the overview box into the top-right corner of
// the canvas lines, scaled from minimap pixels down to terminal cells.
func (m Model) overlayMinimap(lines []string) []string {
	proj, err := minimap.New(m.graph.Nodes, m.cfg.Minimap.Width, m.cfg.Minimap.Height, m.cfg.Minimap.Padding)
	if err != nil {
		return lines
	}
	const cell = 4 // minimap pixels per terminal cell
	mw := maxInt(8, proj.Width/cell)
	mh := maxInt(4, proj.Height/cell)

	grid := make([][]rune, mh)
	for y := range grid {
		grid[y] = []rune(strings.Repeat("·", mw))
	}
	for _, n := range m.graph.Nodes {
		pt := proj.Project(n.Center())
		setRune(grid, int(pt.X)/cell, int(pt.Y)/cell, '▪')
	}
	// Zoomed far out the view rectangle dwarfs the minimap; clip it to
	// the overlay grid so the border loops stay bounded.
	view := proj.ViewRect(m.vp)
	vx1 := clipCoord(view.MinX/cell, mw)
	vx2 := clipCoord(view.MaxX/cell, mw)
	vy1 := clipCoord(view.MinY/cell, mh)
	vy2 := clipCoord(view.MaxY/cell, mh)
	for x := vx1; x <= vx2; x++ {
		setRune(grid, x, vy1, '─')
		setRune(grid, x, vy2, '─')
	}
	for y := vy1; y <= vy2; y++ {
		setRune(grid, vx1, y, '│')
		setRune(grid, vx2, y, '│')
	}
	setRune(grid, int(m.reticle.X)/cell, int(m.reticle.Y)/cell, '✛')

	ox := maxInt(0, m.width-mw-2)
	for y := 0; y < mh && y+1 < len(lines); y++ {
		row := []rune(lines[y+1])
		for x := 0; x < mw && ox+x < len(row); x++ {
			row[ox+x] = grid[y][x]
		}
		lines[y+1] = string(row)
	}
	return lines
}

func clusterCountLabel(n int) string {
	return fmt.Sprintf("%d nodes", n)
}

func onOff(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
