package perf

import (
	"sync"
	"time"
)

// frameWindow is the size of the rolling frame-timestamp sample.
const frameWindow = 30

// emaAlpha is the smoothing factor for the FPS estimate. Higher reacts
// faster, lower flattens jitter from uneven frame pacing.
const emaAlpha = 0.2

// Thresholds are the node counts at which the monitor starts
// suggesting degradation strategies. Recommendations depend only on
// the current node count, never on historical throughput, so they are
// reproducible for a given graph.
type Thresholds struct {
	// Warn suggests showing a large-graph banner.
	Warn int `yaml:"warn"`
	// Virtualize suggests enabling viewport culling.
	Virtualize int `yaml:"virtualize"`
	// Cluster suggests enabling spatial clustering on top.
	Cluster int `yaml:"cluster"`
}

// DefaultThresholds match interactive comfort on typical hardware.
var DefaultThresholds = Thresholds{Warn: 300, Virtualize: 800, Cluster: 2000}

// Recommendations is the advisory output for the host UI. Purely
// informational; nothing in the engine acts on it directly.
type Recommendations struct {
	NodeCount  int
	Warn       bool
	Virtualize bool
	Cluster    bool
}

// Monitor samples frame cadence and recommends when virtualization
// should switch on. Safe for concurrent use, though the intended model
// is single-threaded UI-event-driven sampling.
type Monitor struct {
	mu         sync.Mutex
	thresholds Thresholds
	samples    [frameWindow]time.Time
	head       int
	count      int
	fps        float64
	// override, when non-nil, forces virtualization on or off
	// regardless of the recommendation.
	override *bool
}

// NewMonitor returns a monitor with the given thresholds. Zero-valued
// thresholds fall back to the defaults.
func NewMonitor(t Thresholds) *Monitor {
	if t.Warn <= 0 {
		t.Warn = DefaultThresholds.Warn
	}
	if t.Virtualize <= 0 {
		t.Virtualize = DefaultThresholds.Virtualize
	}
	if t.Cluster <= 0 {
		t.Cluster = DefaultThresholds.Cluster
	}
	return &Monitor{thresholds: t}
}

// RecordFrame notes that a frame was just presented.
func (m *Monitor) RecordFrame() {
	m.RecordFrameAt(time.Now())
}

// RecordFrameAt is RecordFrame with an explicit timestamp, for tests
// and replaying captured traces.
func (m *Monitor) RecordFrameAt(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prev time.Time
	if m.count > 0 {
		prevIdx := (m.head - 1 + frameWindow) % frameWindow
		prev = m.samples[prevIdx]
	}
	m.samples[m.head] = t
	m.head = (m.head + 1) % frameWindow
	if m.count < frameWindow {
		m.count++
	}

	if prev.IsZero() {
		return
	}
	dt := t.Sub(prev)
	if dt <= 0 {
		// Clock went backwards or two frames in the same instant;
		// skip the sample rather than divide by zero.
		return
	}
	inst := 1 / dt.Seconds()
	if m.fps == 0 {
		m.fps = inst
	} else {
		m.fps = emaAlpha*inst + (1-emaAlpha)*m.fps
	}
}

// FPS returns the exponentially-smoothed frames-per-second estimate.
// Zero until at least two frames have been recorded.
func (m *Monitor) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fps
}

// SampleCount returns how many frame timestamps are currently held.
func (m *Monitor) SampleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Recommendations returns the advisory flags for the given node count.
func (m *Monitor) Recommendations(nodeCount int) Recommendations {
	m.mu.Lock()
	t := m.thresholds
	m.mu.Unlock()
	return Recommendations{
		NodeCount:  nodeCount,
		Warn:       nodeCount > t.Warn,
		Virtualize: nodeCount > t.Virtualize,
		Cluster:    nodeCount > t.Cluster,
	}
}

// SetVirtualizationOverride forces virtualization on (true), off
// (false), or returns control to the recommendation (nil).
func (m *Monitor) SetVirtualizationOverride(v *bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v == nil {
		m.override = nil
		return
	}
	val := *v
	m.override = &val
}

// VirtualizationEnabled resolves whether culling should run for the
// given node count. A manual override always wins.
func (m *Monitor) VirtualizationEnabled(nodeCount int) bool {
	m.mu.Lock()
	override := m.override
	m.mu.Unlock()
	if override != nil {
		return *override
	}
	return m.Recommendations(nodeCount).Virtualize
}
