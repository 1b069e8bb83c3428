package perf

import (
	"testing"
	"time"
)

func TestMonitorFPSConvergence(t *testing.T) {
	m := NewMonitor(DefaultThresholds)
	base := time.Now()
	// A steady 60fps cadence should converge near 60.
	for i := 0; i < 100; i++ {
		m.RecordFrameAt(base.Add(time.Duration(i) * time.Second / 60))
	}
	fps := m.FPS()
	if fps < 55 || fps > 65 {
		t.Errorf("FPS = %g, want ~60", fps)
	}
}

func TestMonitorSkipsNonMonotonicSamples(t *testing.T) {
	m := NewMonitor(DefaultThresholds)
	base := time.Now()
	m.RecordFrameAt(base)
	m.RecordFrameAt(base) // duplicate timestamp must not divide by zero
	m.RecordFrameAt(base.Add(-time.Second))
	if fps := m.FPS(); fps != 0 {
		t.Errorf("FPS = %g after degenerate samples, want 0", fps)
	}
	m.RecordFrameAt(base.Add(time.Second))
}

func TestMonitorZeroFramesIsSafe(t *testing.T) {
	m := NewMonitor(DefaultThresholds)
	if m.FPS() != 0 {
		t.Error("FPS should be 0 with no frames")
	}
	if m.SampleCount() != 0 {
		t.Error("SampleCount should be 0 with no frames")
	}
}

func TestMonitorWindowCap(t *testing.T) {
	m := NewMonitor(DefaultThresholds)
	base := time.Now()
	for i := 0; i < 100; i++ {
		m.RecordFrameAt(base.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	if got := m.SampleCount(); got != frameWindow {
		t.Errorf("SampleCount = %d, want capped at %d", got, frameWindow)
	}
}

func TestRecommendationThresholds(t *testing.T) {
	m := NewMonitor(DefaultThresholds)
	tests := []struct {
		nodes                    int
		warn, virtualize, clust  bool
	}{
		{100, false, false, false},
		{300, false, false, false}, // threshold is exclusive
		{301, true, false, false},
		{800, true, false, false},
		{801, true, true, false},
		{2000, true, true, false},
		{2001, true, true, true},
	}
	for _, tt := range tests {
		rec := m.Recommendations(tt.nodes)
		if rec.Warn != tt.warn || rec.Virtualize != tt.virtualize || rec.Cluster != tt.clust {
			t.Errorf("Recommendations(%d) = %+v", tt.nodes, rec)
		}
	}
}

func TestVirtualizationOverrideWins(t *testing.T) {
	m := NewMonitor(DefaultThresholds)

	if m.VirtualizationEnabled(100) {
		t.Error("small graph should not virtualize by default")
	}
	if !m.VirtualizationEnabled(5000) {
		t.Error("large graph should virtualize by default")
	}

	off := false
	m.SetVirtualizationOverride(&off)
	if m.VirtualizationEnabled(5000) {
		t.Error("override off must beat the recommendation")
	}

	on := true
	m.SetVirtualizationOverride(&on)
	if !m.VirtualizationEnabled(10) {
		t.Error("override on must beat the recommendation")
	}

	m.SetVirtualizationOverride(nil)
	if m.VirtualizationEnabled(10) {
		t.Error("clearing the override should restore the recommendation")
	}
}

func TestNewMonitorFillsZeroThresholds(t *testing.T) {
	m := NewMonitor(Thresholds{})
	rec := m.Recommendations(DefaultThresholds.Cluster + 1)
	if !rec.Cluster {
		t.Error("zero thresholds should fall back to defaults")
	}
}
