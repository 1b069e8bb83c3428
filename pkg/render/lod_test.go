package render

import "testing"

func TestTierForBoundaries(t *testing.T) {
	b := DefaultBreakpoints
	tests := []struct {
		zoom float64
		want Tier
	}{
		{1.5, TierFull},
		{0.6, TierFull}, // breakpoint is inclusive
		{0.59, TierSimplified},
		{0.25, TierSimplified},
		{0.24, TierMinimal},
		{0.01, TierMinimal},
	}
	for _, tt := range tests {
		if got := b.TierFor(tt.zoom); got != tt.want {
			t.Errorf("TierFor(%g) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestBreakpointsValid(t *testing.T) {
	if !DefaultBreakpoints.Valid() {
		t.Error("defaults should be valid")
	}
	invalid := []Breakpoints{
		{Full: 0.25, Simplified: 0.6},
		{Full: 0.6, Simplified: 0},
		{Full: 0.5, Simplified: 0.5},
	}
	for _, b := range invalid {
		if b.Valid() {
			t.Errorf("%+v should be invalid", b)
		}
	}
}

func TestTierString(t *testing.T) {
	if TierFull.String() != "full" || TierSimplified.String() != "simplified" || TierMinimal.String() != "minimal" {
		t.Error("tier names wrong")
	}
}
