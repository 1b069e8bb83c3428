package render

// Tier is the rendering fidelity assigned to every entity in a pass.
// It is a pure function of zoom and orthogonal to culling: which
// entities are selected never depends on the tier.
type Tier int

const (
	TierMinimal Tier = iota
	TierSimplified
	TierFull
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierSimplified:
		return "simplified"
	default:
		return "minimal"
	}
}

// Breakpoints are the zoom thresholds between fidelity tiers.
// Full must be greater than Simplified.
type Breakpoints struct {
	Full       float64 `yaml:"full"`
	Simplified float64 `yaml:"simplified"`
}

// DefaultBreakpoints switches to full detail at zoom 0.6 and to
// placeholder dots below 0.25.
var DefaultBreakpoints = Breakpoints{Full: 0.6, Simplified: 0.25}

// TierFor maps a zoom factor to a fidelity tier. Fidelity increases
// monotonically with zoom.
func (b Breakpoints) TierFor(zoom float64) Tier {
	switch {
	case zoom >= b.Full:
		return TierFull
	case zoom >= b.Simplified:
		return TierSimplified
	default:
		return TierMinimal
	}
}

// Valid reports whether the breakpoints are ordered sensibly.
func (b Breakpoints) Valid() bool {
	return b.Simplified > 0 && b.Full > b.Simplified
}
