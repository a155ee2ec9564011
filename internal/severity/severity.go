// Package severity maps percentages to the three urgency tiers used for
// coloring CPU, memory and disk figures.
package severity

// Tier is a visual urgency band.
type Tier int

const (
	Normal Tier = iota
	Elevated
	Critical
)

// Thresholds are exclusive: a value must be strictly above them.
const (
	ElevatedThreshold = 50.0
	CriticalThreshold = 75.0
)

// Classify returns the tier for percent. NaN is Normal.
func Classify(percent float64) Tier {
	switch {
	case percent > CriticalThreshold:
		return Critical
	case percent > ElevatedThreshold:
		return Elevated
	default:
		return Normal
	}
}

func (t Tier) String() string {
	switch t {
	case Elevated:
		return "elevated"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}
