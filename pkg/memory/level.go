package memory

import "gitlab.com/tinyland/lab/bar-pulse/pkg/units"

// Level is the alert state of a used/total quantity.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

// Thresholds, as fractions of the total.
const (
	WarningRatio  = 0.5
	CriticalRatio = 0.8
)

func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Classify places used/total into a Level: normal below 50%, warning from
// 50% up to 80%, critical at 80% and above. A zero total (no swap
// configured) is normal.
func Classify(used, total uint64) Level {
	if total == 0 {
		return LevelNormal
	}
	ratio := float64(used) / float64(total)
	switch {
	case ratio >= CriticalRatio:
		return LevelCritical
	case ratio >= WarningRatio:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// Pair is a used/total byte count.
type Pair struct {
	Used  uint64
	Total uint64
}

// Percent returns Used as a percentage of Total.
func (p Pair) Percent() float64 { return units.Percent(p.Used, p.Total) }

// Level classifies the pair.
func (p Pair) Level() Level { return Classify(p.Used, p.Total) }

// String renders the pair as "used/total", e.g. "4.0 GiB/16 GiB".
func (p Pair) String() string {
	return units.FormatUsed(p.Used) + "/" + units.FormatTotal(p.Total)
}

// Usage is one memory sample.
type Usage struct {
	Memory Pair
	Swap   Pair
}
