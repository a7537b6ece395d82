package battery

import (
	"math"
	"strings"
	"time"
)

// Status is a battery charge state as written by the kernel's power_supply
// class.
type Status int

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusNotCharging
	StatusFull
)

var statusNames = [...]string{
	StatusUnknown:     "Unknown",
	StatusCharging:    "Charging",
	StatusDischarging: "Discharging",
	StatusNotCharging: "NotCharging",
	StatusFull:        "Full",
}

// String returns the status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[StatusUnknown]
	}
	return statusNames[s]
}

// ParseStatus maps the content of a sysfs status file to a Status. Matching
// is exact and case-sensitive after trimming surrounding whitespace; every
// other value is StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.TrimSpace(s) {
	case "Charging":
		return StatusCharging
	case "Discharging":
		return StatusDischarging
	case "Full":
		return StatusFull
	case "Not Charging":
		return StatusNotCharging
	default:
		return StatusUnknown
	}
}

// UnknownDuration is the time-till-empty reported when no finite estimate
// exists, e.g. while no current is drawn.
const UnknownDuration = time.Duration(math.MaxInt64)

// Info is one battery sample.
type Info struct {
	Status   Status
	Capacity uint64 // percent, 0-100

	// TimeTillEmpty is UnknownDuration when it cannot be estimated.
	TimeTillEmpty time.Duration
}

// TimeKnown reports whether TimeTillEmpty holds a finite estimate.
func (i Info) TimeKnown() bool {
	return i.TimeTillEmpty != UnknownDuration
}

// TimeTillEmpty estimates the remaining runtime from the remaining charge
// (µAh or µWh) and the instantaneous draw (µA or µW): 3600 * charge/current
// seconds. A zero draw, or an estimate too large for time.Duration, yields
// UnknownDuration.
func TimeTillEmpty(charge, current uint64) time.Duration {
	if current == 0 {
		return UnknownDuration
	}
	secs := 3600 * float64(charge) / float64(current)
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs >= float64(math.MaxInt64)/float64(time.Second) {
		return UnknownDuration
	}
	return time.Duration(secs * float64(time.Second))
}
