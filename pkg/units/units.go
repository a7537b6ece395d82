// Package units converts raw byte counts into the binary-prefixed units shown
// on the bar. Used quantities are printed with one decimal place; totals use
// go-humanize's natural precision (one decimal below 10, none above).
package units

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

var binaryUnits = []struct {
	size uint64
	name string
}{
	{humanize.EiByte, "EiB"},
	{humanize.PiByte, "PiB"},
	{humanize.TiByte, "TiB"},
	{humanize.GiByte, "GiB"},
	{humanize.MiByte, "MiB"},
	{humanize.KiByte, "KiB"},
}

// Adjust returns b expressed in the largest binary unit that keeps the value
// at or above 1. Counts below one KiB are returned in bytes.
func Adjust(b uint64) (float64, string) {
	for _, u := range binaryUnits {
		if b >= u.size {
			return float64(b) / float64(u.size), u.name
		}
	}
	return float64(b), "B"
}

// FormatUsed renders b with one decimal place, e.g. "4.0 GiB". A value that
// rounds up to 1024 of its unit moves to the next unit ("1.0 GiB", not
// "1024.0 MiB").
func FormatUsed(b uint64) string {
	v, unit := Adjust(b)
	if unit == "B" {
		return fmt.Sprintf("%d B", b)
	}
	if math.Round(v*10)/10 >= 1024 {
		if next, ok := nextUnit(unit); ok {
			v, unit = v/1024, next
		}
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// nextUnit returns the unit 1024 times larger than unit.
func nextUnit(unit string) (string, bool) {
	for i := 1; i < len(binaryUnits); i++ {
		if binaryUnits[i].name == unit {
			return binaryUnits[i-1].name, true
		}
	}
	return "", false
}

// FormatTotal renders b in its natural precision, e.g. "16 GiB" or "2.0 GiB".
func FormatTotal(b uint64) string {
	return humanize.IBytes(b)
}

// Percent returns used as a percentage of total, or 0 when total is 0.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
