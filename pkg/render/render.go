// Package render provides the themed render hooks used by the "fancy"
// widget style. Both emit markup spans, so fragments they produce are
// flagged as markup.
package render

import (
	"fmt"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/battery"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/memory"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/theme"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/units"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// Styles accepted by Lookup.
const (
	StyleDefault = "default"
	StyleFancy   = "fancy"
)

// CapacityColor picks the color for a charge percentage: ok at 50 and
// above, warn from 20, error below.
func CapacityColor(t theme.Theme, capacity uint64) string {
	switch {
	case capacity >= 50:
		return t.StatusOK
	case capacity >= 20:
		return t.StatusWarn
	default:
		return t.StatusError
	}
}

// LevelColor picks the color for a memory level.
func LevelColor(t theme.Theme, l memory.Level) string {
	return t.StatusColor(l.String())
}

// Battery renders "[🔋73%]", with a plug while charging.
func Battery(t theme.Theme) widget.RenderFunc[battery.Info] {
	return func(i battery.Info) string {
		icon := "🔋"
		if i.Status == battery.StatusCharging {
			icon = "🔌"
		}
		pct := fmt.Sprintf("%d%%", i.Capacity)
		return t.Bracket(icon + markup.Span(CapacityColor(t, i.Capacity), pct))
	}
}

// Memory renders "[🧠 used/total] [💾 used/total]" with the used value
// colored by its level.
func Memory(t theme.Theme) widget.RenderFunc[memory.Usage] {
	return func(u memory.Usage) string {
		return pair(t, "🧠", u.Memory) + " " + pair(t, "💾", u.Swap)
	}
}

func pair(t theme.Theme, icon string, p memory.Pair) string {
	used := markup.Span(LevelColor(t, p.Level()), units.FormatUsed(p.Used))
	return t.Bracket(icon + " " + used + "/" + units.FormatTotal(p.Total))
}

// BatteryHook returns the custom renderer for style, or nil for the plain
// default.
func BatteryHook(style string, t theme.Theme) (widget.Renderer[battery.Info], error) {
	switch style {
	case "", StyleDefault:
		return nil, nil
	case StyleFancy:
		return Battery(t), nil
	default:
		return nil, fmt.Errorf("render: unknown battery style %q", style)
	}
}

// MemoryHook is BatteryHook for the memory widget.
func MemoryHook(style string, t theme.Theme) (widget.Renderer[memory.Usage], error) {
	switch style {
	case "", StyleDefault:
		return nil, nil
	case StyleFancy:
		return Memory(t), nil
	default:
		return nil, fmt.Errorf("render: unknown memory style %q", style)
	}
}
