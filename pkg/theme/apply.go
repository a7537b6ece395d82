package theme

import (
	"strings"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
)

// StatusColor maps a status word to a palette color. "normal" is plain
// foreground; unrecognized words get StatusUnknown.
func (t Theme) StatusColor(status string) string {
	switch strings.ToLower(status) {
	case "normal":
		return t.Foreground
	case "ok", "healthy", "good", "charging", "full":
		return t.StatusOK
	case "warn", "warning", "low":
		return t.StatusWarn
	case "error", "err", "critical", "failed":
		return t.StatusError
	default:
		return t.StatusUnknown
	}
}

// Status wraps s in a foreground span for status.
func (t Theme) Status(status, s string) string {
	return markup.Span(t.StatusColor(status), s)
}

// Dimmed wraps s in a span using the dim color.
func (t Theme) Dimmed(s string) string {
	return markup.Span(t.Dim, s)
}

// Bracket surrounds inner with dimmed square brackets, "[inner]".
func (t Theme) Bracket(inner string) string {
	return t.Dimmed("[") + inner + t.Dimmed("]")
}
