package markup

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// ProfileNames lists the color profile names ParseProfile accepts.
var ProfileNames = []string{"ascii", "ansi", "ansi256", "truecolor"}

// ParseProfile maps a color profile name to a termenv profile. Recognized
// names are "truecolor", "ansi256", "ansi" and "ascii", plus the aliases
// "24bit", "256", "16" and "none". Anything else, including "" and "auto",
// uses the profile detected from the environment.
func ParseProfile(name string) termenv.Profile {
	if p, ok := LookupProfile(name); ok {
		return p
	}
	return termenv.EnvColorProfile()
}

// LookupProfile is ParseProfile without the environment fallback.
func LookupProfile(name string) (termenv.Profile, bool) {
	switch strings.ToLower(name) {
	case "truecolor", "24bit":
		return termenv.TrueColor, true
	case "ansi256", "256":
		return termenv.ANSI256, true
	case "ansi", "16":
		return termenv.ANSI, true
	case "ascii", "none":
		return termenv.Ascii, true
	}
	return termenv.Ascii, false
}

// NewRenderer returns a lipgloss renderer for w pinned to profile.
func NewRenderer(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return r
}

// ToANSI renders markup s as terminal escape sequences. Malformed markup is
// written as plain text so one bad hook cannot garble the whole line.
func ToANSI(s string, r *lipgloss.Renderer) string {
	return ToANSIBase(s, r, Run{})
}

// ToANSIBase is ToANSI with a base style: runs that set no color of their
// own inherit base's colors.
func ToANSIBase(s string, r *lipgloss.Renderer, base Run) string {
	runs, err := Parse(s)
	if err != nil {
		runs = []Run{{Text: s}}
	}

	var b strings.Builder
	for _, run := range runs {
		if run.Foreground == "" {
			run.Foreground = base.Foreground
		}
		if run.Background == "" {
			run.Background = base.Background
		}
		b.WriteString(StyleRun(run, r))
	}
	return b.String()
}

// StyleRun renders one run with r.
func StyleRun(run Run, r *lipgloss.Renderer) string {
	st := r.NewStyle()
	if run.Foreground != "" {
		st = st.Foreground(lipgloss.Color(run.Foreground))
	}
	if run.Background != "" {
		st = st.Background(lipgloss.Color(run.Background))
	}
	if run.Bold {
		st = st.Bold(true)
	}
	return st.Render(run.Text)
}

// VisibleWidth returns the width of s in terminal cells, ignoring markup
// when isMarkup is set and ANSI sequences always.
func VisibleWidth(s string, isMarkup bool) int {
	if isMarkup {
		s = Strip(s)
	}
	return ansi.StringWidth(s)
}
