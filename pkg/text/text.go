// Package text defines the display fragment produced by every bar-pulse
// widget. A fragment is opaque to the samplers: they copy the widget's style
// attributes into it unchanged and fill in the rendered string.
package text

import (
	"strconv"
	"strings"
)

// Padding is the space around a fragment, in pixels for graphical bars and
// in cells for terminal output.
type Padding struct {
	Left   float64 `toml:"left" yaml:"left"`
	Right  float64 `toml:"right" yaml:"right"`
	Top    float64 `toml:"top" yaml:"top"`
	Bottom float64 `toml:"bottom" yaml:"bottom"`
}

// NewPadding returns a Padding in left, right, top, bottom order.
func NewPadding(left, right, top, bottom float64) Padding {
	return Padding{Left: left, Right: right, Top: top, Bottom: bottom}
}

// Attributes holds the style of a fragment. Colors are hex strings like
// "#ffffff"; an empty Background means transparent.
type Attributes struct {
	Font       string
	Foreground string
	Background string
	Padding    Padding
}

// Text is one renderable unit of status-bar output.
type Text struct {
	Attr Attributes

	// Text is the payload. When Markup is true it must be parsed as inline
	// markup; otherwise it is displayed verbatim.
	Text string

	// Stretch asks the compositor to expand this fragment into free space.
	Stretch bool

	// Markup is set when the widget was built with a custom render hook.
	Markup bool
}

// New builds a non-stretching fragment.
func New(attr Attributes, s string, markup bool) Text {
	return Text{Attr: attr, Text: s, Markup: markup}
}

// ParseHex parses "#RRGGBB" or "RRGGBB" into its components.
func ParseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}

// Hex formats r, g, b as "#rrggbb".
func Hex(r, g, b uint8) string {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{r, g, b} {
		buf[1+i*2] = digits[v>>4]
		buf[2+i*2] = digits[v&0x0f]
	}
	return string(buf)
}
