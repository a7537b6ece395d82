package bar

import (
	"context"
	"io"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/shirou/gopsutil/v4/host"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// i3barHeader opens the i3bar protocol stream.
type i3barHeader struct {
	Version int `json:"version"`
}

// i3barBlock is one entry of a status line.
type i3barBlock struct {
	FullText            string `json:"full_text"`
	Name                string `json:"name,omitempty"`
	Instance            string `json:"instance,omitempty"`
	Color               string `json:"color,omitempty"`
	Background          string `json:"background,omitempty"`
	SeparatorBlockWidth int    `json:"separator_block_width,omitempty"`
	Markup              string `json:"markup"`
}

// i3barEncoder writes the header on first use, then one JSON array per
// line as an element of the endless outer array.
type i3barEncoder struct {
	instance string
	started  bool
}

func (e *i3barEncoder) writeLine(w io.Writer, cells []cell) error {
	if !e.started {
		hdr, err := json.Marshal(i3barHeader{Version: 1})
		if err != nil {
			return err
		}
		if _, err := w.Write(append(hdr, "\n[\n"...)); err != nil {
			return err
		}
		e.started = true
	}

	blocks := make([]i3barBlock, 0, len(cells))
	for _, c := range cells {
		blocks = append(blocks, e.block(c))
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, ",\n"...))
	return err
}

func (e *i3barEncoder) block(c cell) i3barBlock {
	f := c.frag
	b := i3barBlock{
		FullText:            f.Text,
		Name:                c.source,
		Instance:            e.instance,
		Color:               f.Attr.Foreground,
		Background:          f.Attr.Background,
		SeparatorBlockWidth: int(math.Round(f.Attr.Padding.Left + f.Attr.Padding.Right)),
		Markup:              "none",
	}
	if f.Markup {
		b.Markup = "pango"
	}
	return b
}

// Hostname names this machine for the i3bar instance field.
func Hostname(ctx context.Context) string {
	if info, err := host.InfoWithContext(ctx); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, _ := os.Hostname()
	return name
}
