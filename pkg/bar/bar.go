// Package bar is the compositor used by the bar-pulse binary. It keeps the
// latest fragments of every widget and writes one status line per update in
// plain, ANSI or i3bar format.
package bar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// Output formats.
const (
	FormatPlain = "plain"
	FormatANSI  = "ansi"
	FormatI3bar = "i3bar"
)

// Options configures a Bar.
type Options struct {
	// Format is one of FormatPlain, FormatANSI, FormatI3bar.
	Format string

	// Separator goes between fragments in plain and ANSI output.
	Separator string

	// Order lists widget names left to right. Widgets not listed are
	// appended in the order their first update arrives.
	Order []string

	// Width returns the line width stretch fragments fill. Nil or a
	// non-positive result disables stretching.
	Width func() int

	// Renderer styles ANSI output. Required for FormatANSI.
	Renderer *lipgloss.Renderer

	// Instance is reported as the i3bar block instance, normally the host
	// name.
	Instance string

	Logger *slog.Logger
}

// Bar serializes the outputs of several widgets into one line.
type Bar struct {
	w    io.Writer
	opts Options
	enc  lineEncoder

	mu     sync.Mutex
	order  []string
	latest map[string][]text.Text
}

// lineEncoder writes one complete status line.
type lineEncoder interface {
	writeLine(w io.Writer, cells []cell) error
}

// cell is one fragment together with the widget it came from.
type cell struct {
	source string
	frag   text.Text
}

// New creates a Bar writing to w.
func New(w io.Writer, opts Options) (*Bar, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	b := &Bar{
		w:      w,
		opts:   opts,
		latest: make(map[string][]text.Text),
	}
	b.order = append(b.order, opts.Order...)

	switch b.opts.Format {
	case FormatPlain, "":
		b.opts.Format = FormatPlain
		b.enc = &textEncoder{opts: &b.opts}
	case FormatANSI:
		if b.opts.Renderer == nil {
			b.opts.Renderer = lipgloss.NewRenderer(w)
		}
		b.enc = &textEncoder{opts: &b.opts, ansi: true}
	case FormatI3bar:
		b.enc = &i3barEncoder{instance: b.opts.Instance}
	default:
		return nil, fmt.Errorf("bar: unknown format %q", b.opts.Format)
	}
	return b, nil
}

// Set replaces the fragments shown for source without writing.
func (b *Bar) Set(source string, frags []text.Text) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set(source, frags)
}

func (b *Bar) set(source string, frags []text.Text) {
	if _, ok := b.latest[source]; !ok && !contains(b.order, source) {
		b.order = append(b.order, source)
	}
	b.latest[source] = frags
}

// Flush writes the current line.
func (b *Bar) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flush()
}

func (b *Bar) flush() error {
	var cells []cell
	for _, name := range b.order {
		for _, f := range b.latest[name] {
			cells = append(cells, cell{source: name, frag: f})
		}
	}
	return b.enc.writeLine(b.w, cells)
}

// Update applies one widget update and redraws. A failed tick keeps the
// widget's previous fragments on screen.
func (b *Bar) Update(u widget.Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if u.Error != nil {
		b.opts.Logger.Debug("keeping previous output", "widget", u.Source, "seq", u.Seq, "error", u.Error)
		return nil
	}
	b.set(u.Source, u.Fragments)
	return b.flush()
}

// Run applies updates until ctx is cancelled or updates is closed.
func (b *Bar) Run(ctx context.Context, updates <-chan widget.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.Update(u); err != nil {
				return fmt.Errorf("bar: write: %w", err)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
