// Package memory samples system memory and swap usage through gopsutil and
// renders it as a bar fragment.
package memory

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// Config configures a Memory sampler.
type Config struct {
	// Name identifies the widget; defaults to "memory".
	Name string

	Attr text.Attributes

	// Render is the optional custom render hook.
	Render widget.Renderer[Usage]

	Logger *slog.Logger
}

// Memory is a widget.Sampler that owns one Counters handle.
type Memory struct {
	name     string
	attr     text.Attributes
	hook     widget.Hook[Usage]
	counters *Counters
}

var _ widget.Sampler = (*Memory)(nil)

// Option configures a Memory sampler.
type Option func(*Memory)

// WithCounters replaces the gopsutil-backed handle.
func WithCounters(c *Counters) Option {
	return func(m *Memory) { m.counters = c }
}

// New creates a Memory sampler.
func New(cfg Config, opts ...Option) *Memory {
	name := cfg.Name
	if name == "" {
		name = "memory"
	}
	m := &Memory{
		name: name,
		attr: cfg.Attr,
		hook: widget.NewHook[Usage](cfg.Render, DefaultRenderer{}, cfg.Logger),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.counters == nil {
		m.counters = NewCounters()
	}
	return m
}

// Name returns the widget name.
func (m *Memory) Name() string { return m.name }

// Sample refreshes the counters and reads them.
func (m *Memory) Sample(ctx context.Context) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	if err := m.counters.Refresh(ctx); err != nil {
		return Usage{}, fmt.Errorf("%w: %w", widget.ErrNoData, err)
	}
	return m.counters.Usage()
}

// Tick implements widget.Sampler.
func (m *Memory) Tick(ctx context.Context) ([]text.Text, error) {
	u, err := m.Sample(ctx)
	if err != nil {
		return nil, err
	}
	return []text.Text{m.hook.Fragment(m.attr, u)}, nil
}

// DefaultRenderer is the built-in format, "(4.0 GiB/16 GiB) (0 B/2.0 GiB)".
type DefaultRenderer struct{}

// Render implements widget.Renderer.
func (DefaultRenderer) Render(u Usage) (string, error) {
	return fmt.Sprintf("(%s) (%s)", u.Memory, u.Swap), nil
}
