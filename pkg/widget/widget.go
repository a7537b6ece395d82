// Package widget turns samplers into periodic, cancellable streams of
// display fragments. A Sampler reads one data source and renders it; a
// PeriodicWidget fires it on its own timer; the Registry and Runner let a
// compositor run several widgets side by side and merge their output.
package widget

import (
	"context"
	"errors"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

var (
	// ErrNoData marks a tick that produced nothing to display. Samplers wrap
	// it for recoverable read and parse failures.
	ErrNoData = errors.New("no data this tick")

	// ErrEmptyBatch is reported when a sampler returns neither fragments nor
	// an error.
	ErrEmptyBatch = errors.New("sampler returned no fragments")

	// ErrSamplerPanic wraps a panic recovered from a sampler tick.
	ErrSamplerPanic = errors.New("sampler panicked")

	// ErrAlreadyStarted is returned when Stream is called twice. Streams are
	// not restartable; build a new widget instead.
	ErrAlreadyStarted = errors.New("widget stream already started")

	// ErrInvalidInterval is returned by New for a non-positive interval.
	ErrInvalidInterval = errors.New("widget interval must be positive")
)

// Sampler is implemented by every data source (battery, memory). Tick
// performs one synchronous read-and-render cycle.
type Sampler interface {
	// Name returns a unique identifier such as "battery" or "memory".
	Name() string

	// Tick reads the source and returns at least one fragment, or an error
	// for this tick only.
	Tick(ctx context.Context) ([]text.Text, error)
}

// Batch is the output of one tick.
type Batch struct {
	// Seq numbers the batches of one stream starting at 1. Batches produced
	// outside a stream (Runner.RunOnce) carry 0.
	Seq       uint64
	Fragments []text.Text
	Err       error
	Time      time.Time
	Latency   time.Duration
}
