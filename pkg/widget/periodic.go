package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// ErrStopped is returned by Stream.Next once the stream has ended.
var ErrStopped = errors.New("widget stream stopped")

// PeriodicWidget fires a Sampler at a fixed interval. Each widget has its own
// timer; widgets share no state with each other.
type PeriodicWidget struct {
	sampler  Sampler
	interval time.Duration
	clock    clockwork.Clock

	// mu serializes ticks so RunOnce and a running stream never touch the
	// sampler at the same time.
	mu      sync.Mutex
	started atomic.Bool
}

// Option configures a PeriodicWidget.
type Option func(*PeriodicWidget)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(w *PeriodicWidget) { w.clock = c }
}

// New wraps s with the given polling interval.
func New(s Sampler, interval time.Duration, opts ...Option) (*PeriodicWidget, error) {
	if s == nil {
		return nil, errors.New("widget: nil sampler")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("widget %q: %w (got %v)", s.Name(), ErrInvalidInterval, interval)
	}
	w := &PeriodicWidget{
		sampler:  s,
		interval: interval,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name returns the sampler's name.
func (w *PeriodicWidget) Name() string { return w.sampler.Name() }

// Interval returns the polling interval.
func (w *PeriodicWidget) Interval() time.Duration { return w.interval }

// Tick runs one sample-and-render cycle outside of any stream.
func (w *PeriodicWidget) Tick(ctx context.Context) Batch {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := w.clock.Now()
	frags, err := w.safeTick(ctx)
	if err == nil && len(frags) == 0 {
		err = ErrEmptyBatch
	}
	if err != nil {
		frags = nil
	}
	return Batch{
		Fragments: frags,
		Err:       err,
		Time:      start,
		Latency:   w.clock.Since(start),
	}
}

func (w *PeriodicWidget) safeTick(ctx context.Context) (frags []text.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			frags, err = nil, fmt.Errorf("%w: %v", ErrSamplerPanic, r)
		}
	}()
	return w.sampler.Tick(ctx)
}

// Stream starts the widget's timer and returns the handle to its batches.
// The first batch arrives one full interval after the call. The next
// interval starts once the previous batch has been handed to the consumer,
// so a slow sampler or consumer delays later ticks rather than bunching them.
//
// The stream ends when ctx is cancelled or Stop is called. A widget can be
// streamed only once.
func (w *PeriodicWidget) Stream(ctx context.Context) (*Stream, error) {
	if !w.started.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("widget %q: %w", w.Name(), ErrAlreadyStarted)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Batch)
	done := make(chan struct{})
	go w.run(ctx, out, done)

	return &Stream{name: w.Name(), c: out, cancel: cancel, done: done}, nil
}

func (w *PeriodicWidget) run(ctx context.Context, out chan<- Batch, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	timer := w.clock.NewTimer(w.interval)
	defer timer.Stop()

	for seq := uint64(1); ; seq++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
		}

		b := w.Tick(ctx)
		b.Seq = seq

		select {
		case out <- b:
		case <-ctx.Done():
			return
		}
		timer.Reset(w.interval)
	}
}

// Stream is the consumer's handle on a running widget.
type Stream struct {
	name   string
	c      <-chan Batch
	cancel context.CancelFunc
	done   <-chan struct{}
}

// Name returns the widget name.
func (s *Stream) Name() string { return s.name }

// C returns the batch channel. It is closed when the stream ends.
func (s *Stream) C() <-chan Batch { return s.c }

// Done is closed once the stream goroutine has exited.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Next blocks for the next batch.
func (s *Stream) Next(ctx context.Context) (Batch, error) {
	select {
	case b, ok := <-s.c:
		if !ok {
			return Batch{}, ErrStopped
		}
		return b, nil
	case <-ctx.Done():
		return Batch{}, ctx.Err()
	}
}

// Stop cancels the stream and waits for its goroutine to exit. It is safe
// to call more than once.
func (s *Stream) Stop() {
	s.cancel()
	<-s.done
}
