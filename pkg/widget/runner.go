package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// DefaultUpdateBufferSize is a reasonable capacity for the updates channel.
const DefaultUpdateBufferSize = 64

// Update carries one batch from a widget goroutine to the compositor.
type Update struct {
	Source    string
	Seq       uint64
	Fragments []text.Text
	Timestamp time.Time
	Error     error
}

// Runner streams every registered widget and fans the batches into one
// updates channel. A failing widget only affects its own updates.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	streams []*Stream
	wg      sync.WaitGroup
	started bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for tick failures.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner over r that sends to updates.
func NewRunner(r *Registry, updates chan<- Update, opts ...RunnerOption) *Runner {
	run := &Runner{
		registry: r,
		updates:  updates,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(run)
	}
	return run
}

// Start opens a stream for every registered widget. It returns once all
// streams are running.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return errors.New("runner already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	for _, name := range r.registry.List() {
		w, ok := r.registry.Get(name)
		if !ok {
			continue
		}
		st, err := w.Stream(ctx)
		if err != nil {
			cancel()
			for _, s := range r.streams {
				s.Stop()
			}
			r.streams = nil
			return fmt.Errorf("start %s: %w", name, err)
		}
		r.streams = append(r.streams, st)

		r.wg.Add(1)
		go r.forward(ctx, name, st)
	}

	r.cancel = cancel
	r.started = true
	r.logger.Debug("runner started", "widgets", len(r.streams))
	return nil
}

func (r *Runner) forward(ctx context.Context, name string, st *Stream) {
	defer r.wg.Done()

	for b := range st.C() {
		r.registry.record(name, b)
		if b.Err != nil {
			r.logger.Warn("widget tick failed", "widget", name, "seq", b.Seq, "error", b.Err)
		}

		select {
		case r.updates <- Update{
			Source:    name,
			Seq:       b.Seq,
			Fragments: b.Fragments,
			Timestamp: b.Time,
			Error:     b.Err,
		}:
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels every stream and waits for the forwarding goroutines. It is
// idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	for _, s := range r.streams {
		s.Stop()
	}
	r.wg.Wait()
}

// RunOnce performs a single tick of the named widget, records it, and
// returns its fragments.
func (r *Runner) RunOnce(ctx context.Context, name string) ([]text.Text, error) {
	w, ok := r.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("widget %q not registered", name)
	}
	b := w.Tick(ctx)
	r.registry.record(name, b)
	return b.Fragments, b.Err
}

// Health maps each widget name to whether its last tick succeeded.
func (r *Runner) Health() map[string]bool {
	statuses := r.registry.AllStatus()
	health := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		health[s.Name] = s.Healthy
	}
	return health
}
