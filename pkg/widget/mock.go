package widget

import (
	"context"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// MockSampler implements Sampler for tests. It returns the configured
// fragments and error and counts calls.
type MockSampler struct {
	name string

	mu        sync.RWMutex
	fragments []text.Text
	err       error
	callCount atomic.Int64

	// TickFunc, if set, overrides the default Tick behavior.
	TickFunc func(ctx context.Context) ([]text.Text, error)
}

// MockOption configures a MockSampler.
type MockOption func(*MockSampler)

// WithText makes Tick return one plain fragment with s.
func WithText(s string) MockOption {
	return func(m *MockSampler) { m.fragments = []text.Text{{Text: s}} }
}

// WithFragments sets the fragments returned by Tick.
func WithFragments(frags ...text.Text) MockOption {
	return func(m *MockSampler) { m.fragments = frags }
}

// WithError sets the error returned by Tick.
func WithError(err error) MockOption {
	return func(m *MockSampler) { m.err = err }
}

// WithTickFunc sets a custom Tick implementation.
func WithTickFunc(fn func(ctx context.Context) ([]text.Text, error)) MockOption {
	return func(m *MockSampler) { m.TickFunc = fn }
}

// NewMockSampler creates a mock sampler.
func NewMockSampler(name string, opts ...MockOption) *MockSampler {
	m := &MockSampler{name: name}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the sampler name.
func (m *MockSampler) Name() string { return m.name }

// SetError updates the returned error (thread-safe).
func (m *MockSampler) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Tick returns the configured result or delegates to TickFunc.
func (m *MockSampler) Tick(ctx context.Context) ([]text.Text, error) {
	m.callCount.Add(1)

	if m.TickFunc != nil {
		return m.TickFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fragments, m.err
}

// CallCount returns how many times Tick has been called.
func (m *MockSampler) CallCount() int64 {
	return m.callCount.Load()
}
