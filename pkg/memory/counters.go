package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v4/mem"
)

// ErrStale is returned by Counters.Usage when no Refresh happened since the
// previous read.
var ErrStale = errors.New("memory: counters not refreshed since last read")

// VirtualFunc and SwapFunc match the gopsutil calls used by Counters.
type (
	VirtualFunc func(context.Context) (*mem.VirtualMemoryStat, error)
	SwapFunc    func(context.Context) (*mem.SwapMemoryStat, error)
)

// Counters is a long-lived handle on the OS memory counters. Values only
// change on Refresh; Usage hands out each refreshed snapshot once.
type Counters struct {
	virtual VirtualFunc
	swap    SwapFunc

	mu    sync.Mutex
	snap  Usage
	fresh bool
}

// CountersOption configures Counters.
type CountersOption func(*Counters)

// WithVirtualFunc replaces mem.VirtualMemoryWithContext.
func WithVirtualFunc(fn VirtualFunc) CountersOption {
	return func(c *Counters) { c.virtual = fn }
}

// WithSwapFunc replaces mem.SwapMemoryWithContext.
func WithSwapFunc(fn SwapFunc) CountersOption {
	return func(c *Counters) { c.swap = fn }
}

// NewCounters returns a handle reading from gopsutil.
func NewCounters(opts ...CountersOption) *Counters {
	c := &Counters{
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh re-reads the OS counters. Missing swap is not an error; it reads
// as 0/0.
func (c *Counters) Refresh(ctx context.Context) error {
	vm, err := c.virtual(ctx)
	if err != nil {
		return fmt.Errorf("memory: virtual memory: %w", err)
	}

	var u Usage
	u.Memory = Pair{Used: vm.Used, Total: vm.Total}

	if sw, err := c.swap(ctx); err == nil && sw != nil {
		u.Swap = Pair{Used: sw.Used, Total: sw.Total}
	}

	c.mu.Lock()
	c.snap = u
	c.fresh = true
	c.mu.Unlock()
	return nil
}

// Usage returns the last refreshed snapshot and marks it consumed.
func (c *Counters) Usage() (Usage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fresh {
		return Usage{}, ErrStale
	}
	c.fresh = false
	return c.snap, nil
}
