package widget

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status tracks the runtime state of a single widget. The runner updates it
// after every tick.
type Status struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	LastSeq     uint64
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

// Registry manages a set of named widgets. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	widgets  map[string]*PeriodicWidget
	statuses map[string]*Status
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		widgets:  make(map[string]*PeriodicWidget),
		statuses: make(map[string]*Status),
	}
}

// Register adds a widget. Names must be unique.
func (r *Registry) Register(w *PeriodicWidget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := w.Name()
	if _, exists := r.widgets[name]; exists {
		return fmt.Errorf("widget %q already registered", name)
	}

	r.widgets[name] = w
	r.statuses[name] = &Status{
		Name:    name,
		Healthy: true,
	}
	return nil
}

// Unregister removes a widget by name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.widgets, name)
	delete(r.statuses, name)
}

// Get returns the named widget.
func (r *Registry) Get(name string) (*PeriodicWidget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.widgets[name]
	return w, ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.widgets))
	for name := range r.widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status returns a copy of the named widget's status.
func (r *Registry) Status(name string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// AllStatus returns copies of all statuses sorted by name.
func (r *Registry) AllStatus() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Status, 0, len(r.statuses))
	for _, s := range r.statuses {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// record folds one batch into the named widget's status.
func (r *Registry) record(name string, b Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.statuses[name]
	if !ok {
		return
	}
	s.RunCount++
	s.LastRun = b.Time
	s.LastLatency = b.Latency
	if b.Seq > 0 {
		s.LastSeq = b.Seq
	}
	if b.Err != nil {
		s.ErrorCount++
		s.LastError = b.Err
		s.Healthy = false
		return
	}
	s.LastError = nil
	s.Healthy = true
}
