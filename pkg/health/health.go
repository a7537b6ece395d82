// Package health writes a JSON snapshot of widget status to disk so that
// scripts can tell whether the bar's data sources are working.
package health

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the content of the health file.
type Report struct {
	PID       int            `json:"pid"`
	StartedAt time.Time      `json:"started_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Healthy   bool           `json:"healthy"`
	Widgets   []WidgetHealth `json:"widgets"`
}

// WidgetHealth is the status of one widget.
type WidgetHealth struct {
	Name        string    `json:"name"`
	Healthy     bool      `json:"healthy"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastSeq     uint64    `json:"last_seq"`
	RunCount    int64     `json:"run_count"`
	ErrorCount  int64     `json:"error_count"`
	LastLatency string    `json:"last_latency,omitempty"`
}

// NewReport builds a report from registry statuses. The report is healthy
// when every widget is.
func NewReport(started, now time.Time, statuses []widget.Status) *Report {
	r := &Report{
		PID:       os.Getpid(),
		StartedAt: started,
		UpdatedAt: now,
		Healthy:   true,
		Widgets:   make([]WidgetHealth, 0, len(statuses)),
	}
	for _, s := range statuses {
		wh := WidgetHealth{
			Name:       s.Name,
			Healthy:    s.Healthy,
			LastRun:    s.LastRun,
			LastSeq:    s.LastSeq,
			RunCount:   s.RunCount,
			ErrorCount: s.ErrorCount,
		}
		if s.LastError != nil {
			wh.LastError = s.LastError.Error()
		}
		if s.LastLatency > 0 {
			wh.LastLatency = s.LastLatency.String()
		}
		if !s.Healthy {
			r.Healthy = false
		}
		r.Widgets = append(r.Widgets, wh)
	}
	return r
}

// WriteFile writes the report as indented JSON to path.
// The write is atomic: content goes to a temporary file first, then is
// renamed into place to prevent partial reads.
func WriteFile(path string, r *Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create health directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health report: %w", err)
	}

	// Unique per write; several processes may share path.
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp health file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp health file: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod temp health file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp health file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename health file: %w", err)
	}

	return nil
}

// ReadFile reads and parses a health file.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal health file: %w", err)
	}

	return &r, nil
}
