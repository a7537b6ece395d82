// Package battery samples a Linux power_supply battery directory
// (/sys/class/power_supply/BATn) and renders it as a bar fragment.
//
// Every tick reads current_now, charge_now, capacity and status afresh; no
// value is cached between ticks. Batteries that report energy instead of
// charge (energy_now, power_now) are read the same way, since the
// time-remaining ratio does not depend on the unit.
package battery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// DefaultRoot is where the kernel exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

var (
	// ErrNoBattery is returned by New when the configured directory does not
	// exist. It is a construction error, not a tick error.
	ErrNoBattery = errors.New("battery: directory not found")

	// ErrRead marks a tick whose source file could not be read.
	ErrRead = fmt.Errorf("battery: read: %w", widget.ErrNoData)

	// ErrParse marks a tick whose numeric file held something other than a
	// non-negative integer.
	ErrParse = fmt.Errorf("battery: parse: %w", widget.ErrNoData)
)

// Config configures a Battery sampler.
type Config struct {
	// Name identifies the widget; defaults to "battery".
	Name string

	// Path is the battery directory, e.g. /sys/class/power_supply/BAT1.
	Path string

	Attr text.Attributes

	// Render is the optional custom render hook. When nil the plain default
	// format is used and fragments carry no markup.
	Render widget.Renderer[Info]

	// FS replaces the directory at Path. Used by tests.
	FS fs.FS

	Logger *slog.Logger
}

// Battery is a widget.Sampler for one battery.
type Battery struct {
	name string
	fsys fs.FS
	attr text.Attributes
	hook widget.Hook[Info]
}

var _ widget.Sampler = (*Battery)(nil)

// New validates cfg and returns a sampler. A missing battery directory is
// reported here so that misconfiguration fails at startup.
func New(cfg Config) (*Battery, error) {
	name := cfg.Name
	if name == "" {
		name = "battery"
	}

	fsys := cfg.FS
	if fsys == nil {
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: empty path", ErrNoBattery)
		}
		fi, err := os.Stat(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoBattery, cfg.Path, err)
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrNoBattery, cfg.Path)
		}
		fsys = os.DirFS(cfg.Path)
	}

	return &Battery{
		name: name,
		fsys: fsys,
		attr: cfg.Attr,
		hook: widget.NewHook[Info](cfg.Render, DefaultRenderer{}, cfg.Logger),
	}, nil
}

// Name returns the widget name.
func (b *Battery) Name() string { return b.name }

// Read samples the battery once.
func (b *Battery) Read(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	charge, current, err := b.readLevel()
	if err != nil {
		return Info{}, err
	}
	capacity, err := b.readUint("capacity")
	if err != nil {
		return Info{}, err
	}
	status, _, err := b.readFirst("status")
	if err != nil {
		return Info{}, err
	}

	return Info{
		Status:        ParseStatus(status),
		Capacity:      capacity,
		TimeTillEmpty: TimeTillEmpty(charge, current),
	}, nil
}

// Tick implements widget.Sampler.
func (b *Battery) Tick(ctx context.Context) ([]text.Text, error) {
	info, err := b.Read(ctx)
	if err != nil {
		return nil, err
	}
	return []text.Text{b.hook.Fragment(b.attr, info)}, nil
}

// levelFiles are the (remaining, rate) pairs a battery may expose. Charge
// in µAh goes with current in µA; energy in µWh goes with power in µW. The
// units of one pair are never mixed with the other.
var levelFiles = [][2]string{
	{"charge_now", "current_now"},
	{"energy_now", "power_now"},
}

// readLevel reads the first pair in levelFiles whose remaining-capacity file
// exists.
func (b *Battery) readLevel() (remaining, rate uint64, err error) {
	var firstErr error
	for _, pair := range levelFiles {
		remaining, err = b.readUint(pair[0])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, 0, err
		}
		rate, err = b.readUint(pair[1])
		if err != nil {
			return 0, 0, err
		}
		return remaining, rate, nil
	}
	return 0, 0, firstErr
}

func (b *Battery) readUint(names ...string) (uint64, error) {
	raw, name, err := b.readFirst(names...)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	return v, nil
}

// readFirst returns the content of the first of names that exists. Only a
// missing file moves on to the next name.
func (b *Battery) readFirst(names ...string) (string, string, error) {
	var firstErr error
	for _, name := range names {
		data, err := fs.ReadFile(b.fsys, name)
		if err == nil {
			return string(data), name, nil
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s: %w", ErrRead, name, err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			break
		}
	}
	return "", "", firstErr
}

// DefaultRenderer is the built-in plain-text format,
// "Discharging : 73%, : 4h0m0s".
type DefaultRenderer struct{}

// Render implements widget.Renderer.
func (DefaultRenderer) Render(i Info) (string, error) {
	return fmt.Sprintf("%s : %d%%, : %s", i.Status, i.Capacity, FormatDuration(i.TimeTillEmpty)), nil
}

// FormatDuration prints d rounded to the second, or "unknown".
func FormatDuration(d time.Duration) string {
	if d == UnknownDuration {
		return "unknown"
	}
	return d.Round(time.Second).String()
}

// Discover lists battery directories under root (normally DefaultRoot),
// sorted by name. A supply counts as a battery when its type file says
// "Battery"; supplies without a type file are matched by a BAT prefix.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("battery: discover %s: %w", root, err)
	}

	var found []string
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		typ, err := os.ReadFile(filepath.Join(dir, "type"))
		switch {
		case err == nil && strings.TrimSpace(string(typ)) == "Battery":
			found = append(found, dir)
		case err != nil && strings.HasPrefix(e.Name(), "BAT"):
			found = append(found, dir)
		}
	}
	sort.Strings(found)
	return found, nil
}
