// Package theme holds the named color palettes used by the reference render
// hooks and the terminal output. Themes are either built in or loaded from
// TOML files.
package theme

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Theme is the palette for one bar.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#1a1b26"
	Foreground string // normal text
	Dim        string // brackets, separators
	Accent     string

	// Status colors
	StatusOK      string // green - healthy, high battery
	StatusWarn    string // yellow - warning
	StatusError   string // red - critical
	StatusUnknown string // gray - unknown
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup is Get without the fallback.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register validates t and adds it under its lowercase name, replacing any
// theme of the same name.
func Register(t Theme) error {
	if err := thValidateTheme(t); err != nil {
		return err
	}
	thRegister(t)
	return nil
}

// Resolve returns the theme called ref, or loads and registers ref as a
// TOML file when it names one (anything ending in ".toml").
func Resolve(ref string) (Theme, error) {
	if !strings.HasSuffix(ref, ".toml") {
		t, ok := Lookup(ref)
		if !ok {
			return Theme{}, fmt.Errorf("theme: unknown theme %q (have %s)", ref, strings.Join(Names(), ", "))
		}
		return t, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", ref, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", ref, err)
	}
	thRegister(t)
	return t, nil
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
