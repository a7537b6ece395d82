package config

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// Output modes for the bar writer.
const (
	OutputAuto  = "auto"
	OutputPlain = "plain"
	OutputANSI  = "ansi"
	OutputI3bar = "i3bar"
)

// Config is the top-level configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Style   StyleConfig   `toml:"style" yaml:"style"`
	Widgets WidgetsConfig `toml:"widgets" yaml:"widgets"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Theme is a built-in theme name or the path of a TOML theme file.
	Theme string `toml:"theme" yaml:"theme"`

	// Output is one of auto, plain, ansi, i3bar.
	Output string `toml:"output" yaml:"output"`

	// ColorProfile forces the ANSI color depth: ascii, ansi, ansi256 or
	// truecolor. Empty detects it from the environment.
	ColorProfile string `toml:"color_profile" yaml:"color_profile"`

	Separator string `toml:"separator" yaml:"separator"`

	// Order lists widget names left to right.
	Order []string `toml:"order" yaml:"order"`

	// HealthFile, when set, receives a JSON status report every
	// HealthInterval.
	HealthFile     string   `toml:"health_file" yaml:"health_file"`
	HealthInterval Duration `toml:"health_interval" yaml:"health_interval"`
}

// StyleConfig is the style shared by all widgets.
type StyleConfig struct {
	Font       string       `toml:"font" yaml:"font"`
	Foreground string       `toml:"foreground" yaml:"foreground"`
	Background string       `toml:"background" yaml:"background"`
	Padding    text.Padding `toml:"padding" yaml:"padding"`
}

// Attributes converts the style into fragment attributes.
func (s StyleConfig) Attributes() text.Attributes {
	return text.Attributes{
		Font:       s.Font,
		Foreground: s.Foreground,
		Background: s.Background,
		Padding:    s.Padding,
	}
}

// WidgetsConfig configures each widget.
type WidgetsConfig struct {
	Battery BatteryWidgetConfig `toml:"battery" yaml:"battery"`
	Memory  MemoryWidgetConfig  `toml:"memory" yaml:"memory"`
}

// BatteryWidgetConfig configures the battery widget.
type BatteryWidgetConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`

	// Path is the power_supply directory. "auto" picks the first battery
	// found under /sys/class/power_supply.
	Path string `toml:"path" yaml:"path"`

	// Render selects the render hook: "default" or "fancy".
	Render string `toml:"render" yaml:"render"`
}

// MemoryWidgetConfig configures the memory widget.
type MemoryWidgetConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
	Render   string   `toml:"render" yaml:"render"`
}

var validRenders = map[string]bool{"": true, "default": true, "fancy": true}

// Validate reports every problem in cfg at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.General.Output {
	case OutputAuto, OutputPlain, OutputANSI, OutputI3bar:
	default:
		errs = append(errs, fmt.Errorf("general.output: unknown mode %q", c.General.Output))
	}

	if p := c.General.ColorProfile; p != "" {
		if _, ok := markup.LookupProfile(p); !ok {
			errs = append(errs, fmt.Errorf("general.color_profile: unknown profile %q (want one of %s)",
				p, strings.Join(markup.ProfileNames, ", ")))
		}
	}

	switch strings.ToLower(c.General.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel))
	}

	for _, f := range []struct{ name, value string }{
		{"style.foreground", c.Style.Foreground},
		{"style.background", c.Style.Background},
	} {
		if f.value == "" {
			continue
		}
		if _, _, _, ok := text.ParseHex(f.value); !ok {
			errs = append(errs, fmt.Errorf("%s: invalid hex color %q", f.name, f.value))
		}
	}

	if c.General.HealthFile != "" && c.General.HealthInterval.Duration <= 0 {
		errs = append(errs, errors.New("general.health_interval: must be positive when health_file is set"))
	}

	seen := map[string]bool{}
	for _, name := range c.General.Order {
		if name != "battery" && name != "memory" {
			errs = append(errs, fmt.Errorf("general.order: unknown widget %q", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("general.order: %q listed twice", name))
		}
		seen[name] = true
	}

	b := c.Widgets.Battery
	if b.Enabled {
		if b.Interval.Duration <= 0 {
			errs = append(errs, errors.New("widgets.battery.interval: must be positive"))
		}
		if b.Path == "" {
			errs = append(errs, errors.New("widgets.battery.path: required"))
		}
	}
	if !validRenders[b.Render] {
		errs = append(errs, fmt.Errorf("widgets.battery.render: unknown style %q", b.Render))
	}

	m := c.Widgets.Memory
	if m.Enabled && m.Interval.Duration <= 0 {
		errs = append(errs, errors.New("widgets.memory.interval: must be positive"))
	}
	if !validRenders[m.Render] {
		errs = append(errs, fmt.Errorf("widgets.memory.render: unknown style %q", m.Render))
	}

	return errors.Join(errs...)
}
