package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// DefaultBatteryPath is the battery directory used when none is configured.
const DefaultBatteryPath = "/sys/class/power_supply/BAT1/"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/bar-pulse/config.toml
//  2. ~/.config/bar-pulse/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	paths := configSearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err := LoadFromYAML(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	default:
		cfg, err := LoadFromReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromYAML reads YAML configuration from an io.Reader.
func LoadFromYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			Theme:     "default",
			Output:    OutputAuto,
			Separator: " ",
			Order:     []string{"battery", "memory"},

			HealthInterval: Duration{10 * time.Second},
		},
		Style: StyleConfig{
			Font:       "monospace",
			Foreground: "#ffffff",
			Padding:    text.NewPadding(5, 5, 0, 0),
		},
		Widgets: WidgetsConfig{
			Battery: BatteryWidgetConfig{
				Enabled:  true,
				Interval: Duration{30 * time.Second},
				Path:     DefaultBatteryPath,
				Render:   "default",
			},
			Memory: MemoryWidgetConfig{
				Enabled:  true,
				Interval: Duration{1 * time.Second},
				Render:   "default",
			},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BAR_PULSE_THEME"); v != "" {
		cfg.General.Theme = v
	}
	if v := os.Getenv("BAR_PULSE_BATTERY_PATH"); v != "" {
		cfg.Widgets.Battery.Path = v
	}
	if v := os.Getenv("BAR_PULSE_OUTPUT"); v != "" {
		cfg.General.Output = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "bar-pulse", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "bar-pulse", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
