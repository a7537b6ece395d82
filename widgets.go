package main

import (
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/battery"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/config"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/memory"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/render"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/theme"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

// batteryRoot is where "auto" looks for batteries.
var batteryRoot = battery.DefaultRoot

// buildRegistry constructs every enabled widget. Any construction error is
// returned so the process can exit before output starts.
func buildRegistry(cfg *config.Config, th theme.Theme, logger *slog.Logger) (*widget.Registry, error) {
	reg := widget.NewRegistry()
	attr := cfg.Style.Attributes()

	if bc := cfg.Widgets.Battery; bc.Enabled {
		path := bc.Path
		if path == "auto" {
			found, err := battery.Discover(batteryRoot)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, fmt.Errorf("%w: none under %s", battery.ErrNoBattery, batteryRoot)
			}
			path = found[0]
		}
		hook, err := render.BatteryHook(bc.Render, th)
		if err != nil {
			return nil, err
		}
		s, err := battery.New(battery.Config{
			Path:   path,
			Attr:   attr,
			Render: hook,
			Logger: logger.With("widget", "battery"),
		})
		if err != nil {
			return nil, err
		}
		if err := register(reg, s, bc.Interval.Duration); err != nil {
			return nil, err
		}
	}

	if mc := cfg.Widgets.Memory; mc.Enabled {
		hook, err := render.MemoryHook(mc.Render, th)
		if err != nil {
			return nil, err
		}
		s := memory.New(memory.Config{
			Attr:   attr,
			Render: hook,
			Logger: logger.With("widget", "memory"),
		})
		if err := register(reg, s, mc.Interval.Duration); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func register(reg *widget.Registry, s widget.Sampler, interval time.Duration) error {
	w, err := widget.New(s, interval)
	if err != nil {
		return err
	}
	return reg.Register(w)
}
