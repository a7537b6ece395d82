// bar-pulse samples battery and memory state on independent timers and
// writes a status line for a bar, a terminal or i3bar.
//
// Usage:
//
//	bar-pulse [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/bar-pulse/config.toml)
//	-output string    Output format override (auto|plain|ansi|i3bar)
//	-theme string     Theme name or TOML theme file override
//	-once             Sample every widget once, print one line and exit
//	-log-file string  Also append logs to this file
//	-list-themes      Print available theme names and exit
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/bar"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/config"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/health"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/terminal"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/theme"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/widget"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code. Deferred cleanup must finish before main
// calls os.Exit.
func run(args []string) int {
	fs := flag.NewFlagSet("bar-pulse", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "Path to configuration file")
		output      = fs.String("output", "", "Output format override (auto|plain|ansi|i3bar)")
		themeRef    = fs.String("theme", "", "Theme name or TOML theme file override")
		once        = fs.Bool("once", false, "Sample every widget once, print one line and exit")
		logPath     = fs.String("log-file", "", "Also append logs to this file")
		listThemes  = fs.Bool("list-themes", false, "Print available theme names and exit")
		verbose     = fs.Bool("verbose", false, "Enable verbose logging")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("bar-pulse %s (%s) built %s\n", version, commit, date)
		return 0
	}

	if *listThemes {
		fmt.Println(strings.Join(theme.Names(), "\n"))
		return 0
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *output != "" {
		cfg.General.Output = *output
	}
	if *themeRef != "" {
		cfg.General.Theme = *themeRef
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	// Setup logging - stderr, plus the log file when requested
	logLevel := parseLevel(cfg.General.LogLevel)
	if *verbose {
		logLevel = slog.LevelDebug
	}
	var logOut io.Writer = os.Stderr
	if *logPath != "" {
		if err := os.MkdirAll(filepath.Dir(*logPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
			return 1
		}
		logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stderr, logFile)
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	th, err := theme.Resolve(cfg.General.Theme)
	if err != nil {
		logger.Error("failed to load theme", "error", err)
		return 1
	}

	// Misconfigured widgets (e.g. a battery path that does not exist) are
	// fatal here, never later.
	reg, err := buildRegistry(cfg, th, logger)
	if err != nil {
		logger.Error("failed to build widgets", "error", err)
		return 1
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	b, err := newBar(ctx, cfg, os.Stdout, logger)
	if err != nil {
		logger.Error("failed to set up output", "error", err)
		return 1
	}

	updates := make(chan widget.Update, widget.DefaultUpdateBufferSize)
	runner := widget.NewRunner(reg, updates, widget.WithLogger(logger))

	if *once {
		if err := runOnce(ctx, reg, runner, b, logger); err != nil {
			logger.Error("sampling failed", "error", err)
			return 1
		}
		return 0
	}

	if err := runner.Start(ctx); err != nil {
		logger.Error("failed to start widgets", "error", err)
		return 1
	}
	defer runner.Stop()

	if cfg.General.HealthFile != "" {
		go writeHealth(ctx, reg, cfg.General.HealthFile, cfg.General.HealthInterval.Duration, logger)
	}

	logger.Info("bar-pulse started", "version", version, "widgets", reg.List(), "output", cfg.General.Output)
	if err := b.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("output failed", "error", err)
		return 1
	}
	return 0
}

// newBar picks the output format and builds the compositor.
func newBar(ctx context.Context, cfg *config.Config, out *os.File, logger *slog.Logger) (*bar.Bar, error) {
	format := cfg.General.Output
	if format == config.OutputAuto {
		format = terminal.AutoOutput(out)
	}

	opts := bar.Options{
		Format:    format,
		Separator: cfg.General.Separator,
		Order:     cfg.General.Order,
		Logger:    logger,
	}
	switch format {
	case bar.FormatANSI:
		profile := terminal.ColorProfile()
		if cfg.General.ColorProfile != "" {
			profile = markup.ParseProfile(cfg.General.ColorProfile)
		}
		opts.Renderer = markup.NewRenderer(out, profile)
		opts.Width = func() int { return terminal.Width(out) }
	case bar.FormatI3bar:
		opts.Instance = bar.Hostname(ctx)
	}
	return bar.New(out, opts)
}

// runOnce samples every widget once and prints a single line. Failed
// widgets are logged and left out.
func runOnce(ctx context.Context, reg *widget.Registry, runner *widget.Runner, b *bar.Bar, logger *slog.Logger) error {
	for _, name := range reg.List() {
		frags, err := runner.RunOnce(ctx, name)
		if err != nil {
			logger.Warn("widget failed", "widget", name, "error", err)
			continue
		}
		b.Set(name, frags)
	}
	return b.Flush()
}

// writeHealth refreshes the health file until ctx is done.
func writeHealth(ctx context.Context, reg *widget.Registry, path string, every time.Duration, logger *slog.Logger) {
	started := time.Now()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := health.WriteFile(path, health.NewReport(started, now, reg.AllStatus())); err != nil {
				logger.Warn("failed to write health file", "path", path, "error", err)
			}
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
