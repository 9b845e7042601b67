// stackview is a terminal playground for the stack layout engine: a scrollable
// list of items that animate in, out and between positions, with swipe to
// dismiss, clear all and the dark transition.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/abelbrown/stackview/internal/config"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/ui"
)

// ringSize is how many trace events the debug overlay keeps.
const ringSize = 512

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config: %v", err)
	}

	level, err := log.ParseLevel(cfg.UI.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", cfg.UI.LogLevel)
		level = log.InfoLevel
	}
	if err := logging.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	trace, closeTrace := openTrace(cfg.UI.TraceFile)
	defer closeTrace()
	ring := otel.NewRingBuffer(ringSize)
	trace.SetRingBuffer(ring)
	trace.Info(otel.KindStartup, "main", "stackview starting")
	logging.Info("stackview starting", "config", config.Dir(), "trace", cfg.UI.TraceFile)

	app, err := ui.NewApp(cfg, trace, ring)
	if err != nil {
		fatal("Failed to build the stack: %v", err)
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		trace.Error(otel.KindError, "main", err)
		fatal("Error: %v", err)
	}

	trace.Info(otel.KindShutdown, "main", "stackview exiting")
	logging.Info("stackview exiting normally")
}

// openTrace returns a logger writing JSON lines to path, or one that only
// feeds the ring buffer when path is empty or cannot be opened.
func openTrace(path string) (*otel.Logger, func()) {
	if path == "" {
		l := otel.NewNullLogger()
		return l, l.Close
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logging.Warn("trace file unavailable", "path", path, "err", err)
		l := otel.NewNullLogger()
		return l, l.Close
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.Warn("trace file unavailable", "path", path, "err", err)
		l := otel.NewNullLogger()
		return l, l.Close
	}
	l := otel.NewLogger(f)
	return l, func() {
		l.Close()
		f.Close()
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
