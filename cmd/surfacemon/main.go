// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"gioui.org/surface"
	"gioui.org/surface/internal/config"
)

var (
	configPath = flag.String("config", "", "configuration file (default $XDG_CONFIG_HOME/surfacemon/config.yaml)")
	display    = flag.String("display", "", "X11 display, overriding the configuration")
	frames     = flag.Int("frames", 0, "stop after this many frames (0 runs until closed)")
	offscreen  = flag.Bool("offscreen", false, "render into an offscreen surface")
	outPath    = flag.String("o", "", "write the last offscreen frame to this PNG file")
	interval   = flag.Int("interval", -1, "swap interval override")
	verbose    = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
	}
	flag.Parse()
	if err := mainErr(); err != nil {
		fmt.Fprintf(os.Stderr, "surfacemon: %v\n", err)
		os.Exit(1)
	}
}

func mainErr() error {
	if flag.NArg() != 0 {
		return errors.New("unexpected arguments")
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *display != "" {
		cfg.Window.Display = *display
	}
	if *interval >= 0 {
		cfg.Surface.SwapInterval = interval
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if *verbose {
		level = slog.LevelDebug
	}
	surface.SetLogger(newLogger(logOutput(), level))
	if *offscreen {
		return runOffscreen(cfg, *frames, *outPath)
	}
	if *outPath != "" {
		return errors.New("-o requires -offscreen")
	}
	return runWindow(cfg, *frames)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

// newLogger logs text to terminals and JSON everywhere else.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
