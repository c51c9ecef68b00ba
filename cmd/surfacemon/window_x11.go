// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgbutil/xevent"

	"gioui.org/surface"
	"gioui.org/surface/egl"
	"gioui.org/surface/internal/config"
	"gioui.org/surface/internal/soft"
	"gioui.org/surface/internal/x11"
	"gioui.org/surface/wsi"
)

// runWindow presents software frames to an X11 window. X events are
// handled by the xevent loop while this goroutine waits, so the surface
// is never used concurrently.
func runWindow(cfg *config.Config, frames int) error {
	conn, err := x11.Open(cfg.Window.Display)
	if err != nil {
		return err
	}
	defer conn.Close()
	closed := false
	win, err := conn.CreateWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, func() {
		closed = true
		xevent.Quit(conn.XU)
	})
	if err != nil {
		return err
	}
	binding, err := wsi.NewX11Window(conn, win)
	if err != nil {
		return fmt.Errorf("bind window: %w", err)
	}
	defer binding.Close()
	presenter := x11.NewPresenter(conn)
	defer presenter.Close()

	d, err := egl.NewDisplay(soft.NewRenderer(presenter), cfg)
	if err != nil {
		return err
	}
	defer d.Terminate()
	s, err := d.CreateWindowSurface(binding)
	if err != nil {
		return fmt.Errorf("create window surface: %w", err)
	}
	m, err := newMonitor(d, s)
	if err != nil {
		return err
	}
	defer m.close()
	surface.Logger().Info("surfacemon: x11 window", "window", win, "dpi", conn.DPI(), "randr", conn.RandR, "rotation", binding.Rotation())

	period := time.Second / 60 * time.Duration(max(s.SwapInterval(), 1))
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	before, after, quit := xevent.MainPing(conn.XU)
	for n := 0; frames == 0 || n < frames; {
		select {
		case <-before:
			<-after
		case <-quit:
			return nil
		case <-ticker.C:
			if closed {
				return nil
			}
			if err := m.step(); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}
