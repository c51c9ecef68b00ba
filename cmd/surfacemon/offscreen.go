// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"gioui.org/surface/egl"
	"gioui.org/surface/internal/config"
	"gioui.org/surface/internal/soft"
)

const defaultOffscreenFrames = 60

// runOffscreen renders frames into a software pbuffer and optionally
// saves the last one.
func runOffscreen(cfg *config.Config, frames int, out string) error {
	if frames <= 0 {
		frames = defaultOffscreenFrames
	}
	d, err := egl.NewDisplay(soft.NewRenderer(nil), cfg)
	if err != nil {
		return err
	}
	defer d.Terminate()
	s, err := d.CreatePbufferSurface(0, egl.WithSize(cfg.Window.Width, cfg.Window.Height))
	if err != nil {
		return fmt.Errorf("create pbuffer: %w", err)
	}
	m, err := newMonitor(d, s)
	if err != nil {
		return err
	}
	defer m.close()
	for range frames {
		if err := m.step(); err != nil {
			return err
		}
	}
	if out == "" {
		return nil
	}
	sc, ok := s.SwapChain().(*soft.SwapChain)
	if !ok {
		return errors.New("no software swap chain to save")
	}
	return writePNG(out, sc.FrontBuffer())
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
