// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gioui.org/surface"
	"gioui.org/surface/egl"
)

// monitor draws frames into one surface and logs how its size and
// rotation follow the window.
type monitor struct {
	d   *egl.Display
	s   *surface.Surface
	ctx *frameContext

	frame    int
	width    int
	height   int
	rotation surface.SwapFlags
}

// frameContext is the rendering context: it paints into whatever back
// buffer the draw surface currently has.
type frameContext struct {
	draw  *surface.Surface
	binds int
}

func (c *frameContext) Bind(draw, read *surface.Surface) error {
	c.draw = draw
	c.binds++
	return nil
}

func newMonitor(d *egl.Display, s *surface.Surface) (*monitor, error) {
	m := &monitor{d: d, s: s, ctx: new(frameContext)}
	if err := d.MakeCurrent(s, s, m.ctx); err != nil {
		return nil, fmt.Errorf("make current: %w", err)
	}
	m.width, m.height = s.Width(), s.Height()
	m.rotation = s.SwapFlags()
	surface.Logger().Info("surfacemon: surface ready",
		"width", m.width, "height", m.height,
		"interval", s.SwapInterval(), "present_mode", s.PresentMode(),
		"color", s.ColorFormat(), "depth", s.DepthStencilFormat(),
		"post_sub_buffer", s.PostSubBufferSupported())
	return m, nil
}

// step paints and presents one frame. Every eighth frame presents only
// a band through PostSubBuffer when the surface supports it.
func (m *monitor) step() error {
	m.paint()
	var err error
	if m.s.PostSubBufferSupported() && m.frame%8 == 7 {
		err = m.d.PostSubBuffer(m.s, 0, 0, m.s.Width(), max(m.s.Height()/4, 1))
	} else {
		err = m.d.SwapBuffers(m.s)
	}
	if err != nil {
		var e *egl.Error
		if errors.As(err, &e) && e.Code == egl.ContextLost {
			return fmt.Errorf("frame %d: device lost: %w", m.frame, err)
		}
		return fmt.Errorf("frame %d: %w", m.frame, err)
	}
	m.frame++
	m.observe()
	return nil
}

// observe logs size and rotation changes the surface picked up.
func (m *monitor) observe() {
	if w, h := m.s.Width(), m.s.Height(); w != m.width || h != m.height {
		surface.Logger().Info("surfacemon: surface resized",
			"frame", m.frame, "from", fmt.Sprintf("%dx%d", m.width, m.height), "to", fmt.Sprintf("%dx%d", w, h))
		m.width, m.height = w, h
	}
	if r := m.s.SwapFlags(); r != m.rotation {
		surface.Logger().Info("surfacemon: rotation changed", "frame", m.frame, "from", m.rotation, "to", r)
		m.rotation = r
	}
}

// paint fills the back buffer with a color cycling through the hue
// wheel.
func (m *monitor) paint() {
	if m.ctx.draw == nil {
		return
	}
	c := hue(m.frame)
	switch sc := m.ctx.draw.SwapChain().(type) {
	case interface{ BackBuffer() *image.RGBA }:
		if b := sc.BackBuffer(); b != nil {
			draw.Draw(b, b.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		}
	case interface{ Clear(r, g, b, a float32) }:
		sc.Clear(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 1)
	}
}

func (m *monitor) close() {
	if err := m.d.MakeCurrent(nil, nil, nil); err != nil {
		surface.Logger().Warn("surfacemon: release context", "err", err)
	}
	if err := m.d.DestroySurface(m.s); err != nil {
		surface.Logger().Warn("surfacemon: destroy surface", "err", err)
	}
	surface.Logger().Info("surfacemon: done", "frames", m.frame)
}

// hue returns a saturated color at position frame of a 360 frame cycle.
func hue(frame int) color.RGBA {
	h := frame % 360
	x := uint8(255 * (60 - abs(h%120-60)) / 60)
	switch h / 60 {
	case 0:
		return color.RGBA{255, x, 0, 255}
	case 1:
		return color.RGBA{x, 255, 0, 255}
	case 2:
		return color.RGBA{0, 255, x, 255}
	case 3:
		return color.RGBA{0, x, 255, 255}
	case 4:
		return color.RGBA{x, 0, 255, 255}
	default:
		return color.RGBA{255, 0, x, 255}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
