// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

// Package x11 wraps the X11 queries and drawing used by window bindings
// and the software presenter.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Conn is a connection to an X server.
type Conn struct {
	XU   *xgbutil.XUtil
	Root xproto.Window
	// RandR reports whether screen change notifications are available.
	RandR bool
}

// Open connects to display, or $DISPLAY if empty.
func Open(display string) (*Conn, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	c := &Conn{XU: xu, Root: xu.RootWin()}
	if err := randr.Init(xu.Conn()); err == nil {
		c.RandR = true
	}
	return c, nil
}

func (c *Conn) Close() {
	c.XU.Conn().Close()
}

// SelectScreenChange asks for RandR screen change notifications on the
// root window.
func (c *Conn) SelectScreenChange() error {
	if !c.RandR {
		return fmt.Errorf("x11: RandR not available")
	}
	return randr.SelectInputChecked(c.XU.Conn(), c.Root, randr.NotifyMaskScreenChange).Check()
}

// ScreenRotation returns the current rotation of the root window's
// screen.
func (c *Conn) ScreenRotation() (uint16, error) {
	if !c.RandR {
		return randr.RotationRotate0, nil
	}
	info, err := randr.GetScreenInfo(c.XU.Conn(), c.Root).Reply()
	if err != nil {
		return 0, fmt.Errorf("x11: screen info: %w", err)
	}
	return info.Rotation, nil
}

// DPI returns the horizontal resolution of the default screen.
func (c *Conn) DPI() float32 {
	s := c.XU.Screen()
	if s.WidthInMillimeters == 0 {
		return 96
	}
	return float32(s.WidthInPixels) * 25.4 / float32(s.WidthInMillimeters)
}

// Geometry returns the size of win in pixels.
func (c *Conn) Geometry(win xproto.Window) (int, int, error) {
	g, err := xwindow.New(c.XU, win).Geometry()
	if err != nil {
		return 0, 0, err
	}
	return g.Width(), g.Height(), nil
}

// Minimized reports whether win is iconified or hidden by the window
// manager.
func (c *Conn) Minimized(win xproto.Window) bool {
	if st, err := icccm.WmStateGet(c.XU, win); err == nil && st.State == icccm.StateIconic {
		return true
	}
	states, err := ewmh.WmStateGet(c.XU, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// Listen selects structure notifications (size changes) for win.
func (c *Conn) Listen(win xproto.Window) error {
	return xwindow.New(c.XU, win).Listen(xproto.EventMaskStructureNotify)
}

// CreateWindow creates and maps a top-level window. onClose runs when
// the window manager asks the window to close.
func (c *Conn) CreateWindow(title string, width, height int, onClose func()) (xproto.Window, error) {
	w, err := xwindow.Generate(c.XU)
	if err != nil {
		return 0, fmt.Errorf("x11: generate window id: %w", err)
	}
	err = w.CreateChecked(c.Root, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0, xproto.EventMaskStructureNotify|xproto.EventMaskExposure)
	if err != nil {
		return 0, fmt.Errorf("x11: create window: %w", err)
	}
	if err := ewmh.WmNameSet(c.XU, w.Id, title); err != nil {
		return 0, fmt.Errorf("x11: set title: %w", err)
	}
	w.WMGracefulClose(func(w *xwindow.Window) {
		xevent.Detach(w.X, w.Id)
		w.Destroy()
		if onClose != nil {
			onClose()
		}
	})
	w.Map()
	return w.Id, nil
}
