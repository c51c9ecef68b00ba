// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package wsi

import (
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"gioui.org/surface"
	"gioui.org/surface/internal/x11"
)

// X11Window binds a Surface to an X11 window. Size and rotation
// changes are delivered by the xevent loop of the window's connection.
type X11Window struct {
	conn *x11.Conn
	win  xproto.Window
	d    *dispatcher
	// rotation reports whether the connection delivers RandR screen
	// changes.
	rotation bool
}

var (
	x11Mu          sync.Mutex
	x11Dispatchers = make(map[*xgbutil.XUtil]*x11Dispatcher)
)

type x11Dispatcher struct {
	*dispatcher
	rotation bool
}

// NewX11Window selects structure notifications for win and attaches
// it to the event routing of c.
func NewX11Window(c *x11.Conn, win xproto.Window) (*X11Window, error) {
	if err := c.Listen(win); err != nil {
		return nil, err
	}
	xd := connDispatcher(c)
	return &X11Window{conn: c, win: win, d: xd.dispatcher, rotation: xd.rotation}, nil
}

// connDispatcher returns the dispatcher of c, hooking it into the event
// loop on first use. xevent hooks cannot be removed, so there is exactly
// one per connection.
func connDispatcher(c *x11.Conn) *x11Dispatcher {
	x11Mu.Lock()
	defer x11Mu.Unlock()
	if xd, ok := x11Dispatchers[c.XU]; ok {
		return xd
	}
	xd := &x11Dispatcher{dispatcher: newDispatcher()}
	if err := c.SelectScreenChange(); err != nil {
		surface.Logger().Debug("wsi: no screen change notifications", "err", err)
	} else {
		xd.rotation = true
		if bits, err := c.ScreenRotation(); err == nil {
			xd.dispatcher.rotation = x11.Rotation(bits)
		}
	}
	xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			xd.resized(surface.NativeWindow(e.Window), int(e.Width), int(e.Height))
		case randr.ScreenChangeNotifyEvent:
			xd.rotated(x11.Rotation(uint16(e.Rotation)))
		}
		return true
	}).Connect(c.XU)
	x11Dispatchers[c.XU] = xd
	return xd
}

func (w *X11Window) Window() surface.NativeWindow {
	return surface.NativeWindow(w.win)
}

// ClientSize returns the window size in pixels.
func (w *X11Window) ClientSize() (int, int, error) {
	return w.conn.Geometry(w.win)
}

func (w *X11Window) Minimized() bool {
	return w.conn.Minimized(w.win)
}

// ScaleFactor is 1; X11 sizes are pixels.
func (w *X11Window) ScaleFactor() float32 {
	return 1
}

// Rotation returns the current screen rotation. It makes X11Window a
// surface.OrientationSource.
func (w *X11Window) Rotation() surface.SwapFlags {
	w.d.mu.Lock()
	defer w.d.mu.Unlock()
	return w.d.rotation
}

// Subscribe implements surface.EventSource. X11 has no per-window DPI
// notifications.
func (w *X11Window) Subscribe(kind surface.EventKind, fn func(surface.Event)) (surface.Token, error) {
	switch kind {
	case surface.EventSizeChanged:
	case surface.EventOrientationChanged:
		if !w.rotation {
			return 0, surface.ErrUnsupportedEvent
		}
	default:
		return 0, surface.ErrUnsupportedEvent
	}
	return w.d.subscribe(kind, w.Window(), fn), nil
}

func (w *X11Window) Unsubscribe(tok surface.Token) {
	w.d.unsubscribe(tok)
}

// Close forgets the size history of the window.
func (w *X11Window) Close() {
	w.d.forget(w.Window())
}
