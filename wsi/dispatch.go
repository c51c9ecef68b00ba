// SPDX-License-Identifier: Unlicense OR MIT

package wsi

import (
	"image"
	"sync"

	"gioui.org/surface"
)

// dispatcher routes decoded window system events to subscriptions. One
// dispatcher serves every window of a display connection.
type dispatcher struct {
	mu   sync.Mutex
	next surface.Token
	subs map[surface.Token]subscription
	// sizes is the last size seen per window; notifications that do not
	// change it are dropped.
	sizes    map[surface.NativeWindow]image.Point
	rotation surface.SwapFlags
}

type subscription struct {
	kind   surface.EventKind
	window surface.NativeWindow
	fn     func(surface.Event)
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		subs:  make(map[surface.Token]subscription),
		sizes: make(map[surface.NativeWindow]image.Point),
	}
}

func (d *dispatcher) subscribe(kind surface.EventKind, w surface.NativeWindow, fn func(surface.Event)) surface.Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.subs[d.next] = subscription{kind: kind, window: w, fn: fn}
	return d.next
}

func (d *dispatcher) unsubscribe(tok surface.Token) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, tok)
}

// matching returns the callbacks subscribed to kind, restricted to
// window w unless w is zero.
func (d *dispatcher) matching(kind surface.EventKind, w surface.NativeWindow) []func(surface.Event) {
	var fns []func(surface.Event)
	for _, s := range d.subs {
		if s.kind == kind && (w == 0 || s.window == w) {
			fns = append(fns, s.fn)
		}
	}
	return fns
}

// resized delivers a size change of window w.
func (d *dispatcher) resized(w surface.NativeWindow, width, height int) {
	d.mu.Lock()
	sz := image.Pt(width, height)
	if d.sizes[w] == sz {
		d.mu.Unlock()
		return
	}
	d.sizes[w] = sz
	fns := d.matching(surface.EventSizeChanged, w)
	d.mu.Unlock()
	e := surface.Event{Kind: surface.EventSizeChanged, Width: float32(width), Height: float32(height)}
	for _, fn := range fns {
		fn(e)
	}
}

// rotated delivers a screen rotation change to every window.
func (d *dispatcher) rotated(rot surface.SwapFlags) {
	d.mu.Lock()
	if d.rotation == rot {
		d.mu.Unlock()
		return
	}
	d.rotation = rot
	fns := d.matching(surface.EventOrientationChanged, 0)
	d.mu.Unlock()
	e := surface.Event{Kind: surface.EventOrientationChanged, Rotation: rot}
	for _, fn := range fns {
		fn(e)
	}
}

// forget drops the size history of w.
func (d *dispatcher) forget(w surface.NativeWindow) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sizes, w)
}
