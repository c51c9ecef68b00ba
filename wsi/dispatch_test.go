// SPDX-License-Identifier: Unlicense OR MIT

package wsi

import (
	"testing"

	"gioui.org/surface"
	"gioui.org/surface/internal/soft"
)

func TestDispatchSize(t *testing.T) {
	d := newDispatcher()
	var got1, got2 []surface.Event
	tok1 := d.subscribe(surface.EventSizeChanged, 1, func(e surface.Event) { got1 = append(got1, e) })
	d.subscribe(surface.EventSizeChanged, 2, func(e surface.Event) { got2 = append(got2, e) })
	if tok1 == 0 {
		t.Fatal("zero token")
	}

	d.resized(1, 640, 480)
	// Moves report the same size.
	d.resized(1, 640, 480)
	d.resized(2, 100, 50)
	if len(got1) != 1 || got1[0].Width != 640 || got1[0].Height != 480 {
		t.Errorf("window 1 events: %+v", got1)
	}
	if len(got2) != 1 || got2[0].Width != 100 {
		t.Errorf("window 2 events: %+v", got2)
	}

	d.unsubscribe(tok1)
	d.unsubscribe(tok1)
	d.unsubscribe(0)
	d.resized(1, 800, 600)
	if len(got1) != 1 {
		t.Errorf("event after unsubscribe: %+v", got1)
	}
}

func TestDispatchRotation(t *testing.T) {
	d := newDispatcher()
	var rots []surface.SwapFlags
	for w := surface.NativeWindow(1); w <= 2; w++ {
		d.subscribe(surface.EventOrientationChanged, w, func(e surface.Event) { rots = append(rots, e.Rotation) })
	}
	d.subscribe(surface.EventSizeChanged, 1, func(e surface.Event) { t.Errorf("size callback got %+v", e) })

	d.rotated(surface.SwapRotate0)
	if len(rots) != 0 {
		t.Errorf("unchanged rotation delivered: %v", rots)
	}
	d.rotated(surface.SwapRotate90)
	if len(rots) != 2 || rots[0] != surface.SwapRotate90 || rots[1] != surface.SwapRotate90 {
		t.Errorf("rotations %v, want 2 × 90", rots)
	}
}

func TestDispatchCallbackMaySubscribe(t *testing.T) {
	d := newDispatcher()
	var inner surface.Token
	d.subscribe(surface.EventSizeChanged, 1, func(surface.Event) {
		inner = d.subscribe(surface.EventSizeChanged, 1, func(surface.Event) {})
	})
	d.resized(1, 10, 10)
	if inner == 0 {
		t.Error("callback could not subscribe")
	}
}

// The Surface resizes its swap chain from dispatched size events.
func TestDispatchDrivesSurface(t *testing.T) {
	d := newDispatcher()
	src := &sourceWindow{d: d, w: 3, width: 320, height: 200}
	s, err := surface.NewWindowSurface(soft.NewRenderer(nil), nil, src, surface.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	d.resized(3, 640, 400)
	if s.Width() != 640 || s.Height() != 400 {
		t.Errorf("surface %dx%d, want 640x400", s.Width(), s.Height())
	}
	d.rotated(surface.SwapRotate270)
	if s.SwapFlags() != surface.SwapRotate270 {
		t.Errorf("swap flags %v, want 270", s.SwapFlags())
	}
	s.Release()
	d.resized(3, 10, 10)
	if s.Width() != 640 {
		t.Error("released surface saw a resize")
	}
	if len(d.subs) != 0 {
		t.Errorf("%d subscriptions left after release", len(d.subs))
	}
}

func TestDispatchInitialRotation(t *testing.T) {
	d := newDispatcher()
	d.rotation = surface.SwapRotate90
	src := &sourceWindow{d: d, w: 5, width: 64, height: 32}
	s, err := surface.NewWindowSurface(soft.NewRenderer(nil), nil, src, surface.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if s.SwapFlags() != surface.SwapRotate90 {
		t.Errorf("swap flags %v, want the screen rotation %v", s.SwapFlags(), surface.SwapRotate90)
	}
	// The same rotation again is not an event.
	d.rotated(surface.SwapRotate90)
	d.rotated(surface.SwapRotate0)
	if s.SwapFlags() != surface.SwapRotate0 {
		t.Errorf("swap flags %v after rotation, want %v", s.SwapFlags(), surface.SwapRotate0)
	}
}

type sourceWindow struct {
	d             *dispatcher
	w             surface.NativeWindow
	width, height int
}

func (s *sourceWindow) Window() surface.NativeWindow  { return s.w }
func (s *sourceWindow) ClientSize() (int, int, error) { return s.width, s.height, nil }
func (s *sourceWindow) Minimized() bool               { return false }
func (s *sourceWindow) ScaleFactor() float32          { return 1 }
func (s *sourceWindow) Unsubscribe(tok surface.Token) { s.d.unsubscribe(tok) }

func (s *sourceWindow) Rotation() surface.SwapFlags {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.d.rotation
}

func (s *sourceWindow) Subscribe(k surface.EventKind, fn func(surface.Event)) (surface.Token, error) {
	if k == surface.EventDPIChanged {
		return 0, surface.ErrUnsupportedEvent
	}
	return s.d.subscribe(k, s.w, fn), nil
}
