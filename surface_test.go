// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
)

func newWindowed(t *testing.T, r Renderer, b NativeWindowBinding, o Options) *Surface {
	t.Helper()
	s, err := NewWindowSurface(r, nil, b, o)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestResetSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1, 1, 1, 1},
		{800, 600, 800, 600},
		{0, 600, 1, 600},
		{800, 0, 800, 1},
		{0, 0, 1, 1},
	}
	for _, test := range tests {
		r := newFakeRenderer()
		s := newWindowed(t, r, &fakeWindow{w: 10, h: 10, scale: 1}, Options{})
		if err := s.Reset(test.w, test.h); err != nil {
			t.Fatalf("Reset(%d, %d): %v", test.w, test.h, err)
		}
		if s.Width() != test.wantW || s.Height() != test.wantH {
			t.Errorf("Reset(%d, %d): got %dx%d, want %dx%d", test.w, test.h, s.Width(), s.Height(), test.wantW, test.wantH)
		}
		for _, c := range r.last().calls {
			if c.w < 1 || c.h < 1 {
				t.Errorf("Reset(%d, %d): zero-area request %v", test.w, test.h, c)
			}
		}
	}
}

func TestWindowResizeScenario(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 800, h: 600, scale: 1}
	s := newWindowed(t, r, win, Options{SwapInterval: 1})
	if got := s.Width(); got != 800 {
		t.Fatalf("initial width %d, want 800", got)
	}
	win.w, win.h = 1024, 768
	if !s.CheckForOutOfDateSwapChain() {
		t.Fatal("resized window not detected")
	}
	if s.Width() != 1024 || s.Height() != 768 {
		t.Errorf("got %dx%d, want 1024x768", s.Width(), s.Height())
	}
	if s.CheckForOutOfDateSwapChain() {
		t.Error("second check reported a stale swap chain")
	}
	sc := r.last()
	want := []call{
		{op: "reset", w: 800, h: 600, interval: 1},
		{op: "resize", w: 1024, h: 768},
	}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
}

func TestCollapsedWindowIsStable(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 800, h: 600, scale: 1}
	b := new(fakeBinder)
	s, err := NewWindowSurface(r, b, win, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	b.current = s
	win.h = 0
	got := []bool{
		s.CheckForOutOfDateSwapChain(),
		s.CheckForOutOfDateSwapChain(),
		s.CheckForOutOfDateSwapChain(),
	}
	if want := []bool{true, false, false}; !reflect.DeepEqual(got, want) {
		t.Errorf("checks %v, want %v", got, want)
	}
	if s.Width() != 800 || s.Height() != 1 {
		t.Errorf("got %dx%d, want 800x1", s.Width(), s.Height())
	}
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	if n := r.last().count("resize"); n != 1 {
		t.Errorf("%d resizes, want 1", n)
	}
	if b.rebinds != 1 {
		t.Errorf("%d rebinds, want 1", b.rebinds)
	}
}

func TestIntervalClampScenario(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewWindowSurface(r, nil, &fakeWindow{w: 800, h: 600, scale: 1}, Options{SwapInterval: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.SwapInterval(); got != 4 {
		t.Errorf("interval %d, want 4", got)
	}
	if !s.intervalDirty {
		t.Error("interval not dirty after construction")
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	sc := r.last()
	if n := sc.count("reset"); n != 1 {
		t.Errorf("%d resets, want 1", n)
	}
	if n := sc.count("resize"); n != 0 {
		t.Errorf("%d resizes, want 0", n)
	}
	if got := sc.calls[0].interval; got != 4 {
		t.Errorf("reset with interval %d, want 4", got)
	}
	if s.intervalDirty {
		t.Error("interval still dirty after reset")
	}
}

func TestIntervalPriority(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 800, h: 600, scale: 1}
	s := newWindowed(t, r, win, Options{})
	sc := r.last()
	sc.calls = nil
	s.SetSwapInterval(2)
	win.w, win.h = 1024, 768
	if !s.CheckForOutOfDateSwapChain() {
		t.Fatal("check reported no change")
	}
	want := []call{{op: "reset", w: 1024, h: 768, interval: 2}}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
}

func TestIntervalChangeWithoutResize(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 800, h: 600, scale: 1}, Options{})
	sc := r.last()
	sc.calls = nil
	s.SetSwapInterval(1)
	if s.CheckForOutOfDateSwapChain() {
		t.Error("unchanged interval reported stale")
	}
	s.SetSwapInterval(-3)
	if got := s.SwapInterval(); got != 0 {
		t.Errorf("interval %d, want 0", got)
	}
	if got := s.PresentMode(); got != gputypes.PresentModeImmediate {
		t.Errorf("present mode %v, want immediate", got)
	}
	if !s.CheckForOutOfDateSwapChain() {
		t.Error("interval change not applied")
	}
	want := []call{{op: "reset", w: 800, h: 600, interval: 0}}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
}

func TestResizeFallsBackToReset(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 800, h: 600, scale: 1}, Options{})
	sc := r.last()
	sc.calls = nil
	s.SetSwapInterval(3)
	if err := s.Resize(640, 480); err != nil {
		t.Fatal(err)
	}
	want := []call{{op: "reset", w: 640, h: 480, interval: 3}}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
}

func TestSwapRectClip(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       []call
	}{
		{"full", 0, 0, 100, 50, []call{{op: "swap", w: 100, h: 50}}},
		{"right edge", 90, 0, 20, 10, []call{{op: "swap", x: 90, w: 10, h: 10}}},
		{"bottom edge", 0, 40, 10, 20, []call{{op: "swap", y: 40, w: 10, h: 10}}},
		{"negative origin", -10, -10, 20, 20, []call{{op: "swap", w: 10, h: 10}}},
		{"outside right", 100, 0, 10, 10, nil},
		{"outside below", 0, 60, 10, 10, nil},
		{"zero width", 0, 0, 0, 10, nil},
		{"negative width", 10, 10, -5, 5, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := newFakeRenderer()
			s := newWindowed(t, r, &fakeWindow{w: 100, h: 50, scale: 1}, Options{})
			sc := r.last()
			sc.calls = nil
			if err := s.SwapRect(test.x, test.y, test.w, test.h); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(sc.calls, test.want) {
				t.Errorf("calls %v, want %v", sc.calls, test.want)
			}
		})
	}
}

func TestSwapDetectsResize(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 100, h: 50, scale: 1}
	s := newWindowed(t, r, win, Options{})
	sc := r.last()
	sc.calls = nil
	win.w = 200
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	want := []call{
		{op: "swap", w: 100, h: 50},
		{op: "resize", w: 200, h: 50},
	}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
}

func TestPostSubBuffer(t *testing.T) {
	rects := [][4]int{{0, 0, 10, 10}, {-5, -5, 1000, 1000}, {500, 500, 1, 1}, {0, 0, 0, 0}}
	for _, supported := range []bool{false, true} {
		r := newFakeRenderer()
		s := newWindowed(t, r, &fakeWindow{w: 100, h: 50, scale: 1}, Options{PostSubBuffer: supported})
		sc := r.last()
		sc.calls = nil
		for _, rc := range rects {
			if err := s.PostSubBuffer(rc[0], rc[1], rc[2], rc[3]); err != nil {
				t.Errorf("PostSubBuffer(%v) supported=%v: %v", rc, supported, err)
			}
		}
		n := sc.count("swap")
		if !supported && n != 0 {
			t.Errorf("unsupported PostSubBuffer presented %d times", n)
		}
		if supported && n != 2 {
			t.Errorf("supported PostSubBuffer presented %d times, want 2", n)
		}
	}
}

func TestDeviceLost(t *testing.T) {
	ops := []struct {
		failOp string
		run    func(s *Surface) error
	}{
		{"reset", func(s *Surface) error { return s.Reset(300, 300) }},
		{"resize", func(s *Surface) error { return s.Resize(300, 300) }},
		{"swap", func(s *Surface) error { return s.Swap() }},
	}
	for _, op := range ops {
		t.Run(op.failOp, func(t *testing.T) {
			r := newFakeRenderer()
			s := newWindowed(t, r, &fakeWindow{w: 100, h: 100, scale: 1}, Options{})
			sc := r.last()
			sc.failOp, sc.fail = op.failOp, ErrDeviceLost
			err := op.run(s)
			if !errors.Is(err, ErrDeviceLost) {
				t.Fatalf("got %v, want device lost", err)
			}
			if got := CodeOf(err); got != CodeContextLost {
				t.Errorf("code %v, want %v", got, CodeContextLost)
			}
			if r.deviceLost != 1 {
				t.Errorf("device lost notified %d times, want 1", r.deviceLost)
			}
			if !sc.released || s.Initialized() {
				t.Error("swap chain not released after device loss")
			}
			if s.Width() != 100 || s.Height() != 100 {
				t.Errorf("size changed to %dx%d", s.Width(), s.Height())
			}
			if s.Err() != err {
				t.Errorf("Err() = %v, want %v", s.Err(), err)
			}
		})
	}
}

func TestBackendError(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 100, h: 100, scale: 1}, Options{})
	sc := r.last()
	sc.failOp, sc.fail = "resize", &BackendError{Code: -2005270523}
	err := s.Resize(200, 200)
	var be *BackendError
	if !errors.As(err, &be) || be.Code != -2005270523 {
		t.Fatalf("got %v, want backend error", err)
	}
	if got := CodeOf(err); got != CodeBackend {
		t.Errorf("code %v, want %v", got, CodeBackend)
	}
	if r.deviceLost != 0 {
		t.Error("backend error reported as device loss")
	}
	if s.Width() != 100 || s.Height() != 100 {
		t.Errorf("size changed to %dx%d", s.Width(), s.Height())
	}
	if !s.Initialized() {
		t.Error("swap chain released after backend error")
	}
}

func TestFixedSize(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewOffscreenSurface(r, nil, 0x42, Options{Width: 64, Height: 32, TextureFormat: TextureRGBA, TextureTarget: Texture2D})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if !s.FixedSize() {
		t.Error("offscreen surface not fixed-size")
	}
	if s.TextureFormat() != TextureRGBA || s.TextureTarget() != Texture2D {
		t.Error("texture format or target not kept")
	}
	for range 2 {
		if s.CheckForOutOfDateSwapChain() {
			t.Error("fixed-size surface reported stale")
		}
		if s.Width() != 64 || s.Height() != 32 {
			t.Errorf("size changed to %dx%d", s.Width(), s.Height())
		}
	}
	err = s.Reset(128, 128)
	if !errors.Is(err, ErrFixedSize) || CodeOf(err) != CodeBadMatch {
		t.Errorf("Reset on fixed-size surface: %v", err)
	}
	if err := s.Reset(64, 32); err != nil {
		t.Errorf("Reset at fixed size: %v", err)
	}
}

func TestFixedSizeWindow(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 800, h: 600, scale: 1}
	s := newWindowed(t, r, win, Options{FixedSize: true, Width: 320, Height: 240})
	win.w, win.h = 1024, 768
	if s.CheckForOutOfDateSwapChain() {
		t.Error("fixed-size window surface reported stale")
	}
	if s.Width() != 320 || s.Height() != 240 {
		t.Errorf("got %dx%d, want 320x240", s.Width(), s.Height())
	}
}

func TestOffscreenRequiresSize(t *testing.T) {
	if _, err := NewOffscreenSurface(newFakeRenderer(), nil, 0, Options{}); err == nil {
		t.Error("offscreen surface without size accepted")
	}
}

func TestOffscreenNoPostSubBuffer(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewOffscreenSurface(r, nil, 0, Options{Width: 8, Height: 8, PostSubBuffer: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if s.PostSubBufferSupported() {
		t.Error("offscreen surface supports post sub buffer")
	}
	if err := s.PostSubBuffer(0, 0, 4, 4); err != nil {
		t.Fatal(err)
	}
	if n := r.last().count("swap"); n != 0 {
		t.Errorf("%d swaps for an unsupported post, want 0", n)
	}
}

func TestMinimizedWindowKeepsSize(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 800, h: 600, scale: 1}
	s := newWindowed(t, r, win, Options{})
	win.w, win.h, win.minimized = 160, 28, true
	if s.CheckForOutOfDateSwapChain() {
		t.Error("minimized window reported stale")
	}
	if s.Width() != 800 || s.Height() != 600 {
		t.Errorf("got %dx%d, want 800x600", s.Width(), s.Height())
	}
}

func TestScaleFactor(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 800, h: 600, scale: 1.5}, Options{})
	if s.Width() != 1200 || s.Height() != 900 {
		t.Errorf("got %dx%d, want 1200x900", s.Width(), s.Height())
	}
}

func TestInitializeErrors(t *testing.T) {
	createErr := errors.New("out of memory")
	r := newFakeRenderer()
	r.createErr = createErr
	s, _ := NewWindowSurface(r, nil, &fakeWindow{w: 1, h: 1, scale: 1}, Options{})
	err := s.Initialize()
	if !errors.Is(err, createErr) || CodeOf(err) != CodeBadAlloc {
		t.Errorf("create failure: %v", err)
	}

	sizeErr := errors.New("invalid window")
	r = newFakeRenderer()
	s, _ = NewWindowSurface(r, nil, &fakeWindow{sizeErr: sizeErr}, Options{})
	err = s.Initialize()
	if !errors.Is(err, sizeErr) || CodeOf(err) != CodeBadSurface {
		t.Errorf("size failure: %v", err)
	}
	if len(r.chains) != 0 {
		t.Error("swap chain created despite size failure")
	}

	r = newFakeRenderer()
	r.resetErr = &BackendError{Code: 1}
	s, _ = NewWindowSurface(r, nil, &fakeWindow{w: 1, h: 1, scale: 1}, Options{})
	if err := s.Initialize(); err == nil {
		t.Error("failed first reset succeeded")
	}
	if !r.last().released || s.Initialized() {
		t.Error("swap chain kept after failed first reset")
	}
}

func TestCheckSizeQueryFailure(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeWindow{w: 100, h: 100, scale: 1}
	s := newWindowed(t, r, win, Options{})
	win.sizeErr = errors.New("gone")
	if s.CheckForOutOfDateSwapChain() {
		t.Error("failed size query reported stale")
	}
	if CodeOf(s.Err()) != CodeBadSurface {
		t.Errorf("Err() = %v, want bad surface", s.Err())
	}
}

func TestRebindCurrent(t *testing.T) {
	for _, current := range []bool{false, true} {
		r := newFakeRenderer()
		win := &fakeWindow{w: 100, h: 100, scale: 1}
		b := new(fakeBinder)
		s, err := NewWindowSurface(r, b, win, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Initialize(); err != nil {
			t.Fatal(err)
		}
		if current {
			b.current = s
		}
		win.w = 300
		if !s.CheckForOutOfDateSwapChain() {
			t.Errorf("current=%v: resize not reported", current)
		}
		want := 0
		if current {
			want = 1
		}
		if b.rebinds != want {
			t.Errorf("current=%v: %d rebinds, want %d", current, b.rebinds, want)
		}
	}
}

func TestInterception(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeInterceptingWindow{fakeWindow: fakeWindow{w: 800, h: 600, scale: 1}}
	s := newWindowed(t, r, win, Options{})
	win.resize(1024, 768)
	if s.Width() != 1024 || s.Height() != 768 {
		t.Errorf("got %dx%d after size message, want 1024x768", s.Width(), s.Height())
	}
	s.Release()
	if win.removed != 1 {
		t.Errorf("interception removed %d times, want 1", win.removed)
	}
}

func TestInterceptionNotOwner(t *testing.T) {
	r := newFakeRenderer()
	win := &fakeInterceptingWindow{fakeWindow: fakeWindow{w: 800, h: 600, scale: 1}, notOwner: true}
	s := newWindowed(t, r, win, Options{})
	win.resize(1024, 768)
	if s.Width() != 800 {
		t.Errorf("width %d changed without interception", s.Width())
	}
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 1024 {
		t.Errorf("width %d after present, want 1024", s.Width())
	}
	s.Release()
	if win.removed != 0 {
		t.Error("removed an interception that was never installed")
	}
}

func TestEvents(t *testing.T) {
	r := newFakeRenderer()
	win := newFakeEventWindow(800, 600)
	s := newWindowed(t, r, win, Options{})
	if len(win.subs) != 3 {
		t.Fatalf("%d subscriptions, want 3", len(win.subs))
	}
	sc := r.last()
	sc.calls = nil

	win.w, win.h = 640, 480
	win.emit(Event{Kind: EventSizeChanged, Width: 640, Height: 480})
	win.emit(Event{Kind: EventDPIChanged, Scale: 2})
	if got := s.ScaleFactor(); got != 2 {
		t.Errorf("scale %v, want 2", got)
	}
	win.emit(Event{Kind: EventSizeChanged, Width: 640, Height: 480})
	win.emit(Event{Kind: EventOrientationChanged, Rotation: SwapRotate90})
	if len(sc.calls) != 2 {
		t.Fatalf("calls %v before present, want two resizes", sc.calls)
	}
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	want := []call{
		{op: "resize", w: 640, h: 480},
		{op: "resize", w: 1280, h: 960},
		{op: "swap", w: 1280, h: 960, flags: SwapRotate90},
	}
	if !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}

	s.Release()
	if len(win.subs) != 0 {
		t.Errorf("%d subscriptions left after release", len(win.subs))
	}
	win.emit(Event{Kind: EventSizeChanged, Width: 1, Height: 1})
}

type rotatedWindow struct {
	*fakeEventWindow
	rotation SwapFlags
}

func (w *rotatedWindow) Rotation() SwapFlags { return w.rotation }

func TestInitialRotation(t *testing.T) {
	r := newFakeRenderer()
	win := &rotatedWindow{fakeEventWindow: newFakeEventWindow(100, 50), rotation: SwapRotate90}
	s := newWindowed(t, r, win, Options{})
	if got := s.SwapFlags(); got != SwapRotate90 {
		t.Fatalf("swap flags %v, want %v", got, SwapRotate90)
	}
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	want := []call{
		{op: "reset", w: 100, h: 50, interval: 1},
		{op: "swap", w: 100, h: 50, flags: SwapRotate90},
	}
	if sc := r.last(); !reflect.DeepEqual(sc.calls, want) {
		t.Errorf("calls %v, want %v", sc.calls, want)
	}
	win.emit(Event{Kind: EventOrientationChanged, Rotation: SwapRotate180})
	if got := s.SwapFlags(); got != SwapRotate180 {
		t.Errorf("swap flags %v after event, want %v", got, SwapRotate180)
	}
}

func TestInitializeSubscriptions(t *testing.T) {
	win := newFakeEventWindow(100, 100)
	win.sizeErr = errors.New("gone")
	s, _ := NewWindowSurface(newFakeRenderer(), nil, win, Options{})
	if err := s.Initialize(); err == nil {
		t.Fatal("initialized without a client size")
	}
	if len(win.subs) != 0 {
		t.Errorf("%d subscriptions left after size failure", len(win.subs))
	}

	r := newFakeRenderer()
	r.resetErr = &BackendError{Code: 1}
	win = newFakeEventWindow(100, 100)
	s, _ = NewWindowSurface(r, nil, win, Options{})
	if err := s.Initialize(); err == nil {
		t.Fatal("initialized despite failed reset")
	}
	if len(win.subs) != 0 {
		t.Errorf("%d subscriptions left after reset failure", len(win.subs))
	}

	win = newFakeEventWindow(100, 100)
	s = newWindowed(t, newFakeRenderer(), win, Options{})
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if len(win.subs) != 3 {
		t.Errorf("%d subscriptions after second Initialize, want 3", len(win.subs))
	}
	s.Release()
	if len(win.subs) != 0 {
		t.Errorf("%d subscriptions left after release", len(win.subs))
	}
}

func TestEventsUnsupported(t *testing.T) {
	r := newFakeRenderer()
	win := newFakeEventWindow(800, 600)
	win.unsupported = map[EventKind]bool{EventDPIChanged: true}
	s := newWindowed(t, r, win, Options{})
	if s.tokens[EventDPIChanged] != 0 {
		t.Error("unsupported event has a token")
	}
	if s.tokens[EventSizeChanged] == 0 || s.tokens[EventOrientationChanged] == 0 {
		t.Error("supported event not subscribed")
	}
}

func TestReleaseOrder(t *testing.T) {
	var log []string
	r := loggingRenderer{newFakeRenderer(), &log}

	win := &fakeInterceptingWindow{fakeWindow: fakeWindow{w: 10, h: 10, scale: 1}, log: &log}
	s := newWindowed(t, r, win, Options{})
	tex := &fakeTexture{log: &log}
	s.SetBoundTexture(tex)
	s.Release()
	s.Release()
	want := []string{"intercept", "texture", "swapchain"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("release order %v, want %v", log, want)
	}
	if s.BoundTexture() != nil {
		t.Error("texture still bound after release")
	}

	log = nil
	ew := newFakeEventWindow(10, 10)
	ew.log = &log
	s = newWindowed(t, r, ew, Options{})
	s.SetBoundTexture(&fakeTexture{log: &log})
	s.Release()
	want = []string{"unsubscribe", "unsubscribe", "unsubscribe", "texture", "swapchain"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("release order %v, want %v", log, want)
	}
}

func TestReleased(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 10, h: 10, scale: 1}, Options{})
	s.Release()
	if s.CheckForOutOfDateSwapChain() {
		t.Error("released surface reported stale")
	}
	if err := s.Swap(); !errors.Is(err, ErrReleased) {
		t.Errorf("Swap after release: %v", err)
	}
	if err := s.Initialize(); !errors.Is(err, ErrReleased) {
		t.Errorf("Initialize after release: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	r := newFakeRenderer()
	s := newWindowed(t, r, &fakeWindow{w: 10, h: 10, scale: 1}, Options{})
	if got := s.ColorFormat(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("color format %v", got)
	}
	if r.color != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("swap chain created with %v", r.color)
	}
	if got := s.PixelAspectRatio(); got != 1 {
		t.Errorf("pixel aspect ratio %v", got)
	}
	if got := s.SwapInterval(); got != 1 {
		t.Errorf("interval %d, want 1", got)
	}
	if got := s.PresentMode(); got != gputypes.PresentModeFifo {
		t.Errorf("present mode %v", got)
	}
}
