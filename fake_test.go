// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

type call struct {
	op                   string
	x, y, w, h, interval int
	flags                SwapFlags
}

func (c call) String() string {
	return fmt.Sprintf("%s(%d,%d,%d,%d,%d,%v)", c.op, c.x, c.y, c.w, c.h, c.interval, c.flags)
}

type fakeSwapChain struct {
	calls    []call
	released bool
	// fail, when set, is returned by the next operation named by failOp.
	failOp string
	fail   error
}

func (sc *fakeSwapChain) take(op string) error {
	if sc.failOp != op {
		return nil
	}
	err := sc.fail
	sc.failOp, sc.fail = "", nil
	return err
}

func (sc *fakeSwapChain) Reset(w, h, interval int) error {
	sc.calls = append(sc.calls, call{op: "reset", w: w, h: h, interval: interval})
	return sc.take("reset")
}

func (sc *fakeSwapChain) Resize(w, h int) error {
	sc.calls = append(sc.calls, call{op: "resize", w: w, h: h})
	return sc.take("resize")
}

func (sc *fakeSwapChain) SwapRect(x, y, w, h int, flags SwapFlags) error {
	sc.calls = append(sc.calls, call{op: "swap", x: x, y: y, w: w, h: h, flags: flags})
	return sc.take("swap")
}

func (sc *fakeSwapChain) Release() {
	sc.released = true
}

func (sc *fakeSwapChain) count(op string) int {
	n := 0
	for _, c := range sc.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type fakeRenderer struct {
	min, max   int
	chains     []*fakeSwapChain
	createErr  error
	resetErr   error
	deviceLost int
	color      gputypes.TextureFormat
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{min: 0, max: 4}
}

func (r *fakeRenderer) CreateSwapChain(win NativeWindow, share ShareHandle, color, depthStencil gputypes.TextureFormat) (SwapChain, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if win != 0 && share != 0 {
		return nil, errors.New("both window and share handle")
	}
	r.color = color
	sc := new(fakeSwapChain)
	if r.resetErr != nil {
		sc.failOp, sc.fail = "reset", r.resetErr
	}
	r.chains = append(r.chains, sc)
	return sc, nil
}

func (r *fakeRenderer) MinSwapInterval() int { return r.min }
func (r *fakeRenderer) MaxSwapInterval() int { return r.max }
func (r *fakeRenderer) NotifyDeviceLost()    { r.deviceLost++ }

// last returns the most recently created swap chain.
func (r *fakeRenderer) last() *fakeSwapChain {
	if len(r.chains) == 0 {
		return nil
	}
	return r.chains[len(r.chains)-1]
}

type fakeWindow struct {
	w, h      int
	minimized bool
	scale     float32
	sizeErr   error
}

func (w *fakeWindow) Window() NativeWindow { return 0x1234 }

func (w *fakeWindow) ClientSize() (int, int, error) {
	if w.sizeErr != nil {
		return 0, 0, w.sizeErr
	}
	return w.w, w.h, nil
}

func (w *fakeWindow) Minimized() bool      { return w.minimized }
func (w *fakeWindow) ScaleFactor() float32 { return w.scale }

// fakeInterceptingWindow delivers size messages through an interception.
type fakeInterceptingWindow struct {
	fakeWindow
	notOwner bool
	onResize func()
	removed  int
	log      *[]string
}

type fakeInterception struct{ w *fakeInterceptingWindow }

func (in fakeInterception) Remove() {
	in.w.removed++
	in.w.onResize = nil
	if in.w.log != nil {
		*in.w.log = append(*in.w.log, "intercept")
	}
}

func (w *fakeInterceptingWindow) InterceptResize(onResize func()) (Interception, error) {
	if w.notOwner {
		return nil, ErrNotOwner
	}
	w.onResize = onResize
	return fakeInterception{w}, nil
}

// resize simulates a native size message.
func (w *fakeInterceptingWindow) resize(width, height int) {
	w.w, w.h = width, height
	if w.onResize != nil {
		w.onResize()
	}
}

// fakeEventWindow delivers notifications through token subscriptions.
type fakeEventWindow struct {
	fakeWindow
	unsupported map[EventKind]bool
	next        Token
	subs        map[Token]sub
	log         *[]string
}

type sub struct {
	kind EventKind
	fn   func(Event)
}

func newFakeEventWindow(w, h int) *fakeEventWindow {
	return &fakeEventWindow{
		fakeWindow: fakeWindow{w: w, h: h, scale: 1},
		subs:       make(map[Token]sub),
	}
}

func (w *fakeEventWindow) Subscribe(kind EventKind, fn func(Event)) (Token, error) {
	if w.unsupported[kind] {
		return 0, ErrUnsupportedEvent
	}
	w.next++
	w.subs[w.next] = sub{kind, fn}
	return w.next, nil
}

func (w *fakeEventWindow) Unsubscribe(tok Token) {
	if _, ok := w.subs[tok]; ok && w.log != nil {
		*w.log = append(*w.log, "unsubscribe")
	}
	delete(w.subs, tok)
}

func (w *fakeEventWindow) emit(e Event) {
	for _, s := range w.subs {
		if s.kind == e.Kind {
			s.fn(e)
		}
	}
}

type fakeBinder struct {
	current *Surface
	rebinds int
	err     error
}

func (b *fakeBinder) IsCurrentDraw(s *Surface) bool { return b.current == s }

func (b *fakeBinder) Rebind(s *Surface) error {
	b.rebinds++
	return b.err
}

type fakeTexture struct {
	released int
	log      *[]string
}

func (t *fakeTexture) ReleaseTexImage() {
	t.released++
	if t.log != nil {
		*t.log = append(*t.log, "texture")
	}
}

// loggingRenderer creates swap chains that record their release in log.
type loggingRenderer struct {
	*fakeRenderer
	log *[]string
}

type loggingSwapChain struct {
	*fakeSwapChain
	log *[]string
}

func (sc loggingSwapChain) Release() {
	sc.fakeSwapChain.Release()
	*sc.log = append(*sc.log, "swapchain")
}

func (r loggingRenderer) CreateSwapChain(win NativeWindow, share ShareHandle, color, depthStencil gputypes.TextureFormat) (SwapChain, error) {
	sc, err := r.fakeRenderer.CreateSwapChain(win, share, color, depthStencil)
	if err != nil {
		return nil, err
	}
	return loggingSwapChain{sc.(*fakeSwapChain), r.log}, nil
}
