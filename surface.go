// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
)

// Surface is a drawable bound to one swap chain, either for a native
// window or for an offscreen share handle.
type Surface struct {
	renderer Renderer
	binder   ContextBinder
	binding  NativeWindowBinding
	share    ShareHandle

	swapChain SwapChain
	released  bool

	// width and height are the size last applied to swapChain.
	width, height int
	fixedSize     bool
	scale         float32

	swapInterval  int
	intervalDirty bool

	renderBuffer       RenderBuffer
	swapBehavior       SwapBehavior
	textureFormat      TextureFormat
	textureTarget      TextureTarget
	postSubBuffer      bool
	swapFlags          SwapFlags
	pixelAspectRatio   float32
	colorFormat        gputypes.TextureFormat
	depthStencilFormat gputypes.TextureFormat

	texture Texture

	intercept Interception
	tokens    [eventKindCount]Token
	source    EventSource

	err error
}

// Options configure a new Surface.
type Options struct {
	// Width and Height are the size of offscreen and fixed-size
	// surfaces. They are ignored for other windowed surfaces.
	Width, Height int
	// FixedSize stops a windowed surface from tracking its window.
	FixedSize bool
	// SwapInterval is the requested presentation interval. Zero
	// requests the default interval of 1; use SetSwapInterval(0) to
	// present without waiting for vertical blank.
	SwapInterval int
	// PostSubBuffer enables partial presentation.
	PostSubBuffer bool
	RenderBuffer  RenderBuffer
	SwapBehavior  SwapBehavior
	TextureFormat TextureFormat
	TextureTarget TextureTarget
	// ColorFormat defaults to BGRA8Unorm.
	ColorFormat gputypes.TextureFormat
	// DepthStencilFormat defaults to no depth or stencil buffer.
	DepthStencilFormat gputypes.TextureFormat
	// PixelAspectRatio defaults to 1.
	PixelAspectRatio float32
	// Orientation is the initial rotation applied at present time.
	Orientation SwapFlags
}

const (
	opInitialize = "initialize"
	opReset      = "reset"
	opResize     = "resize"
	opSwap       = "swap"
	opCheck      = "check"
	opEvent      = "event"
)

// NewWindowSurface returns a Surface for the window of b. If b implements
// MessageInterceptor and the caller owns the window, size messages
// trigger CheckForOutOfDateSwapChain; otherwise staleness is detected at
// presentation.
func NewWindowSurface(r Renderer, d ContextBinder, b NativeWindowBinding, o Options) (*Surface, error) {
	if r == nil {
		return nil, errors.New("surface: nil Renderer")
	}
	if b == nil {
		return nil, errors.New("surface: nil NativeWindowBinding")
	}
	s := newSurface(r, d, o)
	s.binding = b
	s.fixedSize = o.FixedSize
	if s.fixedSize {
		s.width, s.height = o.Width, o.Height
	}
	if ic, ok := b.(MessageInterceptor); ok {
		in, err := ic.InterceptResize(s.onResizeMessage)
		switch {
		case err == nil:
			s.intercept = in
		case errors.Is(err, ErrNotOwner):
			Logger().Debug("surface: window not owned, polling for resizes", "window", b.Window())
		default:
			Logger().Warn("surface: window interception failed", "window", b.Window(), "err", err)
		}
	}
	return s, nil
}

// NewOffscreenSurface returns a fixed-size Surface rendering to the
// resource identified by share. A zero share asks the Renderer to
// allocate the resource.
func NewOffscreenSurface(r Renderer, d ContextBinder, share ShareHandle, o Options) (*Surface, error) {
	if r == nil {
		return nil, errors.New("surface: nil Renderer")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("surface: invalid offscreen size %dx%d", o.Width, o.Height)
	}
	s := newSurface(r, d, o)
	s.share = share
	s.fixedSize = true
	s.width, s.height = o.Width, o.Height
	s.textureFormat = o.TextureFormat
	s.textureTarget = o.TextureTarget
	// Offscreen surfaces are never presented.
	s.postSubBuffer = false
	return s, nil
}

func newSurface(r Renderer, d ContextBinder, o Options) *Surface {
	s := &Surface{
		renderer:           r,
		binder:             d,
		scale:              1,
		swapInterval:       1,
		renderBuffer:       o.RenderBuffer,
		swapBehavior:       o.SwapBehavior,
		postSubBuffer:      o.PostSubBuffer,
		swapFlags:          o.Orientation,
		pixelAspectRatio:   o.PixelAspectRatio,
		colorFormat:        o.ColorFormat,
		depthStencilFormat: o.DepthStencilFormat,
	}
	if o.SwapInterval != 0 {
		s.swapInterval = o.SwapInterval
	}
	if s.pixelAspectRatio == 0 {
		s.pixelAspectRatio = 1
	}
	if s.colorFormat == gputypes.TextureFormatUndefined {
		s.colorFormat = gputypes.TextureFormatBGRA8Unorm
	}
	s.swapInterval = s.clampInterval(s.swapInterval)
	// The first reset must apply the clamped interval.
	s.intervalDirty = true
	return s
}

// Initialize creates the swap chain. Windowed surfaces that track their
// window subscribe to native notifications and size the swap chain from
// the window's client area.
func (s *Surface) Initialize() error {
	if s.released {
		return s.fail(opInitialize, CodeBadSurface, ErrReleased)
	}
	width, height := s.width, s.height
	if s.binding != nil && !s.fixedSize {
		if f := s.binding.ScaleFactor(); f > 0 {
			s.scale = f
		}
		if o, ok := s.binding.(OrientationSource); ok {
			s.swapFlags = o.Rotation()
		}
		if src, ok := s.binding.(EventSource); ok {
			if err := s.subscribe(src); err != nil {
				return s.fail(opInitialize, CodeBadSurface, err)
			}
		}
		w, h, err := s.binding.ClientSize()
		if err != nil {
			s.unsubscribe()
			return s.fail(opInitialize, CodeBadSurface, err)
		}
		width, height = s.backingSize(float32(w), float32(h))
	}
	if err := s.resetSwapChain(width, height); err != nil {
		s.unsubscribe()
		return err
	}
	return nil
}

// Reset resets the swap chain at the given size and the current swap
// interval, creating it if necessary. Zero dimensions are replaced by 1.
func (s *Surface) Reset(width, height int) error {
	if err := s.checkResizable(opReset, width, height); err != nil {
		return err
	}
	return s.resetSwapChain(width, height)
}

// Resize resizes the swap chain. It resets instead if no swap chain
// exists or a swap interval change is pending.
func (s *Surface) Resize(width, height int) error {
	if err := s.checkResizable(opResize, width, height); err != nil {
		return err
	}
	return s.resizeSwapChain(width, height)
}

func (s *Surface) checkResizable(op string, width, height int) error {
	if s.released {
		return s.fail(op, CodeBadSurface, ErrReleased)
	}
	if s.fixedSize && (max(width, 1) != s.width || max(height, 1) != s.height) {
		return s.fail(op, CodeBadMatch, ErrFixedSize)
	}
	return nil
}

func (s *Surface) resetSwapChain(width, height int) error {
	width, height = max(width, 1), max(height, 1)
	created := false
	if s.swapChain == nil {
		sc, err := s.renderer.CreateSwapChain(s.window(), s.share, s.colorFormat, s.depthStencilFormat)
		if err == nil && sc == nil {
			err = errors.New("renderer returned no swap chain")
		}
		if err != nil {
			if errors.Is(err, ErrDeviceLost) {
				return s.swapChainError(opReset, err)
			}
			return s.fail(opReset, CodeBadAlloc, err)
		}
		s.swapChain = sc
		created = true
		Logger().Info("surface: swap chain created", "window", s.window(), "share", s.share, "format", s.colorFormat)
	}
	if err := s.swapChain.Reset(width, height, s.swapInterval); err != nil {
		err = s.swapChainError(opReset, err)
		if created {
			s.releaseSwapChain()
		}
		return err
	}
	Logger().Debug("surface: swap chain reset", "width", width, "height", height, "interval", s.swapInterval)
	s.width, s.height = width, height
	s.intervalDirty = false
	return nil
}

func (s *Surface) resizeSwapChain(width, height int) error {
	if s.swapChain == nil || s.intervalDirty {
		return s.resetSwapChain(width, height)
	}
	width, height = max(width, 1), max(height, 1)
	if err := s.swapChain.Resize(width, height); err != nil {
		return s.swapChainError(opResize, err)
	}
	Logger().Debug("surface: swap chain resized", "width", width, "height", height)
	s.width, s.height = width, height
	return nil
}

// swapChainError classifies a swap chain failure. Device loss is
// reported to the renderer exactly once and releases the swap chain.
func (s *Surface) swapChainError(op string, err error) error {
	if errors.Is(err, ErrDeviceLost) {
		Logger().Warn("surface: device lost", "op", op)
		s.renderer.NotifyDeviceLost()
		s.releaseSwapChain()
		return s.fail(op, CodeContextLost, err)
	}
	return s.fail(op, CodeBackend, err)
}

// CheckForOutOfDateSwapChain reconciles the swap chain with the window
// size and the pending swap interval. It reports whether the swap chain
// was stale and has been corrected.
func (s *Surface) CheckForOutOfDateSwapChain() bool {
	if s.swapChain == nil {
		return false
	}
	width, height := s.width, s.height
	if !s.fixedSize && s.binding != nil && !s.binding.Minimized() {
		w, h, err := s.binding.ClientSize()
		if err != nil {
			s.fail(opCheck, CodeBadSurface, err)
			return false
		}
		width, height = s.backingSize(float32(w), float32(h))
	}
	sizeDirty := width != s.width || height != s.height
	var err error
	switch {
	case s.intervalDirty:
		// A resize cannot change the presentation interval.
		err = s.resetSwapChain(width, height)
	case sizeDirty:
		err = s.resizeSwapChain(width, height)
	default:
		return false
	}
	if err != nil {
		return false
	}
	if s.binder != nil && s.binder.IsCurrentDraw(s) {
		if err := s.binder.Rebind(s); err != nil {
			Logger().Warn("surface: rebinding current context failed", "err", err)
		}
	}
	return true
}

func (s *Surface) onResizeMessage() {
	s.CheckForOutOfDateSwapChain()
}

// backingSize converts a logical size to pixels. Each dimension is at
// least 1, matching the size a reset or resize applies.
func (s *Surface) backingSize(w, h float32) (int, int) {
	bw := int(math.Round(float64(w * s.scale)))
	bh := int(math.Round(float64(h * s.scale)))
	return max(bw, 1), max(bh, 1)
}

func (s *Surface) clampInterval(interval int) int {
	return min(max(interval, s.renderer.MinSwapInterval()), s.renderer.MaxSwapInterval())
}

func (s *Surface) window() NativeWindow {
	if s.binding == nil {
		return 0
	}
	return s.binding.Window()
}

func (s *Surface) fail(op string, code Code, err error) error {
	e := &Error{Op: op, Code: code, Err: err}
	s.err = e
	Logger().Debug("surface: operation failed", slog.String("op", op), slog.String("code", code.String()), slog.Any("err", err))
	return e
}

func (s *Surface) releaseSwapChain() {
	if s.swapChain == nil {
		return
	}
	s.swapChain.Release()
	s.swapChain = nil
}

// Release detaches the Surface from its window, releases the bound
// texture and destroys the swap chain, in that order. Release is
// idempotent.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.intercept != nil {
		s.intercept.Remove()
		s.intercept = nil
	}
	s.unsubscribe()
	if t := s.texture; t != nil {
		s.texture = nil
		t.ReleaseTexImage()
	}
	s.releaseSwapChain()
	Logger().Info("surface: released", "window", s.window(), "share", s.share)
}

// SetSwapInterval requests a new presentation interval, clamped to the
// renderer's range. A change takes effect at the next staleness check.
func (s *Surface) SetSwapInterval(interval int) {
	interval = s.clampInterval(interval)
	if interval == s.swapInterval {
		return
	}
	s.swapInterval = interval
	s.intervalDirty = true
}

// SetBoundTexture records the texture the Surface is bound to, or clears
// the binding if t is nil.
func (s *Surface) SetBoundTexture(t Texture) {
	s.texture = t
}

func (s *Surface) BoundTexture() Texture { return s.texture }

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

func (s *Surface) SwapInterval() int { return s.swapInterval }

// PresentMode maps the swap interval to a presentation mode.
func (s *Surface) PresentMode() gputypes.PresentMode {
	if s.swapInterval == 0 {
		return gputypes.PresentModeImmediate
	}
	return gputypes.PresentModeFifo
}

func (s *Surface) FixedSize() bool                              { return s.fixedSize }
func (s *Surface) PostSubBufferSupported() bool                 { return s.postSubBuffer }
func (s *Surface) RenderBuffer() RenderBuffer                   { return s.renderBuffer }
func (s *Surface) SwapBehavior() SwapBehavior                   { return s.swapBehavior }
func (s *Surface) TextureFormat() TextureFormat                 { return s.textureFormat }
func (s *Surface) TextureTarget() TextureTarget                 { return s.textureTarget }
func (s *Surface) ColorFormat() gputypes.TextureFormat          { return s.colorFormat }
func (s *Surface) DepthStencilFormat() gputypes.TextureFormat   { return s.depthStencilFormat }
func (s *Surface) PixelAspectRatio() float32                    { return s.pixelAspectRatio }
func (s *Surface) SwapFlags() SwapFlags                         { return s.swapFlags }
func (s *Surface) ShareHandle() ShareHandle                     { return s.share }
func (s *Surface) Window() NativeWindow                         { return s.window() }
func (s *Surface) ScaleFactor() float32                         { return s.scale }
func (s *Surface) Binding() NativeWindowBinding                 { return s.binding }

// Initialized reports whether the Surface currently owns a swap chain.
func (s *Surface) Initialized() bool { return s.swapChain != nil }

// SwapChain returns the current swap chain, or nil. Resets after device
// loss or a format change may replace it, so callers must not cache it
// across presentations.
func (s *Surface) SwapChain() SwapChain { return s.swapChain }

// Err returns the error of the most recent failed operation.
func (s *Surface) Err() error { return s.err }
