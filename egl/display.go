// SPDX-License-Identifier: Unlicense OR MIT

// Package egl exposes Surfaces through EGL-style display entry points.
// Failing calls return an *Error and record its code for GetError.
// Once device loss is observed, calls that would touch the GPU fail with
// ContextLost until the display is recreated.
package egl

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"gioui.org/surface"
	"gioui.org/surface/internal/config"
)

// Context is a client rendering context.
type Context interface {
	// Bind attaches the context to the current back buffers of draw
	// and read.
	Bind(draw, read *surface.Surface) error
}

// Attrib names a surface attribute for QuerySurface.
type Attrib int32

const (
	AttribHeight                 Attrib = 0x3056
	AttribWidth                  Attrib = 0x3057
	AttribTextureFormat          Attrib = 0x3080
	AttribTextureTarget          Attrib = 0x3081
	AttribRenderBuffer           Attrib = 0x3086
	AttribPixelAspectRatio       Attrib = 0x3092
	AttribSwapBehavior           Attrib = 0x3093
	AttribPostSubBufferSupported Attrib = 0x30BE
)

// Attribute values reported by QuerySurface.
const (
	NoTexture       = 0x305C
	TextureRGB      = 0x305D
	TextureRGBA     = 0x305E
	Texture2D       = 0x305F
	BackBuffer      = 0x3084
	SingleBuffer    = 0x3085
	BufferPreserved = 0x3094
	BufferDestroyed = 0x3095
	// DisplayScaling is the fixed-point scale of PixelAspectRatio.
	DisplayScaling = 10000
)

// Display owns a set of Surfaces sharing one Renderer and tracks the
// current context binding. A Display must be used from a single
// goroutine; only its device-lost flag may be set concurrently.
type Display struct {
	renderer deviceLossRenderer
	defaults attribs

	surfaces   map[*surface.Surface]*entry
	ctx        Context
	draw, read *surface.Surface
	terminated bool

	lastErr ErrorCode
	lost    atomic.Bool
}

type entry struct {
	pbuffer bool
	// destroyed marks a surface whose destruction is deferred until it
	// is no longer current.
	destroyed bool
}

type attribs struct {
	opts     surface.Options
	interval int
}

// Option overrides a surface attribute default.
type Option func(a *attribs)

// deviceLossRenderer flags its Display before forwarding device loss.
type deviceLossRenderer struct {
	surface.Renderer
	d *Display
}

func (r deviceLossRenderer) NotifyDeviceLost() {
	r.d.NotifyDeviceLost()
	r.Renderer.NotifyDeviceLost()
}

// NewDisplay returns a Display creating swap chains with r. Surface
// attribute defaults are taken from cfg, or the built-in defaults if cfg
// is nil.
func NewDisplay(r surface.Renderer, cfg *config.Config) (*Display, error) {
	if r == nil {
		return nil, errors.New("egl: nil Renderer")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	color, err := cfg.Surface.Color()
	if err != nil {
		return nil, fmt.Errorf("egl: %w", err)
	}
	depth, err := cfg.Surface.DepthStencil()
	if err != nil {
		return nil, fmt.Errorf("egl: %w", err)
	}
	preserved, err := cfg.Surface.Preserved()
	if err != nil {
		return nil, fmt.Errorf("egl: %w", err)
	}
	d := &Display{
		surfaces: make(map[*surface.Surface]*entry),
		lastErr:  Success,
	}
	d.renderer = deviceLossRenderer{Renderer: r, d: d}
	d.defaults = attribs{
		opts: surface.Options{
			FixedSize:          cfg.Surface.FixedSize,
			PostSubBuffer:      cfg.Surface.PostSubBufferEnabled(),
			ColorFormat:        color,
			DepthStencilFormat: depth,
		},
		interval: cfg.Surface.Interval(),
	}
	if preserved {
		d.defaults.opts.SwapBehavior = surface.BufferPreserved
	}
	return d, nil
}

// WithSize sets the size of a pbuffer or fixed-size window surface.
func WithSize(width, height int) Option {
	return func(a *attribs) {
		a.opts.Width, a.opts.Height = width, height
	}
}

// WithFixedSize makes a window surface ignore its window's size.
func WithFixedSize(width, height int) Option {
	return func(a *attribs) {
		a.opts.FixedSize = true
		a.opts.Width, a.opts.Height = width, height
	}
}

func WithSwapInterval(interval int) Option {
	return func(a *attribs) {
		a.interval = interval
	}
}

func WithPostSubBuffer(enable bool) Option {
	return func(a *attribs) {
		a.opts.PostSubBuffer = enable
	}
}

func WithRenderBuffer(b surface.RenderBuffer) Option {
	return func(a *attribs) {
		a.opts.RenderBuffer = b
	}
}

// WithTexture makes a pbuffer bindable as a texture.
func WithTexture(format surface.TextureFormat, target surface.TextureTarget) Option {
	return func(a *attribs) {
		a.opts.TextureFormat, a.opts.TextureTarget = format, target
	}
}

// WithFormats overrides the color and depth-stencil formats.
func WithFormats(color, depthStencil gputypes.TextureFormat) Option {
	return func(a *attribs) {
		a.opts.ColorFormat, a.opts.DepthStencilFormat = color, depthStencil
	}
}

func (d *Display) resolve(options []Option) attribs {
	a := d.defaults
	for _, o := range options {
		o(&a)
	}
	return a
}

// CreateWindowSurface creates and initializes a Surface for the window
// of b.
func (d *Display) CreateWindowSurface(b surface.NativeWindowBinding, options ...Option) (*surface.Surface, error) {
	const op = "CreateWindowSurface"
	if err := d.check(op); err != nil {
		return nil, err
	}
	if b == nil || b.Window() == 0 {
		return nil, d.fail(op, BadNativeWindow, nil)
	}
	for s, e := range d.surfaces {
		if !e.destroyed && s.Window() == b.Window() {
			return nil, d.fail(op, BadAlloc, errors.New("window already has a surface"))
		}
	}
	a := d.resolve(options)
	s, err := surface.NewWindowSurface(d.renderer, d, b, a.opts)
	if err != nil {
		return nil, d.fail(op, BadNativeWindow, err)
	}
	return d.initialize(op, s, a, false)
}

// CreatePbufferSurface creates and initializes an offscreen Surface of
// the size given by WithSize. A zero share handle lets the renderer
// allocate the backing resource.
func (d *Display) CreatePbufferSurface(share surface.ShareHandle, options ...Option) (*surface.Surface, error) {
	const op = "CreatePbufferSurface"
	if err := d.check(op); err != nil {
		return nil, err
	}
	a := d.resolve(options)
	if (a.opts.TextureFormat == surface.NoTextureFormat) != (a.opts.TextureTarget == surface.NoTextureTarget) {
		return nil, d.fail(op, BadMatch, errors.New("texture format and target must be set together"))
	}
	s, err := surface.NewOffscreenSurface(d.renderer, d, share, a.opts)
	if err != nil {
		return nil, d.fail(op, BadParameter, err)
	}
	return d.initialize(op, s, a, true)
}

func (d *Display) initialize(op string, s *surface.Surface, a attribs, pbuffer bool) (*surface.Surface, error) {
	s.SetSwapInterval(a.interval)
	if err := s.Initialize(); err != nil {
		s.Release()
		return nil, d.fail(op, codeFor(err), err)
	}
	d.surfaces[s] = &entry{pbuffer: pbuffer}
	d.ok()
	return s, nil
}

// DestroySurface releases s. Destruction of a current surface is deferred
// until it is no longer current.
func (d *Display) DestroySurface(s *surface.Surface) error {
	const op = "DestroySurface"
	e, ok := d.surfaces[s]
	if !ok || e.destroyed {
		return d.fail(op, BadSurface, nil)
	}
	e.destroyed = true
	d.reap()
	d.ok()
	return nil
}

// MakeCurrent binds ctx to draw and read. A nil ctx with nil surfaces
// releases the current binding.
func (d *Display) MakeCurrent(draw, read *surface.Surface, ctx Context) error {
	const op = "MakeCurrent"
	if ctx == nil {
		if draw != nil || read != nil {
			return d.fail(op, BadMatch, nil)
		}
		d.ctx, d.draw, d.read = nil, nil, nil
		d.reap()
		d.ok()
		return nil
	}
	if err := d.check(op); err != nil {
		return err
	}
	if (draw == nil) != (read == nil) {
		return d.fail(op, BadMatch, nil)
	}
	for _, s := range []*surface.Surface{draw, read} {
		if s == nil {
			continue
		}
		if e, ok := d.surfaces[s]; !ok || e.destroyed {
			return d.fail(op, BadSurface, nil)
		}
	}
	if err := ctx.Bind(draw, read); err != nil {
		if errors.Is(err, surface.ErrDeviceLost) {
			d.NotifyDeviceLost()
			return d.fail(op, ContextLost, err)
		}
		return d.fail(op, BadContext, err)
	}
	d.ctx, d.draw, d.read = ctx, draw, read
	d.reap()
	d.ok()
	return nil
}

// CurrentSurfaces returns the current draw and read surfaces.
func (d *Display) CurrentSurfaces() (draw, read *surface.Surface) {
	return d.draw, d.read
}

// IsCurrentDraw implements surface.ContextBinder.
func (d *Display) IsCurrentDraw(s *surface.Surface) bool {
	return s != nil && d.draw == s
}

// Rebind implements surface.ContextBinder.
func (d *Display) Rebind(s *surface.Surface) error {
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Bind(d.draw, d.read)
}

// SwapBuffers presents the current draw surface s.
func (d *Display) SwapBuffers(s *surface.Surface) error {
	const op = "SwapBuffers"
	if err := d.checkCurrent(op, s); err != nil {
		return err
	}
	if err := s.Swap(); err != nil {
		return d.fail(op, codeFor(err), err)
	}
	d.ok()
	return nil
}

// PostSubBuffer presents a rectangle of the current draw surface s.
func (d *Display) PostSubBuffer(s *surface.Surface, x, y, width, height int) error {
	const op = "PostSubBuffer"
	if err := d.checkCurrent(op, s); err != nil {
		return err
	}
	if x < 0 || y < 0 || width < 0 || height < 0 {
		return d.fail(op, BadParameter, fmt.Errorf("negative rectangle (%d,%d) %dx%d", x, y, width, height))
	}
	if err := s.PostSubBuffer(x, y, width, height); err != nil {
		return d.fail(op, codeFor(err), err)
	}
	d.ok()
	return nil
}

// SwapInterval sets the swap interval of the current draw surface.
func (d *Display) SwapInterval(interval int) error {
	const op = "SwapInterval"
	if err := d.check(op); err != nil {
		return err
	}
	if d.ctx == nil {
		return d.fail(op, BadContext, nil)
	}
	if d.draw == nil {
		return d.fail(op, BadSurface, nil)
	}
	d.draw.SetSwapInterval(interval)
	d.ok()
	return nil
}

// BindTexImage binds the pbuffer s to tex.
func (d *Display) BindTexImage(s *surface.Surface, tex surface.Texture) error {
	const op = "BindTexImage"
	if err := d.check(op); err != nil {
		return err
	}
	e, ok := d.surfaces[s]
	if !ok || e.destroyed || !e.pbuffer || tex == nil {
		return d.fail(op, BadSurface, nil)
	}
	if s.TextureFormat() == surface.NoTextureFormat {
		return d.fail(op, BadMatch, nil)
	}
	if s.BoundTexture() != nil {
		return d.fail(op, BadAccess, nil)
	}
	s.SetBoundTexture(tex)
	d.ok()
	return nil
}

// ReleaseTexImage detaches the pbuffer s from its texture, if any.
func (d *Display) ReleaseTexImage(s *surface.Surface) error {
	const op = "ReleaseTexImage"
	e, ok := d.surfaces[s]
	if !ok || e.destroyed || !e.pbuffer {
		return d.fail(op, BadSurface, nil)
	}
	if s.TextureFormat() == surface.NoTextureFormat {
		return d.fail(op, BadMatch, nil)
	}
	if t := s.BoundTexture(); t != nil {
		s.SetBoundTexture(nil)
		t.ReleaseTexImage()
	}
	d.ok()
	return nil
}

// QuerySurface returns the value of attribute a of s.
func (d *Display) QuerySurface(s *surface.Surface, a Attrib) (int, error) {
	const op = "QuerySurface"
	e, ok := d.surfaces[s]
	if !ok || e.destroyed {
		return 0, d.fail(op, BadSurface, nil)
	}
	var v int
	switch a {
	case AttribWidth:
		v = s.Width()
	case AttribHeight:
		v = s.Height()
	case AttribTextureFormat:
		switch s.TextureFormat() {
		case surface.TextureRGB:
			v = TextureRGB
		case surface.TextureRGBA:
			v = TextureRGBA
		default:
			v = NoTexture
		}
	case AttribTextureTarget:
		v = NoTexture
		if s.TextureTarget() == surface.Texture2D {
			v = Texture2D
		}
	case AttribRenderBuffer:
		v = BackBuffer
		if s.RenderBuffer() == surface.FrontBuffer {
			v = SingleBuffer
		}
	case AttribSwapBehavior:
		v = BufferDestroyed
		if s.SwapBehavior() == surface.BufferPreserved {
			v = BufferPreserved
		}
	case AttribPixelAspectRatio:
		v = int(s.PixelAspectRatio() * DisplayScaling)
	case AttribPostSubBufferSupported:
		if s.PostSubBufferSupported() {
			v = 1
		}
	default:
		return 0, d.fail(op, BadAttribute, fmt.Errorf("attribute 0x%x", int32(a)))
	}
	d.ok()
	return v, nil
}

// GetError returns the code of the last call and resets it to Success.
func (d *Display) GetError() ErrorCode {
	c := d.lastErr
	d.lastErr = Success
	return c
}

// NotifyDeviceLost marks the device as lost. It is safe to call from
// any goroutine.
func (d *Display) NotifyDeviceLost() {
	if d.lost.CompareAndSwap(false, true) {
		surface.Logger().Warn("egl: device lost")
	}
}

// DeviceLost reports whether device loss has been observed.
func (d *Display) DeviceLost() bool {
	return d.lost.Load()
}

// Terminate releases every surface and the current binding.
func (d *Display) Terminate() {
	d.ctx, d.draw, d.read = nil, nil, nil
	for s := range d.surfaces {
		s.Release()
		delete(d.surfaces, s)
	}
	d.terminated = true
	d.ok()
}

// Surfaces returns the number of live surfaces, including those pending
// destruction.
func (d *Display) Surfaces() int {
	return len(d.surfaces)
}

func (d *Display) check(op string) error {
	if d.terminated {
		return d.fail(op, NotInitialized, nil)
	}
	if d.lost.Load() {
		return d.fail(op, ContextLost, surface.ErrDeviceLost)
	}
	return nil
}

func (d *Display) checkCurrent(op string, s *surface.Surface) error {
	if err := d.check(op); err != nil {
		return err
	}
	if e, ok := d.surfaces[s]; !ok || e.destroyed || s != d.draw {
		return d.fail(op, BadSurface, nil)
	}
	return nil
}

// reap releases destroyed surfaces that are no longer current.
func (d *Display) reap() {
	for s, e := range d.surfaces {
		if e.destroyed && s != d.draw && s != d.read {
			s.Release()
			delete(d.surfaces, s)
		}
	}
}

func (d *Display) ok() {
	d.lastErr = Success
}

func (d *Display) fail(op string, code ErrorCode, err error) error {
	d.lastErr = code
	surface.Logger().Debug("egl: call failed", "op", op, "code", code, "err", err)
	return &Error{Op: op, Code: code, Err: err}
}
