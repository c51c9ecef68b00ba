// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gputypes"
	"golang.org/x/sys/windows"

	"gioui.org/surface"
)

// Renderer owns a Direct3D 11 device and creates DXGI swap chains on
// it.
type Renderer struct {
	dev      *device
	ctx      *deviceContext
	factory  *dxgiFactory
	level    uint32
	notified atomic.Int32
}

// SwapChain is a DXGI swap chain for a window, or a render target
// texture for offscreen surfaces.
type SwapChain struct {
	r      *Renderer
	hwnd   windows.Handle
	share  surface.ShareHandle
	format uint32
	depth  uint32

	chain  *dxgiSwapChain
	chain1 *dxgiSwapChain1
	// tex is the offscreen render target.
	tex      *texture2D
	target   *renderTargetView
	dsv      *depthStencilView
	interval int
	width    int
	height   int
}

const (
	minSwapInterval = 0
	maxSwapInterval = 4
)

// NewRenderer creates a hardware device, falling back to the WARP
// software rasterizer.
func NewRenderer() (*Renderer, error) {
	dev, ctx, lvl, err := createDevice(driverTypeHW, createBGRA)
	if err != nil {
		surface.Logger().Info("d3d11: no hardware device, using WARP", "err", err)
		dev, ctx, lvl, err = createDevice(driverTypeWARP, createBGRA)
		if err != nil {
			return nil, fmt.Errorf("d3d11: create device: %w", err)
		}
	}
	f, err := factoryOf(dev)
	if err != nil {
		release(unsafe.Pointer(ctx), ctx.Vtbl.Release)
		release(unsafe.Pointer(dev), dev.Vtbl.Release)
		return nil, fmt.Errorf("d3d11: dxgi factory: %w", err)
	}
	surface.Logger().Debug("d3d11: device created", "feature_level", fmt.Sprintf("%#x", lvl))
	return &Renderer{dev: dev, ctx: ctx, factory: f, level: lvl}, nil
}

func (r *Renderer) CreateSwapChain(win surface.NativeWindow, share surface.ShareHandle, color, depthStencil gputypes.TextureFormat) (surface.SwapChain, error) {
	if err := r.dev.GetDeviceRemovedReason(); err != nil {
		return nil, convertError(err)
	}
	cf, err := colorFormat(color)
	if err != nil {
		return nil, err
	}
	df, err := depthFormat(depthStencil)
	if err != nil {
		return nil, err
	}
	return &SwapChain{
		r:      r,
		hwnd:   windows.Handle(win),
		share:  share,
		format: cf,
		depth:  df,
	}, nil
}

func (r *Renderer) MinSwapInterval() int { return minSwapInterval }
func (r *Renderer) MaxSwapInterval() int { return maxSwapInterval }

func (r *Renderer) NotifyDeviceLost() {
	r.notified.Add(1)
	reason := r.dev.GetDeviceRemovedReason()
	surface.Logger().Warn("d3d11: device lost", "reason", reason)
}

// FeatureLevel returns the D3D feature level of the device.
func (r *Renderer) FeatureLevel() uint32 {
	return r.level
}

func (r *Renderer) Release() {
	if r.factory != nil {
		release(unsafe.Pointer(r.factory), r.factory.Vtbl.Release)
	}
	if r.ctx != nil {
		release(unsafe.Pointer(r.ctx), r.ctx.Vtbl.Release)
	}
	if r.dev != nil {
		release(unsafe.Pointer(r.dev), r.dev.Vtbl.Release)
	}
	r.factory, r.ctx, r.dev = nil, nil, nil
}

// Reset recreates the buffers from scratch.
func (s *SwapChain) Reset(width, height, interval int) error {
	s.releaseBuffers()
	s.releaseChain()
	s.interval = interval
	var err error
	if s.hwnd != 0 {
		err = s.createChain(width, height)
	} else {
		err = s.createTexture(width, height)
	}
	if err == nil {
		err = s.createViews(width, height)
	}
	if err != nil {
		s.releaseBuffers()
		s.releaseChain()
		return convertError(err)
	}
	s.width, s.height = width, height
	return nil
}

// Resize resizes the window buffers in place.
func (s *SwapChain) Resize(width, height int) error {
	if s.chain == nil {
		return s.Reset(width, height, s.interval)
	}
	s.releaseBuffers()
	s.r.ctx.OMSetRenderTargets(nil, nil)
	if err := s.chain.ResizeBuffers(0, uint32(width), uint32(height), s.format, 0); err != nil {
		return convertError(err)
	}
	if err := s.createViews(width, height); err != nil {
		return convertError(err)
	}
	s.width, s.height = width, height
	return nil
}

// SwapRect presents the rectangle, or flushes offscreen rendering.
func (s *SwapChain) SwapRect(x, y, width, height int, flags surface.SwapFlags) error {
	if s.chain == nil {
		if s.tex == nil {
			return &surface.BackendError{Code: statusInvalidCall}
		}
		s.r.ctx.Flush()
		return nil
	}
	var err error
	full := x == 0 && y == 0 && width == s.width && height == s.height
	if s.chain1 != nil && !full {
		err = s.chain1.Present1(s.interval, 0, []rect{{
			Left:   int32(x),
			Top:    int32(y),
			Right:  int32(x + width),
			Bottom: int32(y + height),
		}})
	} else {
		err = s.chain.Present(s.interval, 0)
	}
	return convertError(err)
}

// Clear fills the back buffer with a color and clears depth and
// stencil.
func (s *SwapChain) Clear(r, g, b, a float32) {
	if s.target == nil {
		return
	}
	s.r.ctx.OMSetRenderTargets(s.target, s.dsv)
	s.r.ctx.ClearRenderTargetView(s.target, &[4]float32{r, g, b, a})
	if s.dsv != nil {
		s.r.ctx.ClearDepthStencilView(s.dsv, clearDepth|clearStencil, 1, 0)
	}
}

func (s *SwapChain) Release() {
	s.releaseBuffers()
	s.releaseChain()
}

func (s *SwapChain) createChain(width, height int) error {
	chain, err := s.r.factory.CreateSwapChain(
		(*unknown)(unsafe.Pointer(s.r.dev)),
		&swapChainDesc{
			BufferDesc: modeDesc{
				Width:  uint32(width),
				Height: uint32(height),
				Format: s.format,
			},
			SampleDesc: sampleDesc{
				Count: 1,
			},
			BufferUsage:  usageRenderOut,
			BufferCount:  1,
			OutputWindow: s.hwnd,
			Windowed:     1,
			SwapEffect:   swapEffectDiscard,
		},
	)
	if err != nil {
		return err
	}
	s.chain = chain
	if c1, err := queryInterface(unsafe.Pointer(chain), chain.Vtbl.QueryInterface, &iidDXGISwapChain1); err == nil {
		s.chain1 = (*dxgiSwapChain1)(unsafe.Pointer(c1))
	} else {
		surface.Logger().Debug("d3d11: no IDXGISwapChain1, presenting full frames", "err", err)
	}
	return nil
}

func (s *SwapChain) createTexture(width, height int) error {
	if s.share != 0 {
		tex, err := s.r.dev.OpenSharedResource(uintptr(s.share))
		if err != nil {
			return err
		}
		if d := tex.GetDesc(); int(d.Width) != width || int(d.Height) != height {
			release(unsafe.Pointer(tex), tex.Vtbl.Release)
			return fmt.Errorf("d3d11: shared texture is %dx%d, want %dx%d: %w",
				d.Width, d.Height, width, height, errBadMatch)
		}
		s.tex = tex
		return nil
	}
	tex, err := s.r.dev.CreateTexture2D(&texture2DDesc{
		Width:      uint32(width),
		Height:     uint32(height),
		MipLevels:  1,
		ArraySize:  1,
		Format:     s.format,
		SampleDesc: sampleDesc{Count: 1},
		BindFlags:  bindRenderTarget | bindShaderRes,
		MiscFlags:  miscShared,
	})
	if err != nil {
		return err
	}
	s.tex = tex
	return nil
}

var errBadMatch = errors.New("d3d11: size mismatch")

func (s *SwapChain) createViews(width, height int) error {
	var res *unknown
	if s.chain != nil {
		buf, err := s.chain.GetBuffer(0, &iidTexture2D)
		if err != nil {
			return err
		}
		defer release(unsafe.Pointer(buf), buf.Vtbl.Release)
		res = buf
	} else {
		res = (*unknown)(unsafe.Pointer(s.tex))
	}
	target, err := s.r.dev.CreateRenderTargetView(res)
	if err != nil {
		return err
	}
	s.target = target
	if s.depth == DXGI_FORMAT_UNKNOWN {
		return nil
	}
	depthTex, err := s.r.dev.CreateTexture2D(&texture2DDesc{
		Width:      uint32(width),
		Height:     uint32(height),
		MipLevels:  1,
		ArraySize:  1,
		Format:     s.depth,
		SampleDesc: sampleDesc{Count: 1},
		BindFlags:  bindDepthStencil,
	})
	if err != nil {
		return err
	}
	dsv, err := s.r.dev.CreateDepthStencilView(
		(*unknown)(unsafe.Pointer(depthTex)),
		&depthStencilViewDesc{Format: s.depth, ViewDimension: dsvTexture2D},
	)
	release(unsafe.Pointer(depthTex), depthTex.Vtbl.Release)
	if err != nil {
		return err
	}
	s.dsv = dsv
	return nil
}

func (s *SwapChain) releaseBuffers() {
	if s.dsv != nil {
		release(unsafe.Pointer(s.dsv), s.dsv.Vtbl.Release)
		s.dsv = nil
	}
	if s.target != nil {
		release(unsafe.Pointer(s.target), s.target.Vtbl.Release)
		s.target = nil
	}
}

func (s *SwapChain) releaseChain() {
	if s.chain1 != nil {
		release(unsafe.Pointer(s.chain1), s.chain1.Vtbl.Release)
		s.chain1 = nil
	}
	if s.chain != nil {
		release(unsafe.Pointer(s.chain), s.chain.Vtbl.Release)
		s.chain = nil
	}
	if s.tex != nil {
		release(unsafe.Pointer(s.tex), s.tex.Vtbl.Release)
		s.tex = nil
	}
}
