// SPDX-License-Identifier: Unlicense OR MIT

// Package soft implements swap chains in system memory.
package soft

import (
	"fmt"
	"image"
	"image/draw"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"gioui.org/surface"
)

// Presenter shows the front buffer of a swap chain in a native window.
type Presenter interface {
	// Present copies the rectangle r of img to win, rotated by rot.
	Present(win surface.NativeWindow, img *image.RGBA, r image.Rectangle, rot surface.SwapFlags) error
}

// Renderer creates software swap chains. Windowed swap chains present
// through the Presenter; a nil Presenter drops windowed frames.
type Renderer struct {
	presenter Presenter
	lost      atomic.Bool
	notified  atomic.Int32
}

const (
	minSwapInterval = 0
	maxSwapInterval = 4
)

// statusInvalidCall is the backend status for calls on a released swap
// chain. It matches DXGI_ERROR_INVALID_CALL.
const statusInvalidCall = -2005270527 // 0x887A0001

func NewRenderer(p Presenter) *Renderer {
	return &Renderer{presenter: p}
}

func (r *Renderer) CreateSwapChain(win surface.NativeWindow, share surface.ShareHandle, color, depthStencil gputypes.TextureFormat) (surface.SwapChain, error) {
	if r.lost.Load() {
		return nil, surface.ErrDeviceLost
	}
	switch color {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
	default:
		return nil, fmt.Errorf("soft: unsupported color format %v", color)
	}
	if depthStencil != gputypes.TextureFormatUndefined && !depthStencil.IsDepthStencil() {
		return nil, fmt.Errorf("soft: %v is not a depth format", depthStencil)
	}
	sc := &SwapChain{
		r:      r,
		win:    win,
		share:  share,
		format: color,
		depth:  depthStencil,
	}
	return sc, nil
}

func (r *Renderer) MinSwapInterval() int { return minSwapInterval }
func (r *Renderer) MaxSwapInterval() int { return maxSwapInterval }

func (r *Renderer) NotifyDeviceLost() {
	r.notified.Add(1)
	surface.Logger().Warn("soft: device lost reported")
}

// Lose simulates device removal. Every later swap chain call fails with
// surface.ErrDeviceLost.
func (r *Renderer) Lose() {
	r.lost.Store(true)
}

// DeviceLostNotifications returns the number of NotifyDeviceLost calls.
func (r *Renderer) DeviceLostNotifications() int {
	return int(r.notified.Load())
}

// SwapChain is a double-buffered image pair.
type SwapChain struct {
	r        *Renderer
	win      surface.NativeWindow
	share    surface.ShareHandle
	format   gputypes.TextureFormat
	depth    gputypes.TextureFormat
	back     *image.RGBA
	front    *image.RGBA
	interval int
	resets   int
	frames   int
	released bool
}

func (sc *SwapChain) status() error {
	if sc.r.lost.Load() {
		return surface.ErrDeviceLost
	}
	if sc.released {
		return &surface.BackendError{Code: statusInvalidCall}
	}
	return nil
}

func (sc *SwapChain) Reset(width, height, interval int) error {
	if err := sc.status(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return &surface.BackendError{Code: statusInvalidCall}
	}
	b := image.Rect(0, 0, width, height)
	sc.back = image.NewRGBA(b)
	sc.front = image.NewRGBA(b)
	sc.interval = interval
	sc.resets++
	return nil
}

// Resize reallocates the buffers, keeping the overlapping part of the
// back buffer.
func (sc *SwapChain) Resize(width, height int) error {
	if err := sc.status(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 || sc.back == nil {
		return &surface.BackendError{Code: statusInvalidCall}
	}
	b := image.Rect(0, 0, width, height)
	back := image.NewRGBA(b)
	draw.Draw(back, b, sc.back, image.Point{}, draw.Src)
	sc.back = back
	sc.front = image.NewRGBA(b)
	return nil
}

func (sc *SwapChain) SwapRect(x, y, width, height int, flags surface.SwapFlags) error {
	if err := sc.status(); err != nil {
		return err
	}
	if sc.back == nil {
		return &surface.BackendError{Code: statusInvalidCall}
	}
	r := image.Rect(x, y, x+width, y+height).Intersect(sc.back.Bounds())
	draw.Draw(sc.front, r, sc.back, r.Min, draw.Src)
	sc.frames++
	if sc.win == 0 || sc.r.presenter == nil {
		return nil
	}
	if err := sc.r.presenter.Present(sc.win, sc.front, r, flags); err != nil {
		surface.Logger().Warn("soft: present failed", "window", sc.win, "err", err)
		return &surface.BackendError{Code: statusInvalidCall}
	}
	return nil
}

func (sc *SwapChain) Release() {
	sc.released = true
	sc.back, sc.front = nil, nil
}

// BackBuffer returns the image clients draw into.
func (sc *SwapChain) BackBuffer() *image.RGBA { return sc.back }

// FrontBuffer returns the last presented image.
func (sc *SwapChain) FrontBuffer() *image.RGBA { return sc.front }

func (sc *SwapChain) Format() gputypes.TextureFormat { return sc.format }
func (sc *SwapChain) Interval() int                  { return sc.interval }

// Frames returns the number of presents.
func (sc *SwapChain) Frames() int { return sc.frames }

// Resets returns the number of buffer reallocations caused by Reset.
func (sc *SwapChain) Resets() int { return sc.resets }
