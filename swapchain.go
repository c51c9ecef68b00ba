// SPDX-License-Identifier: Unlicense OR MIT

package surface

import "github.com/gogpu/gputypes"

// SwapChain is the GPU resource presenting a Surface's buffers.
//
// Each method returns nil on success, an error matching ErrDeviceLost when
// the device is gone, or any other error for backend failures.
type SwapChain interface {
	// Reset (re)creates the buffers at the given size and presentation
	// interval. It may change format and buffering parameters.
	Reset(width, height, interval int) error
	// Resize changes the dimensions of the existing buffers.
	Resize(width, height int) error
	// SwapRect presents the given rectangle of the back buffer.
	SwapRect(x, y, width, height int, flags SwapFlags) error
	Release()
}

// Renderer creates swap chains and owns the device they live on.
type Renderer interface {
	// CreateSwapChain creates a swap chain for win, or an offscreen one
	// when win is zero. A non-zero share names an existing resource to
	// render into; zero asks the Renderer to allocate one.
	CreateSwapChain(win NativeWindow, share ShareHandle, color, depthStencil gputypes.TextureFormat) (SwapChain, error)
	MinSwapInterval() int
	MaxSwapInterval() int
	// NotifyDeviceLost is called once for every operation that
	// observed device loss.
	NotifyDeviceLost()
}

// Texture is a texture bound to an offscreen Surface for render to
// texture.
type Texture interface {
	// ReleaseTexImage detaches the Surface from the texture.
	ReleaseTexImage()
}

// ContextBinder is the display side a Surface reports back to.
type ContextBinder interface {
	// IsCurrentDraw reports whether s is the draw surface of the
	// current rendering context.
	IsCurrentDraw(s *Surface) bool
	// Rebind makes the current context current again so it picks up
	// the new back buffer of s.
	Rebind(s *Surface) error
}

// SwapFlags is the rotation applied to the back buffer at present time.
type SwapFlags uint32

const (
	SwapRotate0 SwapFlags = iota
	SwapRotate90
	SwapRotate180
	SwapRotate270
)

func (f SwapFlags) String() string {
	switch f {
	case SwapRotate0:
		return "rotate0"
	case SwapRotate90:
		return "rotate90"
	case SwapRotate180:
		return "rotate180"
	case SwapRotate270:
		return "rotate270"
	default:
		return "invalid"
	}
}

// RenderBuffer selects the buffer client rendering targets.
type RenderBuffer uint8

const (
	BackBuffer RenderBuffer = iota
	FrontBuffer
)

// SwapBehavior describes the back buffer contents after presentation.
type SwapBehavior uint8

const (
	BufferDestroyed SwapBehavior = iota
	BufferPreserved
)

// TextureFormat is the format an offscreen Surface exposes when bound
// as a texture.
type TextureFormat uint8

const (
	NoTextureFormat TextureFormat = iota
	TextureRGB
	TextureRGBA
)

// TextureTarget is the texture target an offscreen Surface binds to.
type TextureTarget uint8

const (
	NoTextureTarget TextureTarget = iota
	Texture2D
)
