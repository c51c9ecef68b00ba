// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

const (
	DXGI_FORMAT_UNKNOWN              = 0
	DXGI_FORMAT_R16G16B16A16_FLOAT   = 10
	DXGI_FORMAT_D32_FLOAT_S8X24_UINT = 20
	DXGI_FORMAT_R10G10B10A2_UNORM    = 24
	DXGI_FORMAT_R8G8B8A8_UNORM       = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB  = 29
	DXGI_FORMAT_D32_FLOAT            = 40
	DXGI_FORMAT_D24_UNORM_S8_UINT    = 45
	DXGI_FORMAT_D16_UNORM            = 55
	DXGI_FORMAT_B8G8R8A8_UNORM       = 87
	DXGI_FORMAT_B8G8R8A8_UNORM_SRGB  = 91
)

// colorFormat returns the DXGI format of a swap chain color buffer.
func colorFormat(f gputypes.TextureFormat) (uint32, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return DXGI_FORMAT_R8G8B8A8_UNORM, nil
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return DXGI_FORMAT_R8G8B8A8_UNORM_SRGB, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return DXGI_FORMAT_B8G8R8A8_UNORM, nil
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return DXGI_FORMAT_B8G8R8A8_UNORM_SRGB, nil
	case gputypes.TextureFormatRGB10A2Unorm:
		return DXGI_FORMAT_R10G10B10A2_UNORM, nil
	case gputypes.TextureFormatRGBA16Float:
		return DXGI_FORMAT_R16G16B16A16_FLOAT, nil
	}
	return 0, fmt.Errorf("d3d11: unsupported color format %v", f)
}

// depthFormat returns the DXGI format of a depth/stencil buffer, or
// DXGI_FORMAT_UNKNOWN for none.
func depthFormat(f gputypes.TextureFormat) (uint32, error) {
	switch f {
	case gputypes.TextureFormatUndefined:
		return DXGI_FORMAT_UNKNOWN, nil
	case gputypes.TextureFormatDepth16Unorm:
		return DXGI_FORMAT_D16_UNORM, nil
	case gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth24PlusStencil8:
		return DXGI_FORMAT_D24_UNORM_S8_UINT, nil
	case gputypes.TextureFormatDepth32Float:
		return DXGI_FORMAT_D32_FLOAT, nil
	case gputypes.TextureFormatDepth32FloatStencil8:
		return DXGI_FORMAT_D32_FLOAT_S8X24_UINT, nil
	}
	return 0, fmt.Errorf("d3d11: unsupported depth format %v", f)
}
