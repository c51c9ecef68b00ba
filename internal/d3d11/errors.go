// SPDX-License-Identifier: Unlicense OR MIT

// Package d3d11 implements swap chains on Direct3D 11 and DXGI.
package d3d11

import (
	"errors"
	"fmt"

	"gioui.org/surface"
)

// ErrorCode is a failed HRESULT and the call that returned it.
type ErrorCode struct {
	Name string
	Code uint32
}

const (
	DXGI_STATUS_OCCLUDED      = 0x087A0001
	DXGI_ERROR_INVALID_CALL   = 0x887A0001
	DXGI_ERROR_DEVICE_REMOVED = 0x887A0005
	DXGI_ERROR_DEVICE_HUNG    = 0x887A0006
	DXGI_ERROR_DEVICE_RESET   = 0x887A0007
	D3DDDIERR_DEVICEREMOVED   = 1<<31 | 0x876<<16 | 2160
	E_OUTOFMEMORY             = 0x8007000E
)

// statusInvalidCall is DXGI_ERROR_INVALID_CALL as a signed status.
const statusInvalidCall int32 = DXGI_ERROR_INVALID_CALL - 1<<32

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s: %#x", e.Name, e.Code)
}

// deviceLost reports whether code means the device must be recreated.
func deviceLost(code uint32) bool {
	switch code {
	case DXGI_ERROR_DEVICE_REMOVED, DXGI_ERROR_DEVICE_HUNG, DXGI_ERROR_DEVICE_RESET, D3DDDIERR_DEVICEREMOVED:
		return true
	}
	return false
}

// convertError maps a D3D error to the surface error contract: device
// loss matches surface.ErrDeviceLost, other HRESULTs become
// BackendErrors carrying the code.
func convertError(err error) error {
	var code ErrorCode
	if !errors.As(err, &code) {
		return err
	}
	switch {
	case code.Code == DXGI_STATUS_OCCLUDED:
		// Success code; the window is hidden.
		return nil
	case deviceLost(code.Code):
		return fmt.Errorf("%w: %v", surface.ErrDeviceLost, code)
	default:
		return &surface.BackendError{Code: int32(code.Code)}
	}
}
