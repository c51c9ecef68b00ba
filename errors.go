// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceLost is returned by a SwapChain when the GPU device
	// backing it is no longer usable.
	ErrDeviceLost = errors.New("surface: device lost")
	// ErrNotOwner is returned by a MessageInterceptor when the calling
	// thread did not create the window.
	ErrNotOwner = errors.New("surface: window is owned by another thread")
	// ErrUnsupportedEvent is returned by an EventSource that cannot
	// deliver the requested kind of notification.
	ErrUnsupportedEvent = errors.New("surface: event kind not supported")
	// ErrReleased is returned by operations on a released Surface.
	ErrReleased = errors.New("surface: released")
	// ErrFixedSize is returned when resizing a fixed-size Surface.
	ErrFixedSize = errors.New("surface: fixed-size surface cannot change size")
)

// Code classifies Surface failures.
type Code uint8

const (
	// CodeBackend is an opaque failure reported by the swap chain.
	CodeBackend Code = iota
	// CodeBadAlloc means the swap chain could not be created.
	CodeBadAlloc
	// CodeBadSurface means the native window could not be queried.
	CodeBadSurface
	// CodeBadMatch means the operation does not apply to the Surface.
	CodeBadMatch
	// CodeContextLost means the GPU device was lost.
	CodeContextLost
)

func (c Code) String() string {
	switch c {
	case CodeBackend:
		return "backend"
	case CodeBadAlloc:
		return "bad alloc"
	case CodeBadSurface:
		return "bad surface"
	case CodeBadMatch:
		return "bad match"
	case CodeContextLost:
		return "context lost"
	default:
		return fmt.Sprintf("code(%d)", uint8(c))
	}
}

// Error describes a failed Surface operation.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("surface: %s: %v: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BackendError is a non-success, non-device-lost status reported by a
// SwapChain. The code is forwarded verbatim.
type BackendError struct {
	Code int32
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("surface: backend status %#x", uint32(e.Code))
}

// CodeOf returns the Code of err, or CodeBackend when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, ErrDeviceLost) {
		return CodeContextLost
	}
	return CodeBackend
}
