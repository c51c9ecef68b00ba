// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
	"fmt"

	"gioui.org/surface"
)

// ErrorCode is an EGL error number.
type ErrorCode int32

const (
	Success           ErrorCode = 0x3000
	NotInitialized    ErrorCode = 0x3001
	BadAccess         ErrorCode = 0x3002
	BadAlloc          ErrorCode = 0x3003
	BadAttribute      ErrorCode = 0x3004
	BadConfig         ErrorCode = 0x3005
	BadContext        ErrorCode = 0x3006
	BadCurrentSurface ErrorCode = 0x3007
	BadDisplay        ErrorCode = 0x3008
	BadMatch          ErrorCode = 0x3009
	BadNativePixmap   ErrorCode = 0x300A
	BadNativeWindow   ErrorCode = 0x300B
	BadParameter      ErrorCode = 0x300C
	BadSurface        ErrorCode = 0x300D
	ContextLost       ErrorCode = 0x300E
)

var codeNames = map[ErrorCode]string{
	Success:           "EGL_SUCCESS",
	NotInitialized:    "EGL_NOT_INITIALIZED",
	BadAccess:         "EGL_BAD_ACCESS",
	BadAlloc:          "EGL_BAD_ALLOC",
	BadAttribute:      "EGL_BAD_ATTRIBUTE",
	BadConfig:         "EGL_BAD_CONFIG",
	BadContext:        "EGL_BAD_CONTEXT",
	BadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	BadDisplay:        "EGL_BAD_DISPLAY",
	BadMatch:          "EGL_BAD_MATCH",
	BadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	BadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	BadParameter:      "EGL_BAD_PARAMETER",
	BadSurface:        "EGL_BAD_SURFACE",
	ContextLost:       "EGL_CONTEXT_LOST",
}

func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("0x%x", int32(c))
}

// Error is returned by failing Display calls.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("egl: %s: %v", e.Op, e.Code)
	}
	return fmt.Sprintf("egl: %s: %v: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// codeFor translates a surface error into an EGL error number. Backend
// statuses that already are EGL numbers are forwarded unchanged; other
// backend failures are reported as allocation failures.
func codeFor(err error) ErrorCode {
	switch surface.CodeOf(err) {
	case surface.CodeBadAlloc:
		return BadAlloc
	case surface.CodeBadSurface:
		return BadSurface
	case surface.CodeBadMatch:
		return BadMatch
	case surface.CodeContextLost:
		return ContextLost
	}
	var be *surface.BackendError
	if errors.As(err, &be) {
		if c := ErrorCode(be.Code); c >= Success && c <= ContextLost {
			return c
		}
	}
	return BadAlloc
}
