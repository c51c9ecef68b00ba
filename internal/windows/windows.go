// SPDX-License-Identifier: Unlicense OR MIT

//go:build windows

// Package windows binds the user32 and kernel32 entry points used by
// window bindings and the monitor tool.
package windows

import (
	"fmt"
	"runtime"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

type Rect struct {
	Left, Top, Right, Bottom int32
}

type Point struct {
	X, Y int32
}

type WndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CnClsExtra    int32
	CbWndExtra    int32
	HInstance     syscall.Handle
	HIcon         syscall.Handle
	HCursor       syscall.Handle
	HbrBackground syscall.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       syscall.Handle
}

type Msg struct {
	Hwnd     syscall.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       Point
	LPrivate uint32
}

const (
	CS_HREDRAW = 0x0002
	CS_VREDRAW = 0x0001
	CS_OWNDC   = 0x0020

	CW_USEDEFAULT = -2147483648

	GWLP_WNDPROC = ^uintptr(3) // -4

	IDC_ARROW = 32512

	PM_REMOVE = 0x0001

	SW_SHOWDEFAULT = 10

	SIZE_RESTORED  = 0
	SIZE_MINIMIZED = 1
	SIZE_MAXIMIZED = 2

	USER_DEFAULT_SCREEN_DPI = 96

	WM_CLOSE      = 0x0010
	WM_DESTROY    = 0x0002
	WM_DPICHANGED = 0x02E0
	WM_PAINT      = 0x000F
	WM_SIZE       = 0x0005
	WM_QUIT       = 0x0012

	WS_OVERLAPPEDWINDOW = 0x00CF0000
	WS_CLIPCHILDREN     = 0x02000000
	WS_CLIPSIBLINGS     = 0x04000000
	WS_VISIBLE          = 0x10000000
)

var (
	kernel32           = syscall.NewLazySystemDLL("kernel32.dll")
	_GetModuleHandleW  = kernel32.NewProc("GetModuleHandleW")
	_OutputDebugString = kernel32.NewProc("OutputDebugStringW")

	user32            = syscall.NewLazySystemDLL("user32.dll")
	_CallWindowProc   = user32.NewProc("CallWindowProcW")
	_CreateWindowEx   = user32.NewProc("CreateWindowExW")
	_DefWindowProc    = user32.NewProc("DefWindowProcW")
	_DestroyWindow    = user32.NewProc("DestroyWindow")
	_DispatchMessage  = user32.NewProc("DispatchMessageW")
	_GetClientRect    = user32.NewProc("GetClientRect")
	_GetDpiForWindow  = user32.NewProc("GetDpiForWindow")
	_GetWindowLong    = user32.NewProc("GetWindowLongPtrW")
	_GetWindowLong32  = user32.NewProc("GetWindowLongW")
	_IsIconic         = user32.NewProc("IsIconic")
	_LoadCursor       = user32.NewProc("LoadCursorW")
	_PeekMessage      = user32.NewProc("PeekMessageW")
	_PostQuitMessage  = user32.NewProc("PostQuitMessage")
	_RegisterClassExW = user32.NewProc("RegisterClassExW")
	_SetWindowLong    = user32.NewProc("SetWindowLongPtrW")
	_SetWindowLong32  = user32.NewProc("SetWindowLongW")
	_ShowWindow       = user32.NewProc("ShowWindow")
	_TranslateMessage = user32.NewProc("TranslateMessage")
	_UnregisterClass  = user32.NewProc("UnregisterClassW")
)

func CallWindowProc(proc uintptr, hwnd syscall.Handle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := _CallWindowProc.Call(proc, uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func CreateWindowEx(dwExStyle uint32, lpClassName uint16, lpWindowName string, dwStyle uint32, x, y, w, h int32, hWndParent, hMenu, hInstance syscall.Handle, lpParam uintptr) (syscall.Handle, error) {
	wname := syscall.StringToUTF16Ptr(lpWindowName)
	hwnd, _, err := _CreateWindowEx.Call(
		uintptr(dwExStyle),
		uintptr(lpClassName),
		uintptr(unsafe.Pointer(wname)),
		uintptr(dwStyle),
		uintptr(x), uintptr(y),
		uintptr(w), uintptr(h),
		uintptr(hWndParent),
		uintptr(hMenu),
		uintptr(hInstance),
		uintptr(lpParam))
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	return syscall.Handle(hwnd), nil
}

func DefWindowProc(hwnd syscall.Handle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func DestroyWindow(hwnd syscall.Handle) {
	_DestroyWindow.Call(uintptr(hwnd))
}

func DispatchMessage(m *Msg) {
	_DispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

// GetClientRect returns the client area of hwnd in pixels.
func GetClientRect(hwnd syscall.Handle) (Rect, error) {
	var r Rect
	ok, _, err := _GetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return Rect{}, fmt.Errorf("GetClientRect failed: %v", err)
	}
	return r, nil
}

func GetModuleHandle() (syscall.Handle, error) {
	h, _, err := _GetModuleHandleW.Call(uintptr(0))
	if h == 0 {
		return 0, fmt.Errorf("GetModuleHandleW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

// GetWindowDPI returns the effective DPI of the window.
func GetWindowDPI(hwnd syscall.Handle) int {
	// GetDpiForWindow was introduced in Windows 10.
	if _GetDpiForWindow.Find() != nil {
		return USER_DEFAULT_SCREEN_DPI
	}
	dpi, _, _ := _GetDpiForWindow.Call(uintptr(hwnd))
	if dpi == 0 {
		return USER_DEFAULT_SCREEN_DPI
	}
	return int(dpi)
}

func GetWindowLong(hwnd syscall.Handle, index uintptr) (val uintptr) {
	if runtime.GOARCH == "386" {
		val, _, _ = _GetWindowLong32.Call(uintptr(hwnd), index)
	} else {
		val, _, _ = _GetWindowLong.Call(uintptr(hwnd), index)
	}
	return
}

func IsIconic(hwnd syscall.Handle) bool {
	r, _, _ := _IsIconic.Call(uintptr(hwnd))
	return r != 0
}

func LoadCursor(curID uint16) (syscall.Handle, error) {
	h, _, err := _LoadCursor.Call(0, uintptr(curID))
	if h == 0 {
		return 0, fmt.Errorf("LoadCursorW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

// OutputDebugString writes s to the debugger.
func OutputDebugString(s string) {
	p, err := syscall.UTF16PtrFromString(s)
	if err != nil {
		return
	}
	_OutputDebugString.Call(uintptr(unsafe.Pointer(p)))
}

// PeekMessage reports whether a message was retrieved.
func PeekMessage(m *Msg, hwnd syscall.Handle, wMsgFilterMin, wMsgFilterMax, wRemoveMsg uint32) bool {
	r, _, _ := _PeekMessage.Call(uintptr(unsafe.Pointer(m)),
		uintptr(hwnd),
		uintptr(wMsgFilterMin),
		uintptr(wMsgFilterMax),
		uintptr(wRemoveMsg))
	return r != 0
}

func PostQuitMessage(exitCode uintptr) {
	_PostQuitMessage.Call(exitCode)
}

func RegisterClassEx(cls *WndClassEx) (uint16, error) {
	a, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(cls)))
	if a == 0 {
		return 0, fmt.Errorf("RegisterClassExW failed: %v", err)
	}
	return uint16(a), nil
}

// SetWindowLong sets a window attribute and returns the previous value.
// Only attributes that are never zero, such as GWLP_WNDPROC, report
// failures.
func SetWindowLong(hwnd syscall.Handle, idx uintptr, val uintptr) (uintptr, error) {
	proc := _SetWindowLong
	if runtime.GOARCH == "386" {
		proc = _SetWindowLong32
	}
	prev, _, err := proc.Call(uintptr(hwnd), idx, val)
	if prev == 0 {
		return 0, fmt.Errorf("SetWindowLong failed: %v", err)
	}
	return prev, nil
}

func ShowWindow(hwnd syscall.Handle, nCmdShow int32) {
	_ShowWindow.Call(uintptr(hwnd), uintptr(nCmdShow))
}

func TranslateMessage(m *Msg) {
	_TranslateMessage.Call(uintptr(unsafe.Pointer(m)))
}

func UnregisterClass(cls uint16, hInst syscall.Handle) {
	_UnregisterClass.Call(uintptr(cls), uintptr(hInst))
}
