// SPDX-License-Identifier: Unlicense OR MIT

package wsi

import (
	"sync"

	syscall "golang.org/x/sys/windows"

	"gioui.org/surface"
	"gioui.org/surface/internal/windows"
)

// Win32Window binds a Surface to a HWND.
type Win32Window struct {
	hwnd syscall.Handle
}

type win32Procs struct{}

var (
	win32Observers = NewObservers(win32Procs{})

	procOnce     sync.Once
	observerProc uintptr
)

func NewWin32Window(hwnd syscall.Handle) *Win32Window {
	return &Win32Window{hwnd: hwnd}
}

func (w *Win32Window) Window() surface.NativeWindow {
	return surface.NativeWindow(w.hwnd)
}

// ClientSize returns the client area in pixels.
func (w *Win32Window) ClientSize() (int, int, error) {
	r, err := windows.GetClientRect(w.hwnd)
	if err != nil {
		return 0, 0, err
	}
	return int(r.Right - r.Left), int(r.Bottom - r.Top), nil
}

func (w *Win32Window) Minimized() bool {
	return windows.IsIconic(w.hwnd)
}

// ScaleFactor is 1 because ClientSize already reports pixels.
func (w *Win32Window) ScaleFactor() float32 {
	return 1
}

// DPI returns the effective DPI of the window.
func (w *Win32Window) DPI() int {
	return windows.GetWindowDPI(w.hwnd)
}

// InterceptResize substitutes the window procedure. Only the thread
// that created the window may do so.
func (w *Win32Window) InterceptResize(onResize func()) (surface.Interception, error) {
	var pid uint32
	tid, err := syscall.GetWindowThreadProcessId(syscall.HWND(w.hwnd), &pid)
	if err != nil {
		return nil, err
	}
	if pid != syscall.GetCurrentProcessId() || tid != syscall.GetCurrentThreadId() {
		return nil, surface.ErrNotOwner
	}
	procOnce.Do(func() {
		observerProc = syscall.NewCallback(observerWindowProc)
	})
	obs, err := win32Observers.Install(w.Window(), observerProc, onResize)
	if err != nil {
		return nil, err
	}
	return obs, nil
}

func observerWindowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	obs := win32Observers.Lookup(surface.NativeWindow(hwnd))
	if obs == nil {
		return windows.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	if msg == windows.WM_SIZE {
		obs.Resized()
	}
	return windows.CallWindowProc(obs.Original(), hwnd, msg, wParam, lParam)
}

func (win32Procs) WindowProc(w surface.NativeWindow) uintptr {
	return windows.GetWindowLong(syscall.Handle(w), windows.GWLP_WNDPROC)
}

func (win32Procs) SetWindowProc(w surface.NativeWindow, proc uintptr) (uintptr, error) {
	return windows.SetWindowLong(syscall.Handle(w), windows.GWLP_WNDPROC, proc)
}
