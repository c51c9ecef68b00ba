// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"runtime"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"gioui.org/surface"
	"gioui.org/surface/egl"
	"gioui.org/surface/internal/config"
	"gioui.org/surface/internal/d3d11"
	"gioui.org/surface/internal/windows"
	"gioui.org/surface/wsi"
)

// runWindow presents Direct3D 11 frames to a Win32 window. The window
// is created on this locked thread so the surface can observe its size
// messages directly.
func runWindow(cfg *config.Config, frames int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hwnd, cleanup, err := createWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := d3d11.NewRenderer()
	if err != nil {
		return err
	}
	defer r.Release()
	d, err := egl.NewDisplay(r, cfg)
	if err != nil {
		return err
	}
	defer d.Terminate()
	binding := wsi.NewWin32Window(hwnd)
	s, err := d.CreateWindowSurface(binding)
	if err != nil {
		return fmt.Errorf("create window surface: %w", err)
	}
	m, err := newMonitor(d, s)
	if err != nil {
		return err
	}
	defer m.close()
	surface.Logger().Info("surfacemon: win32 window", "hwnd", hwnd, "dpi", binding.DPI(), "feature_level", fmt.Sprintf("%#x", r.FeatureLevel()))

	var msg windows.Msg
	for n := 0; frames == 0 || n < frames; n++ {
		for windows.PeekMessage(&msg, 0, 0, 0, windows.PM_REMOVE) {
			if msg.Message == windows.WM_QUIT {
				return nil
			}
			windows.TranslateMessage(&msg)
			windows.DispatchMessage(&msg)
		}
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

const className = "SurfacemonWindow"

func createWindow(cfg config.Window) (syscall.Handle, func(), error) {
	hInst, err := windows.GetModuleHandle()
	if err != nil {
		return 0, nil, err
	}
	curs, err := windows.LoadCursor(windows.IDC_ARROW)
	if err != nil {
		return 0, nil, err
	}
	wcls := windows.WndClassEx{
		CbSize:        uint32(unsafe.Sizeof(windows.WndClassEx{})),
		Style:         windows.CS_HREDRAW | windows.CS_VREDRAW | windows.CS_OWNDC,
		LpfnWndProc:   syscall.NewCallback(windowProc),
		HInstance:     hInst,
		HCursor:       curs,
		LpszClassName: syscall.StringToUTF16Ptr(className),
	}
	cls, err := windows.RegisterClassEx(&wcls)
	if err != nil {
		return 0, nil, err
	}
	hwnd, err := windows.CreateWindowEx(0,
		cls,
		cfg.Title,
		windows.WS_OVERLAPPEDWINDOW|windows.WS_CLIPSIBLINGS|windows.WS_CLIPCHILDREN,
		windows.CW_USEDEFAULT, windows.CW_USEDEFAULT,
		int32(cfg.Width), int32(cfg.Height),
		0,
		0,
		hInst,
		0)
	if err != nil {
		windows.UnregisterClass(cls, hInst)
		return 0, nil, err
	}
	windows.ShowWindow(hwnd, windows.SW_SHOWDEFAULT)
	cleanup := func() {
		if syscall.IsWindow(syscall.HWND(hwnd)) {
			windows.DestroyWindow(hwnd)
		}
		windows.UnregisterClass(cls, hInst)
	}
	return hwnd, cleanup, nil
}

func windowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case windows.WM_CLOSE:
		windows.DestroyWindow(hwnd)
		return 0
	case windows.WM_DESTROY:
		windows.PostQuitMessage(0)
		return 0
	}
	return windows.DefWindowProc(hwnd, msg, wParam, lParam)
}
