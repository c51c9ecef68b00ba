// SPDX-License-Identifier: Unlicense OR MIT

/*
Package surface implements drawable surfaces backed by GPU swap chains.

A Surface binds either a native window or an offscreen share handle to a
SwapChain created by a Renderer. It keeps the swap chain's backing size and
presentation interval in sync with the window and mediates presentation.

# Reset and resize

A swap chain is reset when it is first created and whenever the swap
interval changes; a reset may recreate the underlying buffers. A pure
dimension change only resizes the existing buffers. When both an interval
change and a size change are pending, a single reset at the new size is
performed.

# Native windows

The platform side of a windowed Surface is a NativeWindowBinding. Bindings
that can intercept window messages implement MessageInterceptor; bindings
that deliver size, DPI and orientation notifications through subscriptions
implement EventSource. The Surface never branches on the platform.

# Device loss

A swap chain reports device loss with ErrDeviceLost. The Surface notifies
its Renderer, releases the swap chain and fails the operation with
CodeContextLost. Recovery is the responsibility of the owner of the
Renderer.

Surfaces are not safe for concurrent use. Native notifications are expected
on the thread that owns the window.
*/
package surface
