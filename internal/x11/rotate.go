// SPDX-License-Identifier: Unlicense OR MIT

package x11

import (
	"image"

	"github.com/BurntSushi/xgb/randr"

	"gioui.org/surface"
)

// Rotation converts RandR rotation bits to swap flags. Reflection bits
// are ignored.
func Rotation(bits uint16) surface.SwapFlags {
	switch {
	case bits&randr.RotationRotate90 != 0:
		return surface.SwapRotate90
	case bits&randr.RotationRotate180 != 0:
		return surface.SwapRotate180
	case bits&randr.RotationRotate270 != 0:
		return surface.SwapRotate270
	default:
		return surface.SwapRotate0
	}
}

// rotatedSize returns the size of a w×h image rotated by rot.
func rotatedSize(w, h int, rot surface.SwapFlags) (int, int) {
	if rot == surface.SwapRotate90 || rot == surface.SwapRotate270 {
		return h, w
	}
	return w, h
}

// rotatePoint maps pixel (x, y) of a w×h image to its position after a
// clockwise rotation by rot.
func rotatePoint(x, y, w, h int, rot surface.SwapFlags) (int, int) {
	switch rot {
	case surface.SwapRotate90:
		return h - 1 - y, x
	case surface.SwapRotate180:
		return w - 1 - x, h - 1 - y
	case surface.SwapRotate270:
		return y, w - 1 - x
	default:
		return x, y
	}
}

// rotateRect maps r within a w×h image to its rotated position.
func rotateRect(r image.Rectangle, w, h int, rot surface.SwapFlags) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	x0, y0 := rotatePoint(r.Min.X, r.Min.Y, w, h, rot)
	x1, y1 := rotatePoint(r.Max.X-1, r.Max.Y-1, w, h, rot)
	return image.Rect(min(x0, x1), min(y0, y1), max(x0, x1)+1, max(y0, y1)+1)
}

// rotateInto writes the pixels of r in src to dst, rotated by rot. dst
// must have the rotated size of src.
func rotateInto(dst, src *image.RGBA, r image.Rectangle, rot surface.SwapFlags) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx, dy := rotatePoint(x-b.Min.X, y-b.Min.Y, w, h, rot)
			dst.SetRGBA(dx, dy, src.RGBAAt(x, y))
		}
	}
}
