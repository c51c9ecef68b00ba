// SPDX-License-Identifier: Unlicense OR MIT

package x11

import (
	"image"

	"golang.org/x/image/draw"
)

// stretch scales src to fill a w×h image, the way fixed-size swap
// chains are stretched over a window of a different size.
func stretch(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
