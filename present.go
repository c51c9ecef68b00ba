// SPDX-License-Identifier: Unlicense OR MIT

package surface

import "image"

// Swap presents the whole back buffer.
func (s *Surface) Swap() error {
	return s.SwapRect(0, 0, s.width, s.height)
}

// PostSubBuffer presents a rectangle of the back buffer. A Surface
// created without partial presentation support ignores the call and
// reports success.
func (s *Surface) PostSubBuffer(x, y, width, height int) error {
	if !s.postSubBuffer {
		return nil
	}
	return s.SwapRect(x, y, width, height)
}

// SwapRect presents the part of the rectangle at (x, y) of the given
// size that lies within the Surface. A rectangle outside the Surface is
// not presented and is not an error. After a successful present the
// swap chain is checked for staleness.
func (s *Surface) SwapRect(x, y, width, height int) error {
	if s.released {
		return s.fail(opSwap, CodeBadSurface, ErrReleased)
	}
	if s.swapChain == nil {
		return nil
	}
	r := clip(x, y, width, height, s.width, s.height)
	if r.Empty() {
		return nil
	}
	if err := s.swapChain.SwapRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), s.swapFlags); err != nil {
		return s.swapChainError(opSwap, err)
	}
	s.CheckForOutOfDateSwapChain()
	return nil
}

// clip intersects a rectangle with the bounds [0,bw)×[0,bh). A rectangle
// with a negative extent stays empty.
func clip(x, y, width, height, bw, bh int) image.Rectangle {
	r := image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+width, y+height)}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Intersect(image.Rectangle{Max: image.Pt(bw, bh)})
}
