// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd || openbsd

package x11

import (
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"

	"gioui.org/surface"
)

// Presenter copies software front buffers into X windows through a
// per-window pixmap.
type Presenter struct {
	conn *Conn

	mu     sync.Mutex
	images map[xproto.Window]*xgraphics.Image
}

func NewPresenter(c *Conn) *Presenter {
	return &Presenter{conn: c, images: make(map[xproto.Window]*xgraphics.Image)}
}

// Present copies r of img, rotated by rot, to win. Frames whose rotated
// size differs from the window are stretched over it.
func (p *Presenter) Present(win surface.NativeWindow, img *image.RGBA, r image.Rectangle, rot surface.SwapFlags) error {
	b := img.Bounds()
	r = r.Intersect(b)
	if r.Empty() {
		return nil
	}
	wid := xproto.Window(win)
	w, h := b.Dx(), b.Dy()
	rw, rh := rotatedSize(w, h, rot)
	ww, wh, err := p.conn.Geometry(wid)
	if err != nil || ww <= 0 || wh <= 0 {
		ww, wh = rw, rh
	}
	dst, err := p.image(wid, ww, wh)
	if err != nil {
		return err
	}
	dirty := rotateRect(r.Sub(b.Min), w, h, rot)
	if ww == rw && wh == rh {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := img.RGBAAt(x, y)
				dx, dy := rotatePoint(x-b.Min.X, y-b.Min.Y, w, h, rot)
				dst.SetBGRA(dx, dy, xgraphics.BGRA{B: c.B, G: c.G, R: c.R, A: c.A})
			}
		}
	} else {
		rotated := image.NewRGBA(image.Rect(0, 0, rw, rh))
		rotateInto(rotated, img, b, rot)
		scaled := stretch(rotated, ww, wh)
		for y := 0; y < wh; y++ {
			for x := 0; x < ww; x++ {
				c := scaled.RGBAAt(x, y)
				dst.SetBGRA(x, y, xgraphics.BGRA{B: c.B, G: c.G, R: c.R, A: c.A})
			}
		}
		dirty = dst.Bounds()
	}
	if err := dst.XDrawChecked(); err != nil {
		return fmt.Errorf("x11: draw: %w", err)
	}
	dst.XPaintRects(wid, dirty)
	return nil
}

// image returns the cached image for wid, reallocating it when the size
// changed.
func (p *Presenter) image(wid xproto.Window, w, h int) (*xgraphics.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if img, ok := p.images[wid]; ok {
		if s := img.Bounds().Size(); s.X == w && s.Y == h {
			return img, nil
		}
		img.Destroy()
		delete(p.images, wid)
	}
	img := xgraphics.New(p.conn.XU, image.Rect(0, 0, w, h))
	if err := img.XSurfaceSet(wid); err != nil {
		img.Destroy()
		return nil, fmt.Errorf("x11: create pixmap: %w", err)
	}
	p.images[wid] = img
	return img, nil
}

// Close frees every cached pixmap.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for wid, img := range p.images {
		img.Destroy()
		delete(p.images, wid)
	}
}
