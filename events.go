// SPDX-License-Identifier: Unlicense OR MIT

package surface

import "errors"

// subscribe registers for every notification kind src delivers. Kinds
// the platform does not support are skipped.
func (s *Surface) subscribe(src EventSource) error {
	// A repeated Initialize must not leave the earlier tokens behind.
	s.unsubscribe()
	s.source = src
	for k := EventSizeChanged; k < eventKindCount; k++ {
		tok, err := src.Subscribe(k, s.handleEvent)
		if errors.Is(err, ErrUnsupportedEvent) {
			Logger().Debug("surface: event not supported", "kind", k)
			continue
		}
		if err != nil {
			s.unsubscribe()
			return err
		}
		s.tokens[k] = tok
	}
	return nil
}

func (s *Surface) unsubscribe() {
	if s.source == nil {
		return
	}
	for k, tok := range s.tokens {
		if tok == 0 {
			continue
		}
		s.source.Unsubscribe(tok)
		s.tokens[k] = 0
	}
}

func (s *Surface) handleEvent(e Event) {
	if s.released {
		return
	}
	switch e.Kind {
	case EventSizeChanged:
		if s.fixedSize || s.swapChain == nil {
			return
		}
		w, h := s.backingSize(e.Width, e.Height)
		if err := s.resizeSwapChain(w, h); err != nil {
			Logger().Debug("surface: resize on size event failed", "width", w, "height", h, "err", err)
		}
	case EventDPIChanged:
		if e.Scale > 0 {
			s.scale = e.Scale
		}
	case EventOrientationChanged:
		s.swapFlags = e.Rotation
	}
}
