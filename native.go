// SPDX-License-Identifier: Unlicense OR MIT

package surface

// NativeWindow identifies a platform window: a HWND on Windows, an X11
// window id on Unix.
type NativeWindow uintptr

// ShareHandle is an opaque handle to a GPU resource shared with another
// API or process.
type ShareHandle uintptr

// NativeWindowBinding is the platform capability a windowed Surface
// depends on.
type NativeWindowBinding interface {
	// Window returns the bound window.
	Window() NativeWindow
	// ClientSize returns the size of the window's client area in
	// logical units.
	ClientSize() (width, height int, err error)
	// Minimized reports whether the window is minimized. The client
	// size of a minimized window is meaningless.
	Minimized() bool
	// ScaleFactor returns the number of backing pixels per logical
	// unit.
	ScaleFactor() float32
}

// MessageInterceptor is implemented by bindings that can observe the
// window's messages directly.
type MessageInterceptor interface {
	// InterceptResize arranges for onResize to run whenever the window
	// receives a size message, before the message reaches the window's
	// own procedure. It returns ErrNotOwner if the calling thread does
	// not own the window.
	InterceptResize(onResize func()) (Interception, error)
}

// Interception is an installed message interception.
type Interception interface {
	// Remove restores the window's original message procedure.
	Remove()
}

// EventSource is implemented by bindings that deliver window and display
// changes through subscriptions.
type EventSource interface {
	// Subscribe registers fn for notifications of the given kind and
	// returns a non-zero token. It returns ErrUnsupportedEvent if the
	// platform never delivers that kind.
	Subscribe(kind EventKind, fn func(Event)) (Token, error)
	// Unsubscribe removes a subscription. Unknown and zero tokens are
	// ignored.
	Unsubscribe(tok Token)
}

// OrientationSource is implemented by bindings that can report the
// current screen rotation. Initialize reads it once; later changes
// arrive as EventOrientationChanged.
type OrientationSource interface {
	Rotation() SwapFlags
}

// Token identifies a subscription. The zero Token means not subscribed.
type Token uint64

// EventKind is the kind of a native notification.
type EventKind uint8

const (
	EventSizeChanged EventKind = iota + 1
	EventDPIChanged
	EventOrientationChanged

	eventKindCount = iota + 1
)

func (k EventKind) String() string {
	switch k {
	case EventSizeChanged:
		return "size"
	case EventDPIChanged:
		return "dpi"
	case EventOrientationChanged:
		return "orientation"
	default:
		return "unknown"
	}
}

// Event is a native window or display notification.
type Event struct {
	Kind EventKind
	// Width and Height are the new logical client size for
	// EventSizeChanged.
	Width, Height float32
	// Scale is the new number of backing pixels per logical unit for
	// EventDPIChanged.
	Scale float32
	// Rotation is the new display rotation for EventOrientationChanged.
	Rotation SwapFlags
}
