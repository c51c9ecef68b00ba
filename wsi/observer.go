// SPDX-License-Identifier: Unlicense OR MIT

// Package wsi binds Surfaces to native windows. Win32 windows deliver
// size messages through window procedure substitution; X11 windows
// deliver size and rotation changes through event subscriptions.
package wsi

import (
	"errors"
	"fmt"
	"sync"

	"gioui.org/surface"
)

// ErrObserved is returned when a window already has an observer.
var ErrObserved = errors.New("wsi: window already observed")

// ProcTable reads and replaces window procedures.
type ProcTable interface {
	WindowProc(w surface.NativeWindow) uintptr
	// SetWindowProc installs proc and returns the previous procedure.
	SetWindowProc(w surface.NativeWindow, proc uintptr) (uintptr, error)
}

// Observer intercepts the size messages of one window and forwards
// every message to the window's original procedure.
type Observer struct {
	reg      *Observers
	window   surface.NativeWindow
	onResize func()
	// original is the procedure replaced at install time.
	original uintptr
	// installed is the substituted procedure.
	installed uintptr
}

// Observers is a table of observers keyed by window.
type Observers struct {
	procs ProcTable
	win   sync.Map // surface.NativeWindow → *Observer
}

func NewObservers(procs ProcTable) *Observers {
	return &Observers{procs: procs}
}

// Install replaces the procedure of w with proc and records an
// Observer calling onResize on size messages.
func (o *Observers) Install(w surface.NativeWindow, proc uintptr, onResize func()) (*Observer, error) {
	obs := &Observer{
		reg:       o,
		window:    w,
		onResize:  onResize,
		installed: proc,
	}
	if _, loaded := o.win.LoadOrStore(w, obs); loaded {
		return nil, ErrObserved
	}
	prev, err := o.procs.SetWindowProc(w, proc)
	if err != nil {
		o.win.Delete(w)
		return nil, fmt.Errorf("wsi: installing window procedure: %w", err)
	}
	obs.original = prev
	surface.Logger().Debug("wsi: observing window", "window", w)
	return obs, nil
}

// Lookup returns the Observer of w, or nil.
func (o *Observers) Lookup(w surface.NativeWindow) *Observer {
	v, ok := o.win.Load(w)
	if !ok {
		return nil
	}
	return v.(*Observer)
}

// Len returns the number of observed windows.
func (o *Observers) Len() int {
	n := 0
	o.win.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Resized runs the resize callback.
func (obs *Observer) Resized() {
	if obs.onResize != nil {
		obs.onResize()
	}
}

// Original returns the procedure messages must be forwarded to.
func (obs *Observer) Original() uintptr {
	return obs.original
}

// Remove restores the original window procedure and forgets the
// observer. A procedure installed over ours by another component is
// replaced all the same; the condition is only logged.
func (obs *Observer) Remove() {
	o := obs.reg
	if v, ok := o.win.Load(obs.window); !ok || v.(*Observer) != obs {
		return
	}
	cur := o.procs.WindowProc(obs.window)
	switch {
	case cur == 0:
		// The window is gone and its procedure with it.
		surface.Logger().Debug("wsi: observed window already destroyed", "window", obs.window)
		o.win.Delete(obs.window)
		obs.onResize = nil
		return
	case cur != obs.installed:
		surface.Logger().Warn("wsi: window procedure was subclassed after observer install",
			"window", obs.window, "procedure", fmt.Sprintf("%#x", cur))
	}
	if _, err := o.procs.SetWindowProc(obs.window, obs.original); err != nil {
		surface.Logger().Warn("wsi: restoring window procedure", "window", obs.window, "err", err)
	}
	o.win.Delete(obs.window)
	obs.onResize = nil
}
