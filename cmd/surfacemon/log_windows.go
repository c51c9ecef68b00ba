// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"io"
	"os"

	syscall "golang.org/x/sys/windows"

	"gioui.org/surface/internal/windows"
)

type debugView struct{}

// logOutput returns stderr, or the debugger output when the program
// runs without a console.
func logOutput() io.Writer {
	if syscall.Stderr == 0 {
		return debugView{}
	}
	return os.Stderr
}

// Write sends buf to OutputDebugString. DebugView adds timestamps.
func (debugView) Write(buf []byte) (int, error) {
	windows.OutputDebugString(string(buf))
	return len(buf), nil
}
