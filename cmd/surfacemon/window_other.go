// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows && !((linux && !android) || freebsd || openbsd)

package main

import (
	"errors"

	"gioui.org/surface/internal/config"
)

func runWindow(cfg *config.Config, frames int) error {
	return errors.New("no window support on this platform, use -offscreen")
}
