// SPDX-License-Identifier: Unlicense OR MIT

package main

const mainUsage = `The surfacemon command opens a window, binds a rendering surface to it
and logs how the surface tracks resizes, rotations and device loss.

Usage:

	surfacemon [flags]

The -config flag names a YAML configuration file. The default is
$XDG_CONFIG_HOME/surfacemon/config.yaml; a missing file selects the built-in
defaults.

The -frames flag stops after the given number of presented frames. Zero runs
until the window is closed.

The -offscreen flag renders into an offscreen surface of the configured
window size instead of a window and needs no display server. With -o the last
frame is written as a PNG file.

The -interval flag overrides the configured swap interval. Negative values
keep the configured one.

The -v flag enables debug logging, overriding the configured log level.

On Unix the window is an X11 window presented by the software renderer; the
-display flag or the window.display setting selects the X server. On Windows
the window is presented by Direct3D 11.
`
