// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads display and surface defaults from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string  `yaml:"log_level"`
	Surface  Surface `yaml:"surface"`
	Window   Window  `yaml:"window"`
}

// Surface holds the attribute defaults a display applies to new
// surfaces.
type Surface struct {
	// SwapInterval defaults to 1.
	SwapInterval *int `yaml:"swap_interval"`
	// PostSubBuffer defaults to true.
	PostSubBuffer *bool `yaml:"post_sub_buffer"`
	// ColorFormat is a texture format name such as "BGRA8Unorm".
	ColorFormat string `yaml:"color_format"`
	// DepthStencilFormat is a depth format name, or "none".
	DepthStencilFormat string `yaml:"depth_stencil_format"`
	// SwapBehavior is "destroyed" (default) or "preserved".
	SwapBehavior string `yaml:"swap_behavior"`
	FixedSize    bool   `yaml:"fixed_size"`
}

// Window configures the demo window of the monitor tool.
type Window struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	Display string `yaml:"display"` // X11 display, e.g. ":0"
}

const (
	DefaultSwapInterval = 1
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultTitle        = "surfacemon"
)

var colorFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatRGB10A2Unorm,
	gputypes.TextureFormatRGBA16Float,
}

var depthFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatDepth16Unorm,
	gputypes.TextureFormatDepth24Plus,
	gputypes.TextureFormatDepth24PlusStencil8,
	gputypes.TextureFormatDepth32Float,
	gputypes.TextureFormatDepth32FloatStencil8,
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	interval := DefaultSwapInterval
	post := true
	return &Config{
		LogLevel: "info",
		Surface: Surface{
			SwapInterval:       &interval,
			PostSubBuffer:      &post,
			ColorFormat:        gputypes.TextureFormatBGRA8Unorm.String(),
			DepthStencilFormat: "none",
			SwapBehavior:       "destroyed",
		},
		Window: Window{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/surfacemon/config.yaml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "surfacemon", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "surfacemon", "config.yaml"), nil
}

// Load reads the file at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted set of values.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Surface.Color(); err != nil {
		return err
	}
	if _, err := c.Surface.DepthStencil(); err != nil {
		return err
	}
	if _, err := c.Surface.Preserved(); err != nil {
		return err
	}
	if c.Surface.SwapInterval != nil && *c.Surface.SwapInterval < 0 {
		return fmt.Errorf("swap_interval must be >= 0, got %d", *c.Surface.SwapInterval)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return l, nil
}

// Interval returns the effective swap interval.
func (s *Surface) Interval() int {
	if s == nil || s.SwapInterval == nil {
		return DefaultSwapInterval
	}
	return *s.SwapInterval
}

// PostSubBufferEnabled returns the effective value, defaulting to true.
func (s *Surface) PostSubBufferEnabled() bool {
	if s == nil || s.PostSubBuffer == nil {
		return true
	}
	return *s.PostSubBuffer
}

// Color returns the configured color format.
func (s *Surface) Color() (gputypes.TextureFormat, error) {
	if s.ColorFormat == "" {
		return gputypes.TextureFormatBGRA8Unorm, nil
	}
	if f, ok := lookup(colorFormats, s.ColorFormat); ok {
		return f, nil
	}
	return 0, fmt.Errorf("unsupported color_format %q", s.ColorFormat)
}

// DepthStencil returns the configured depth-stencil format, or
// TextureFormatUndefined for none.
func (s *Surface) DepthStencil() (gputypes.TextureFormat, error) {
	if s.DepthStencilFormat == "" || strings.EqualFold(s.DepthStencilFormat, "none") {
		return gputypes.TextureFormatUndefined, nil
	}
	if f, ok := lookup(depthFormats, s.DepthStencilFormat); ok {
		return f, nil
	}
	return 0, fmt.Errorf("unsupported depth_stencil_format %q", s.DepthStencilFormat)
}

// Preserved reports whether the back buffer survives presentation.
func (s *Surface) Preserved() (bool, error) {
	switch strings.ToLower(s.SwapBehavior) {
	case "", "destroyed":
		return false, nil
	case "preserved":
		return true, nil
	default:
		return false, fmt.Errorf("invalid swap_behavior %q (want destroyed or preserved)", s.SwapBehavior)
	}
}

func lookup(formats []gputypes.TextureFormat, name string) (gputypes.TextureFormat, bool) {
	for _, f := range formats {
		if strings.EqualFold(f.String(), name) {
			return f, true
		}
	}
	return 0, false
}
