package tui

import (
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/Veraticus/duecal/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Start  tracker.Period
	Width  int
	Height int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithStart sets the month shown first. It defaults to the current month.
func WithStart(p tracker.Period) Option {
	return func(c *Config) {
		c.Start = p
	}
}
