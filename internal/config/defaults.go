package config

import (
	"time"

	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/layout"
	"github.com/ziadkadry99/canvas/internal/snippets"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".canvas.yml"

// DefaultDebounce is the auto-refresh quiet period.
const DefaultDebounce = 300 * time.Millisecond

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:              8080,
		DataDir:           ".canvas",
		DefaultTheme:      string(theme.DefaultMode),
		CompactBreakpoint: layout.DefaultBreakpoint,
		Preview: PreviewConfig{
			AutoRefresh: false,
			DebounceMS:  int(DefaultDebounce / time.Millisecond),
		},
		Export: ExportConfig{
			Title: export.DefaultTitle,
		},
		Snippets: SnippetsConfig{
			Include: append([]string(nil), snippets.DefaultInclude...),
		},
	}
}

// Debounce returns the auto-refresh quiet period.
func (c *Config) Debounce() time.Duration {
	if c.Preview.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(c.Preview.DebounceMS) * time.Millisecond
}

// Theme returns the configured default theme mode.
func (c *Config) Theme() theme.Mode {
	m, err := theme.ParseMode(c.DefaultTheme)
	if err != nil {
		return theme.DefaultMode
	}
	return m
}
