package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/canvas/internal/theme"
)

// envPrefix marks environment overrides.
const envPrefix = "CANVAS_"

// sections are the nested config blocks; their env names use the first
// underscore as the key delimiter.
var sections = []string{"preview", "export", "snippets"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CANVAS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: CANVAS_PORT -> port,
	// CANVAS_PREVIEW_AUTO_REFRESH -> preview.auto_refresh.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.DefaultTheme != "" {
		if _, err := theme.ParseMode(c.DefaultTheme); err != nil {
			return fmt.Errorf("invalid default_theme: %w", err)
		}
	}

	if c.CompactBreakpoint < 0 {
		return fmt.Errorf("compact_breakpoint must be non-negative")
	}

	if c.Preview.DebounceMS < 0 {
		return fmt.Errorf("preview.debounce_ms must be non-negative")
	}

	if c.Snippets.Dir != "" {
		info, err := os.Stat(c.Snippets.Dir)
		if err != nil {
			return fmt.Errorf("snippets.dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("snippets.dir %s is not a directory", c.Snippets.Dir)
		}
	}

	return nil
}
