package config

// Config is the top-level canvas configuration, corresponding to .canvas.yml.
type Config struct {
	Port              int            `yaml:"port" koanf:"port"`
	DataDir           string         `yaml:"data_dir" koanf:"data_dir"`
	DefaultTheme      string         `yaml:"default_theme" koanf:"default_theme"`
	CompactBreakpoint int            `yaml:"compact_breakpoint" koanf:"compact_breakpoint"`
	AllowAllOrigins   bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Preview           PreviewConfig  `yaml:"preview" koanf:"preview"`
	Export            ExportConfig   `yaml:"export" koanf:"export"`
	Snippets          SnippetsConfig `yaml:"snippets" koanf:"snippets"`
}

// PreviewConfig controls preview refreshing.
type PreviewConfig struct {
	AutoRefresh bool `yaml:"auto_refresh" koanf:"auto_refresh"`
	DebounceMS  int  `yaml:"debounce_ms" koanf:"debounce_ms"`
}

// ExportConfig controls the downloaded document.
type ExportConfig struct {
	Title string `yaml:"title" koanf:"title"`
}

// SnippetsConfig locates starter snippets. An empty Dir uses the builtin
// starters.
type SnippetsConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include" koanf:"include"`
}
