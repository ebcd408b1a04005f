package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Stdout is the output path sentinel that writes the descriptor to
// standard output instead of a file.
const Stdout = "-"

// Config holds all configuration for a generation run
type Config struct {
	Output      string   `koanf:"output"`
	BaseDir     string   `koanf:"base-dir"`
	Excludes    []string `koanf:"exclude"`
	ExcludeAt   []string `koanf:"exclude-at"`
	Filters     []string `koanf:"filter"`
	FilterCMake bool     `koanf:"filter-cmake"`
	SourceTypes string   `koanf:"source-types"`
	HeaderTypes string   `koanf:"header-types"`
	CppHeaders  bool     `koanf:"cpp-headers"`
	Defines     []string `koanf:"define"`
	Watch       bool     `koanf:"watch"`
	Debug       bool     `koanf:"debug"`

	// Roots are the positional search-root arguments, not koanf-managed.
	Roots []string `koanf:"-"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet, roots []string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"output":       "./CMakeLists.txt",
		"base-dir":     "",
		"exclude":      []string{},
		"exclude-at":   []string{},
		"filter":       []string{},
		"filter-cmake": false,
		"source-types": "",
		"header-types": "",
		"cpp-headers":  false,
		"define":       []string{},
		"watch":        false,
		"debug":        false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - cmakerer.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("cmakerer.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: CMAKERER_ (e.g., CMAKERER_FILTER_CMAKE=true). Values for the
	// repeatable list flags are comma-separated (CMAKERER_EXCLUDE=a,b).
	if err := k.Load(env.ProviderWithValue("CMAKERER_", ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(key, "CMAKERER_")), "_", "-")
		switch key {
		case "exclude", "exclude-at", "filter", "define":
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Roots = roots
	return &cfg, nil
}

// Validate checks the flag combinations that cannot be defaulted away.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("at least one search root is required")
	}
	if len(c.Roots) > 1 && c.BaseDir == "" {
		return fmt.Errorf("--base-dir is required with multiple search roots")
	}
	return nil
}

// SourceExts returns the effective source-extension set. Header extensions
// are always source extensions too: headers get indexed like any other file.
func (c *Config) SourceExts() map[string]bool {
	exts := splitExts(c.SourceTypes, []string{"c", "cc", "cpp"})
	for ext := range c.HeaderExts() {
		exts[ext] = true
	}
	return exts
}

// HeaderExts returns the effective header-extension set.
func (c *Config) HeaderExts() map[string]bool {
	return splitExts(c.HeaderTypes, []string{"h", "hpp", "hh"})
}

// FilterSegments returns the directory basenames to prune, including the
// cmake shortcut set when enabled.
func (c *Config) FilterSegments() []string {
	segments := append([]string{}, c.Filters...)
	if c.FilterCMake {
		segments = append(segments, "CMakeFiles", "cmake", "cmake-build-debug")
	}
	return segments
}

func splitExts(csv string, defaults []string) map[string]bool {
	exts := make(map[string]bool)
	if strings.TrimSpace(csv) == "" {
		for _, ext := range defaults {
			exts[ext] = true
		}
		return exts
	}
	for _, ext := range strings.Split(csv, ",") {
		ext = strings.TrimSpace(ext)
		if ext != "" {
			exts[ext] = true
		}
	}
	return exts
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
