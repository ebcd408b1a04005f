package config

import (
	"reflect"
	"sort"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, []string{"."})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output != "./CMakeLists.txt" {
		t.Errorf("Output = %q, want %q", cfg.Output, "./CMakeLists.txt")
	}
	if cfg.BaseDir != "" || cfg.FilterCMake || cfg.CppHeaders || cfg.Debug || cfg.Watch {
		t.Errorf("unexpected non-default values: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Roots, []string{"."}) {
		t.Errorf("Roots = %v", cfg.Roots)
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("output", "./CMakeLists.txt", "")
	fs.StringArray("exclude", nil, "")
	fs.Bool("filter-cmake", false, "")
	if err := fs.Parse([]string{"--output=-", "--exclude=gen", "--exclude=third_party", "--filter-cmake"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(fs, []string{"src"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output != Stdout {
		t.Errorf("Output = %q, want %q", cfg.Output, Stdout)
	}
	if !reflect.DeepEqual(cfg.Excludes, []string{"gen", "third_party"}) {
		t.Errorf("Excludes = %v", cfg.Excludes)
	}
	if !cfg.FilterCMake {
		t.Errorf("FilterCMake not set")
	}
}

func TestLoadEnvVars(t *testing.T) {
	t.Setenv("CMAKERER_OUTPUT", "out/CMakeLists.txt")
	t.Setenv("CMAKERER_EXCLUDE", "gen,third_party")
	t.Setenv("CMAKERER_FILTER", "test")
	t.Setenv("CMAKERER_FILTER_CMAKE", "true")

	cfg, err := Load(nil, []string{"."})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output != "out/CMakeLists.txt" {
		t.Errorf("Output = %q", cfg.Output)
	}
	// Comma-separated env values map onto the repeatable list flags.
	if !reflect.DeepEqual(cfg.Excludes, []string{"gen", "third_party"}) {
		t.Errorf("Excludes = %v, want [gen third_party]", cfg.Excludes)
	}
	if !reflect.DeepEqual(cfg.Filters, []string{"test"}) {
		t.Errorf("Filters = %v, want [test]", cfg.Filters)
	}
	if !cfg.FilterCMake {
		t.Errorf("FilterCMake not set from env")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"no roots", Config{}, true},
		{"single root", Config{Roots: []string{"a"}}, false},
		{"multiple roots without base", Config{Roots: []string{"a", "b"}}, true},
		{"multiple roots with base", Config{Roots: []string{"a", "b"}, BaseDir: "proj"}, false},
	}

	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSourceExtsIncludeHeaderExts(t *testing.T) {
	cfg := Config{}
	exts := cfg.SourceExts()

	for _, ext := range []string{"c", "cc", "cpp", "h", "hpp", "hh"} {
		if !exts[ext] {
			t.Errorf("default SourceExts missing %q: %v", ext, exts)
		}
	}
}

func TestSourceExtsOverride(t *testing.T) {
	// Overriding source types keeps headers indexable as sources.
	cfg := Config{SourceTypes: "cxx, c", HeaderTypes: "hxx"}
	exts := cfg.SourceExts()

	for _, ext := range []string{"cxx", "c", "hxx"} {
		if !exts[ext] {
			t.Errorf("SourceExts missing %q: %v", ext, exts)
		}
	}
	if exts["cpp"] {
		t.Errorf("SourceExts should not retain defaults after override: %v", exts)
	}
	if !reflect.DeepEqual(cfg.HeaderExts(), map[string]bool{"hxx": true}) {
		t.Errorf("HeaderExts = %v", cfg.HeaderExts())
	}
}

func TestFilterSegments(t *testing.T) {
	cfg := Config{Filters: []string{"test"}, FilterCMake: true}
	got := cfg.FilterSegments()
	sort.Strings(got)

	want := []string{"CMakeFiles", "cmake", "cmake-build-debug", "test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterSegments() = %v, want %v", got, want)
	}
}
