// Package generator orchestrates the pipeline: walk each search root,
// extract include directives, resolve include roots, and merge everything
// into a single project descriptor.
package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/cmakerer/pkg/cmake"
	"github.com/ritzau/cmakerer/pkg/config"
	"github.com/ritzau/cmakerer/pkg/include"
	"github.com/ritzau/cmakerer/pkg/logging"
	"github.com/ritzau/cmakerer/pkg/resolver"
	"github.com/ritzau/cmakerer/pkg/scanner"
)

// Generator runs the scan pipeline for one configuration.
type Generator struct {
	cfg *config.Config
}

// New creates a generator for the given configuration.
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Run executes walk, extraction, and resolution for every search root in
// strict sequence and merges the per-root results. An unreadable search
// root is fatal; everything recoverable has already been handled further
// down the pipeline.
func (g *Generator) Run() (*cmake.Project, error) {
	cfg := g.cfg

	name, err := projectName(cfg)
	if err != nil {
		return nil, err
	}

	filter := scanner.NewFilter(cfg.Excludes, cfg.ExcludeAt, cfg.FilterSegments())
	opts := scanner.Options{
		SourceExts:           cfg.SourceExts(),
		HeaderExts:           cfg.HeaderExts(),
		ExtensionlessHeaders: cfg.CppHeaders,
	}

	var sources []string
	quoted := make(map[string]bool)
	system := make(map[string]bool)

	for _, root := range cfg.Roots {
		prefix, err := rootPrefix(cfg.BaseDir, root)
		if err != nil {
			return nil, err
		}

		logging.Info("scanning search root", "root", root)
		res, err := scanner.Walk(root, filter, opts)
		if err != nil {
			return nil, err
		}
		logging.Info("walk complete",
			"root", root,
			"sourceFiles", len(res.SourceFiles),
			"headerDirs", len(res.HeaderDirs))

		refs := include.Extract(root, res.SourceFiles)
		resolved := resolver.Resolve(refs, resolver.Lookup{
			SourceFiles: res.SourceFiles,
			HeaderDirs:  res.HeaderDirs,
			SourceDirs:  res.SourceDirs,
		})

		for _, f := range res.SourceFiles {
			sources = append(sources, joinPrefix(prefix, f))
		}
		for dir := range resolved.QuotedRoots {
			quoted[joinPrefix(prefix, dir)] = true
		}
		for dir := range resolved.SystemRoots {
			system[joinPrefix(prefix, dir)] = true
		}
	}

	return &cmake.Project{
		Name:        name,
		Defines:     cfg.Defines,
		Sources:     sources,
		QuotedRoots: setToList(quoted),
		SystemRoots: setToList(system),
	}, nil
}

// projectName derives the project name from the last path segment of the
// base directory, or of the sole search root.
func projectName(cfg *config.Config) (string, error) {
	path := cfg.BaseDir
	if path == "" {
		path = cfg.Roots[0]
	}
	p := filepath.Clean(path)
	if p == "." || p == string(filepath.Separator) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolving project name from %s: %w", path, err)
		}
		p = abs
	}
	return filepath.Base(p), nil
}

// rootPrefix computes the path prepended to a root's files and include
// roots before merging: the root's location relative to the base dir.
// Without a base dir (single-root runs) there is no prefix.
func rootPrefix(baseDir, root string) (string, error) {
	if baseDir == "" {
		return "", nil
	}
	rel, err := filepath.Rel(baseDir, root)
	if err != nil {
		return "", fmt.Errorf("relating search root %s to base dir %s: %w", root, baseDir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("search root %s is outside base dir %s", root, baseDir)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// joinPrefix joins a root prefix and a root-relative path, where either
// side may be empty ("" is the root itself).
func joinPrefix(prefix, p string) string {
	if prefix == "" {
		return p
	}
	if p == "" {
		return prefix
	}
	return prefix + "/" + p
}

func setToList(set map[string]bool) []string {
	list := make([]string, 0, len(set))
	for entry := range set {
		list = append(list, entry)
	}
	sort.Strings(list)
	return list
}
