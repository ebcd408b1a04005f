package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ritzau/cmakerer/pkg/logging"
)

// Result holds everything the later pipeline stages look up. All paths are
// relative to the walked root and use "/" separators; the root directory
// itself is represented as "".
type Result struct {
	// SourceFiles are the candidate files in walk order, e.g. "src/foo.cpp"
	// or "main.c" for root-level files.
	SourceFiles []string
	// HeaderDirs is the set of directories containing at least one header.
	HeaderDirs map[string]bool
	// SourceDirs is the set of directories containing at least one source
	// file, the lookup universe for path-shaped system includes.
	SourceDirs map[string]bool
}

// Options configures one walk.
type Options struct {
	SourceExts map[string]bool
	HeaderExts map[string]bool
	// ExtensionlessHeaders treats files without any extension as headers
	// (C++ standard-library style).
	ExtensionlessHeaders bool
}

// Walk visits root and its non-filtered, non-excluded subdirectories and
// collects candidate source files and header/source directory sets. An
// unreadable root is a fatal error; unreadable subtrees are logged and
// skipped. The walk never changes the process working directory: relative
// paths are computed against the fixed root.
func Walk(root string, filter *Filter, opts Options) (*Result, error) {
	res := &Result{
		HeaderDirs: make(map[string]bool),
		SourceDirs: make(map[string]bool),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = normalizeRel(filepath.ToSlash(rel))

		if err != nil {
			if rel == "" {
				return fmt.Errorf("cannot read search root %s: %w", root, err)
			}
			logging.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if rel == "" && !d.IsDir() {
			return fmt.Errorf("search root %s is not a directory", root)
		}

		if d.IsDir() {
			if rel == "" {
				return nil // the root itself is never filtered
			}
			if filter.FilteredSegment(d.Name()) || filter.ExcludedDir(rel) {
				logging.Debug("pruning directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		dir := parentDir(rel)
		if filter.ExcludedAt(dir) {
			logging.Debug("skipping exclude-at file", "path", rel)
			return nil
		}

		name := d.Name()
		ext, hasExt := fileExt(name)
		isHeader := hasExt && opts.HeaderExts[ext]
		// headers are always indexed as sources too
		isSource := isHeader || (hasExt && opts.SourceExts[ext])
		if !hasExt && opts.ExtensionlessHeaders {
			isHeader = true
			isSource = true
		}

		if !isSource {
			return nil
		}

		res.SourceFiles = append(res.SourceFiles, rel)
		res.SourceDirs[dir] = true
		if isHeader {
			res.HeaderDirs[dir] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// IsCandidate reports whether a file basename matches the configured
// extension sets. Used by the watch mode to decide which change events
// warrant regeneration.
func IsCandidate(name string, opts Options) bool {
	ext, hasExt := fileExt(name)
	if !hasExt {
		return opts.ExtensionlessHeaders
	}
	return opts.SourceExts[ext] || opts.HeaderExts[ext]
}

// parentDir returns the containing directory of a root-relative file path,
// "" for root-level files.
func parentDir(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}

// fileExt returns the substring after the final "." in name. A name with
// no "." has no extension at all.
func fileExt(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}
