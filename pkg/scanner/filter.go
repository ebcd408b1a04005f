package scanner

import (
	"strings"
)

// Filter decides which directory entries a walk keeps. It is a pure
// predicate over relative, slash-separated paths; it never touches the
// filesystem.
type Filter struct {
	excludes  []string        // subtree prunes, relative to the search root
	excludeAt map[string]bool // dirs whose direct file children are skipped
	segments  []string        // directory basenames to prune, case-insensitive
}

// NewFilter builds a filter from the configured exclude, exclude-at and
// filter-segment lists. Exclude paths are compared literally against
// root-relative paths; "." and ".." sequences are not resolved.
func NewFilter(excludes, excludeAt, segments []string) *Filter {
	f := &Filter{
		excludeAt: make(map[string]bool),
		segments:  segments,
	}
	for _, ex := range excludes {
		if p := normalizeRel(ex); p != "" {
			f.excludes = append(f.excludes, p)
		}
	}
	for _, ex := range excludeAt {
		// "" is the search root itself ("--exclude-at .")
		f.excludeAt[normalizeRel(ex)] = true
	}
	return f
}

// FilteredSegment reports whether a directory with the given basename is
// never descended into: hidden directories and configured filter segments.
func (f *Filter) FilteredSegment(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, seg := range f.segments {
		if strings.EqualFold(name, seg) {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether the root-relative directory path falls under
// a configured exclude: exact match or a full-segment path prefix.
func (f *Filter) ExcludedDir(rel string) bool {
	for _, ex := range f.excludes {
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
	}
	return false
}

// ExcludedAt reports whether direct file children of the given
// root-relative directory are skipped. The search root itself is "".
func (f *Filter) ExcludedAt(dir string) bool {
	return f.excludeAt[dir]
}

// normalizeRel canonicalizes a user-supplied root-relative path to the
// internal form: forward slashes, no "./" prefix, no trailing slash, and
// "" for the root itself.
func normalizeRel(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "." {
		return ""
	}
	return p
}
