// Package resolver infers include roots: the directories that, passed as
// -I/-isystem flags, make every extracted #include target resolve to a file
// actually present in the tree. Resolution is pure suffix matching over the
// walker's in-memory sets; it never touches the filesystem.
package resolver

import (
	"strings"

	"github.com/ritzau/cmakerer/pkg/include"
	"github.com/ritzau/cmakerer/pkg/logging"
)

// Lookup is the per-root universe the resolver matches against. All paths
// are root-relative and slash-separated; the root itself is "".
type Lookup struct {
	// SourceFiles is every candidate file path, matched against bare
	// system targets.
	SourceFiles []string
	// HeaderDirs is the quoted-include candidate universe: directories
	// containing at least one header.
	HeaderDirs map[string]bool
	// SourceDirs is the system-include candidate universe: directories
	// containing at least one source file.
	SourceDirs map[string]bool
}

// Result holds the inferred include roots. The quoted set is seeded with
// every header directory: a bare quoted include like #include "bar.h" is
// only resolvable if the directory holding bar.h is already a root, so the
// whole header-dir universe is emitted and bare quoted targets need no
// resolution of their own.
type Result struct {
	QuotedRoots map[string]bool
	SystemRoots map[string]bool
}

// Resolve computes the include-root sets for one search root. It never
// fails: unresolvable references contribute nothing, ambiguous ones
// contribute every matching root.
func Resolve(refs []include.Ref, lk Lookup) *Result {
	res := &Result{
		QuotedRoots: make(map[string]bool, len(lk.HeaderDirs)),
		SystemRoots: make(map[string]bool),
	}
	for dir := range lk.HeaderDirs {
		res.QuotedRoots[dir] = true
	}

	for _, ref := range refs {
		if !strings.Contains(ref.Target, "/") {
			if ref.Kind == include.System {
				resolveBareSystem(ref, lk.SourceFiles, res.SystemRoots)
			}
			// A bare quoted include resolves to its sibling or to a header
			// dir already in the seeded set; nothing to add.
			continue
		}
		resolvePathShaped(ref, lk, res)
	}
	return res
}

// resolveBareSystem matches a bare target like <stddef.h> against every
// known file path ending in "/<target>"; each matching prefix becomes a
// system root.
func resolveBareSystem(ref include.Ref, sourceFiles []string, out map[string]bool) {
	suffix := "/" + ref.Target
	for _, src := range sourceFiles {
		if !strings.HasSuffix(src, suffix) {
			continue
		}
		root := src[:len(src)-len(suffix)]
		logging.Debug("adding system include root", "root", emptyAsDot(root), "target", "<"+ref.Target+">")
		out[root] = true
	}
}

// resolvePathShaped matches the directory part of a target like
// <sys/types.h> or "pkg/util.h" against the appropriate directory universe;
// every entry ending in "/<dirPart>" (or equal to it) yields a root with
// that suffix removed. Ambiguity adds every candidate: over-inclusion is
// the accepted failure mode for an advisory indexer input.
func resolvePathShaped(ref include.Ref, lk Lookup, res *Result) {
	dirPart := ref.Target[:strings.LastIndex(ref.Target, "/")]

	universe := lk.HeaderDirs
	out := res.QuotedRoots
	if ref.Kind == include.System {
		universe = lk.SourceDirs
		out = res.SystemRoots
	}

	suffix := "/" + dirPart
	for dir := range universe {
		var root string
		switch {
		case dir == dirPart:
			root = "" // the search root itself
		case strings.HasSuffix(dir, suffix):
			root = dir[:len(dir)-len(suffix)]
		default:
			continue
		}
		if ref.Kind == include.System {
			logging.Debug("adding system include root", "root", emptyAsDot(root), "target", "<"+ref.Target+">")
		} else {
			logging.Debug("adding include root", "root", emptyAsDot(root), "target", `"`+ref.Target+`"`)
		}
		out[root] = true
	}
}

func emptyAsDot(p string) string {
	if p == "" {
		return "."
	}
	return p
}
