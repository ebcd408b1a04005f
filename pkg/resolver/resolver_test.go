package resolver

import (
	"testing"

	"github.com/ritzau/cmakerer/pkg/include"
)

func setOf(entries ...string) map[string]bool {
	m := make(map[string]bool, len(entries))
	for _, e := range entries {
		m[e] = true
	}
	return m
}

func assertSet(t *testing.T, name string, got map[string]bool, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
		return
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("%s missing %q: %v", name, w, got)
		}
	}
}

func TestResolveSeedsQuotedRootsFromHeaderDirs(t *testing.T) {
	// Every header-containing directory is an include root even with no
	// references at all; that is what makes bare quoted includes resolvable.
	res := Resolve(nil, Lookup{
		HeaderDirs: setOf("inc", "src/util"),
	})

	assertSet(t, "QuotedRoots", res.QuotedRoots, "inc", "src/util")
	assertSet(t, "SystemRoots", res.SystemRoots)
}

func TestResolveBareQuotedIsDropped(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.Quoted, Target: "bar.h", Origin: "src/foo.cpp"},
	}
	res := Resolve(refs, Lookup{
		SourceFiles: []string{"src/foo.cpp", "inc/bar.h"},
		HeaderDirs:  setOf("inc"),
		SourceDirs:  setOf("src", "inc"),
	})

	// "inc" is present from seeding, not from resolving "bar.h".
	assertSet(t, "QuotedRoots", res.QuotedRoots, "inc")
	assertSet(t, "SystemRoots", res.SystemRoots)
}

func TestResolveBareSystemAgainstSourceFiles(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.System, Target: "stddef.h", Origin: "main.c"},
	}
	res := Resolve(refs, Lookup{
		SourceFiles: []string{"main.c", "sysroot/usr/include/stddef.h"},
		SourceDirs:  setOf("", "sysroot/usr/include"),
	})

	assertSet(t, "SystemRoots", res.SystemRoots, "sysroot/usr/include")

	// Property: every resolved root R reconstructs a known file exactly.
	for root := range res.SystemRoots {
		if root+"/stddef.h" != "sysroot/usr/include/stddef.h" {
			t.Errorf("root %q does not reconstruct the matched file", root)
		}
	}
}

func TestResolveBareSystemNoMatchContributesNothing(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.System, Target: "vector", Origin: "main.cpp"},
	}
	res := Resolve(refs, Lookup{
		SourceFiles: []string{"main.cpp"},
		SourceDirs:  setOf(""),
	})

	assertSet(t, "SystemRoots", res.SystemRoots)
}

func TestResolvePathShapedQuoted(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.Quoted, Target: "util/math.h", Origin: "src/main.cpp"},
	}
	res := Resolve(refs, Lookup{
		SourceFiles: []string{"src/main.cpp", "lib/util/math.h"},
		HeaderDirs:  setOf("lib/util"),
		SourceDirs:  setOf("src", "lib/util"),
	})

	// Seeded "lib/util" plus resolved root "lib".
	assertSet(t, "QuotedRoots", res.QuotedRoots, "lib/util", "lib")
}

func TestResolvePathShapedSystemUsesSourceDirs(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.System, Target: "sys/types.h", Origin: "main.c"},
	}
	res := Resolve(refs, Lookup{
		SourceFiles: []string{"main.c", "kernel/sys/types.h"},
		HeaderDirs:  setOf("kernel/sys"),
		SourceDirs:  setOf("", "kernel/sys"),
	})

	assertSet(t, "SystemRoots", res.SystemRoots, "kernel")
	// The quoted set only carries the seeded header dir.
	assertSet(t, "QuotedRoots", res.QuotedRoots, "kernel/sys")
}

func TestResolveAmbiguousAddsEveryRoot(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.Quoted, Target: "util/strings.h", Origin: "a/main.cpp"},
	}
	res := Resolve(refs, Lookup{
		HeaderDirs: setOf("a/util", "b/util"),
	})

	// No tie-break: over-inclusion is the accepted failure mode.
	assertSet(t, "QuotedRoots", res.QuotedRoots, "a/util", "b/util", "a", "b")
}

func TestResolveRootRelativeTargetYieldsEmptyRoot(t *testing.T) {
	// A universe entry equal to the target's dir part resolves to the
	// search root itself, represented as "".
	refs := []include.Ref{
		{Kind: include.Quoted, Target: "inc/bar.h", Origin: "src/main.cpp"},
	}
	res := Resolve(refs, Lookup{
		HeaderDirs: setOf("inc"),
	})

	assertSet(t, "QuotedRoots", res.QuotedRoots, "inc", "")
}

func TestResolveSuffixMatchesFullSegments(t *testing.T) {
	// "nclude" must not suffix-match "include" mid-segment.
	refs := []include.Ref{
		{Kind: include.Quoted, Target: "nclude/x.h", Origin: "main.cpp"},
	}
	res := Resolve(refs, Lookup{
		HeaderDirs: setOf("include"),
	})

	assertSet(t, "QuotedRoots", res.QuotedRoots, "include")
}

func TestResolveDeterministicUnderInputReordering(t *testing.T) {
	refs := []include.Ref{
		{Kind: include.System, Target: "sys/types.h", Origin: "main.c"},
		{Kind: include.System, Target: "stddef.h", Origin: "main.c"},
	}
	lk := Lookup{
		SourceFiles: []string{"main.c", "kernel/sys/types.h", "libc/stddef.h"},
		SourceDirs:  setOf("", "kernel/sys", "libc"),
	}
	reversed := Lookup{
		SourceFiles: []string{"libc/stddef.h", "kernel/sys/types.h", "main.c"},
		SourceDirs:  lk.SourceDirs,
	}

	a := Resolve(refs, lk)
	b := Resolve([]include.Ref{refs[1], refs[0]}, reversed)

	for root := range a.SystemRoots {
		if !b.SystemRoots[root] {
			t.Errorf("reordered input lost root %q", root)
		}
	}
	if len(a.SystemRoots) != len(b.SystemRoots) {
		t.Errorf("SystemRoots differ: %v vs %v", a.SystemRoots, b.SystemRoots)
	}
}
