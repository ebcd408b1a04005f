// Package include extracts #include directives from raw source bytes.
//
// This is a deliberately lightweight lexical scan, not a preprocessor: each
// line is classified independently, backslash continuations are not honored,
// and an include spelled inside a comment or string literal will be picked
// up. Over-extraction is harmless for the advisory output this feeds.
package include

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/ritzau/cmakerer/pkg/logging"
)

// Kind classifies an include directive.
type Kind int

const (
	// NotAnInclude tags lines that fail the lexical scan.
	NotAnInclude Kind = iota
	// Quoted is #include "x", resolved against project-local directories.
	Quoted
	// System is #include <x>, resolved against system-style directories.
	System
)

// Directive is the tagged result of scanning one line.
type Directive struct {
	Kind   Kind
	Target string
}

// Ref is one extracted include reference with its origin file.
type Ref struct {
	Kind   Kind
	Target string
	Origin string // root-relative path of the file the directive came from
}

var (
	needle  = []byte("include")
	cneedle = []byte("#include")
)

// ParseLine classifies one raw source line. The scan tolerates arbitrary
// whitespace between "#" and "include" but rejects anything else in
// between, as well as non-include tokens such as #include_next.
func ParseLine(line []byte) Directive {
	if !bytes.Contains(line, needle) {
		return Directive{Kind: NotAnInclude}
	}
	if !isIncludeDirective(line) {
		return Directive{Kind: NotAnInclude}
	}
	rem := directiveRemainder(line)
	if len(rem) == 0 {
		return Directive{Kind: NotAnInclude}
	}
	return classifyTarget(rem)
}

// isIncludeDirective strips all whitespace from the line and checks that
// the result starts with "#include" (accepts "#  include", "# include", ...).
func isIncludeDirective(line []byte) bool {
	cramped := make([]byte, 0, len(line))
	for _, b := range line {
		if !isSpace(b) {
			cramped = append(cramped, b)
		}
	}
	return bytes.HasPrefix(cramped, cneedle)
}

// directiveRemainder returns the trimmed text after the first "include"
// token on the original, unstripped line.
func directiveRemainder(line []byte) []byte {
	idx := bytes.Index(line, needle)
	return bytes.TrimSpace(line[idx+len(needle):])
}

// classifyTarget reads the opening delimiter, finds its closer, and
// extracts the include target between them.
func classifyTarget(rem []byte) Directive {
	var kind Kind
	var closer byte
	switch rem[0] {
	case '"':
		kind, closer = Quoted, '"'
	case '<':
		kind, closer = System, '>'
	default:
		return Directive{Kind: NotAnInclude}
	}
	rest := rem[1:]
	pos := bytes.IndexByte(rest, closer)
	if pos < 0 {
		return Directive{Kind: NotAnInclude}
	}
	return Directive{Kind: kind, Target: string(rest[:pos])}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// ExtractFile reads one file whole and returns its include references.
// Lines are split on "\n"; no cross-line state is kept.
func ExtractFile(path, origin string) ([]Ref, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var refs []Ref
	for _, line := range bytes.Split(contents, []byte{'\n'}) {
		d := ParseLine(line)
		if d.Kind == NotAnInclude {
			continue
		}
		if d.Kind == Quoted {
			logging.Debug("found include", "target", `"`+d.Target+`"`, "file", origin)
		} else {
			logging.Debug("found include", "target", "<"+d.Target+">", "file", origin)
		}
		refs = append(refs, Ref{Kind: d.Kind, Target: d.Target, Origin: origin})
	}
	return refs, nil
}

// Extract scans every candidate source file under root. A file that cannot
// be opened or read is reported on stderr and skipped; it never aborts the
// run.
func Extract(root string, sourceFiles []string) []Ref {
	var refs []Ref
	for _, rel := range sourceFiles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		fileRefs, err := ExtractFile(path, rel)
		if err != nil {
			logging.Warn("skipping unreadable source file", "path", path, "error", err)
			continue
		}
		refs = append(refs, fileRefs...)
	}
	return refs
}
