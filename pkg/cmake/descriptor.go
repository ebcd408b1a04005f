// Package cmake renders the final project descriptor as a non-buildable
// CMakeLists.txt for IDE indexers.
package cmake

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
)

// Project is the final aggregate written out once at the end of a run.
// The root directory is represented internally as ""; it renders as ".".
type Project struct {
	Name        string
	Defines     []string // passed through verbatim, e.g. "DEBUG=1" or "LINUX"
	SystemRoots []string
	QuotedRoots []string
	Sources     []string
}

const descriptorTemplate = `cmake_minimum_required(VERSION 3.9)
project({{.Name}})

set(CMAKE_CXX_STANDARD 11)
{{if .Defines}}
add_compile_definitions(
  {{list .Defines}}
)
{{end}}
include_directories(SYSTEM
  {{list .SystemRoots}}
)

include_directories(
  {{list .QuotedRoots}}
)

add_executable({{.Name}}
  {{list .Sources}}
)
`

var tmpl = template.Must(template.New("CMakeLists").Funcs(template.FuncMap{
	"list": listBlock,
}).Parse(descriptorTemplate))

// listBlock quotes each entry, sorts by byte value, and joins with the
// two-space indentation of the surrounding template. Sorting here keeps
// the output byte-identical across runs regardless of filesystem
// iteration order.
func listBlock(entries []string) string {
	quoted := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			e = "." // the search root itself must stay a valid include flag
		}
		quoted = append(quoted, `"`+e+`"`)
	}
	sort.Strings(quoted)
	return strings.Join(quoted, "\n  ")
}

// Render writes the descriptor text for the project.
func (p *Project) Render(buf *bytes.Buffer) error {
	if err := tmpl.Execute(buf, p); err != nil {
		return fmt.Errorf("rendering descriptor: %w", err)
	}
	return nil
}

// Write renders the descriptor and writes it to path, or to standard
// output when path is the "-" sentinel. The text is rendered fully in
// memory first so a failed run never leaves a partial file behind.
func (p *Project) Write(path string) error {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return err
	}
	if path == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
