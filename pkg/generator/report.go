package generator

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ritzau/cmakerer/pkg/cmake"
)

// PrintSummary prints a colorized one-screen report of the generation run
// to stderr. It is skipped when the descriptor itself goes to stdout.
func PrintSummary(p *cmake.Project, roots []string, output string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	_, _ = bold.Fprintln(os.Stderr, "cmakerer - include path inference")
	_, _ = bold.Fprintln(os.Stderr, "=================================")
	fmt.Fprintf(os.Stderr, "Project: %s\n", p.Name)
	for _, root := range roots {
		_, _ = cyan.Fprintf(os.Stderr, "  root %s\n", root)
	}
	fmt.Fprintf(os.Stderr, "Source files: %d\n", len(p.Sources))
	fmt.Fprintf(os.Stderr, "Include roots: %d quoted, %d system\n",
		len(p.QuotedRoots), len(p.SystemRoots))
	if len(p.Defines) > 0 {
		fmt.Fprintf(os.Stderr, "Defines: %d\n", len(p.Defines))
	}

	if len(p.Sources) == 0 {
		_, _ = yellow.Fprintln(os.Stderr, "No source files matched; the descriptor is empty.")
	} else {
		_, _ = green.Fprintf(os.Stderr, "Wrote %s\n", output)
	}
}
