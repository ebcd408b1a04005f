// cmakerer scans C/C++ source trees and synthesizes a non-buildable
// CMakeLists.txt that lets an IDE indexer resolve #include directives.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/cmakerer/pkg/config"
	"github.com/ritzau/cmakerer/pkg/generator"
	"github.com/ritzau/cmakerer/pkg/logging"
	"github.com/ritzau/cmakerer/pkg/scanner"
	"github.com/ritzau/cmakerer/pkg/watcher"
)

func main() {
	fs := pflag.NewFlagSet("cmakerer", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cmakerer [flags] <root> [<root>...]\n\nFlags:\n%s", fs.FlagUsages())
	}

	fs.StringP("output", "o", "./CMakeLists.txt", "Output path; \"-\" writes to stdout")
	fs.String("base-dir", "", "Common base directory; required with multiple roots")
	fs.StringArrayP("exclude", "x", nil, "Path to exclude, relative to its search root (repeatable)")
	fs.StringArray("exclude-at", nil, "Directory whose direct file children are skipped (repeatable)")
	fs.StringArrayP("filter", "f", nil, "Directory basename to prune, case-insensitive (repeatable)")
	fs.Bool("filter-cmake", false, "Also prune CMakeFiles, cmake, and cmake-build-debug directories")
	fs.StringP("source-types", "s", "", "Comma-delimited source extensions, overrides c,cc,cpp")
	fs.StringP("header-types", "i", "", "Comma-delimited header extensions, overrides h,hpp,hh")
	fs.Bool("cpp-headers", false, "Treat extensionless files as headers")
	fs.StringArrayP("define", "D", nil, "Compiler define to emit, VAR or VAR=value (repeatable)")
	fs.BoolP("watch", "w", false, "Regenerate when the tree changes")
	fs.BoolP("debug", "d", false, "Verbose resolution tracing")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(fs, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	if cfg.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	gen := generator.New(cfg)
	if err := runOnce(gen, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Watch {
		if err := watchLoop(gen, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runOnce runs the full pipeline and writes the descriptor.
func runOnce(gen *generator.Generator, cfg *config.Config) error {
	project, err := gen.Run()
	if err != nil {
		return err
	}
	if err := project.Write(cfg.Output); err != nil {
		return err
	}
	if cfg.Output != config.Stdout {
		generator.PrintSummary(project, cfg.Roots, cfg.Output)
	}
	return nil
}

// watchLoop regenerates the descriptor on debounced tree changes until
// interrupted.
func watchLoop(gen *generator.Generator, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filter := scanner.NewFilter(cfg.Excludes, cfg.ExcludeAt, cfg.FilterSegments())
	opts := scanner.Options{
		SourceExts:           cfg.SourceExts(),
		HeaderExts:           cfg.HeaderExts(),
		ExtensionlessHeaders: cfg.CppHeaders,
	}

	tw, err := watcher.New(cfg.Roots, filter, opts)
	if err != nil {
		return err
	}
	if err := tw.Start(ctx); err != nil {
		return err
	}

	deb := watcher.NewDebouncer(tw.Events(), 500*time.Millisecond, 5*time.Second)
	deb.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("stopping watch mode")
			return nil
		case ev, ok := <-deb.Output():
			if !ok {
				return nil
			}
			logging.Info("tree changed, regenerating", "changedFiles", len(ev.Paths))
			if err := runOnce(gen, cfg); err != nil {
				// Keep watching; a transient failure shouldn't end the session.
				logging.Error("regeneration failed", "error", err)
			}
		}
	}
}
