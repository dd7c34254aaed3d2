package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all parsed command-line options.
type cliFlags struct {
	output     string
	config     string
	svg        bool
	markupOnly bool
	workers    int
	timeout    time.Duration
	verbose    bool
	version    bool
	check      bool

	inputs []string
}

// parseFlags parses command-line arguments. args is os.Args (the program
// name is skipped).
func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{}

	fs := flag.NewFlagSet("md2typst", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input only; default: input name with new extension)")
	fs.StringVarP(&f.config, "config", "c", "config.yaml", "config file path")
	fs.BoolVar(&f.svg, "svg", false, "render per-page SVG files instead of a PDF")
	fs.BoolVar(&f.markupOnly, "markup-only", false, "write the generated Typst markup instead of compiling")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions for batch input (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-document compilation timeout (0 = default)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.check, "check", false, "check that the typst compiler is available and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: md2typst [flags] <input.md> [more.md ...]\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	f.inputs = fs.Args()
	return f, nil
}
