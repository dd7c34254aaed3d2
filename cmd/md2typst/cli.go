package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	md2typst "github.com/halden/go-md2typst"
	"github.com/halden/go-md2typst/internal/fonts"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input files given")
	ErrOutputWithBatch  = errors.New("--output cannot be used with multiple inputs")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrWriteOutput      = errors.New("failed to write output file")
)

// run executes the CLI once and returns the first error encountered.
func run(ctx context.Context, flags *cliFlags, stdout, stderr io.Writer) error {
	if flags.version {
		fmt.Fprintf(stdout, "md2typst %s\n", Version)
		return nil
	}
	if flags.check {
		return checkCompiler(stdout)
	}

	if len(flags.inputs) == 0 {
		return ErrNoInput
	}
	if flags.output != "" && len(flags.inputs) > 1 {
		return ErrOutputWithBatch
	}
	for _, input := range flags.inputs {
		if err := validateMarkdownExtension(input); err != nil {
			return err
		}
	}

	cfg, err := md2typst.LoadConfig(flags.config)
	if err != nil {
		// The conversion proceeds with defaults; the user still learns
		// about the broken config instead of a silent fallback.
		fmt.Fprintf(stderr, "warning: %v (using defaults)\n", err)
	}

	opts := []md2typst.Option{md2typst.WithConfig(cfg)}
	if flags.timeout > 0 {
		opts = append(opts, md2typst.WithTimeout(flags.timeout))
	}

	if len(flags.inputs) == 1 {
		conv, err := md2typst.NewConverter(opts...)
		if err != nil {
			return err
		}
		defer conv.Close()
		return convertFile(ctx, conv, flags, flags.inputs[0], stdout)
	}

	return convertBatch(ctx, flags, opts, stdout, stderr)
}

// convertBatch converts all inputs through a converter pool.
func convertBatch(ctx context.Context, flags *cliFlags, opts []md2typst.Option, stdout, stderr io.Writer) error {
	pool := md2typst.NewConverterPool(md2typst.ResolvePoolSize(flags.workers), opts...)
	defer pool.Close()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, input := range flags.inputs {
		wg.Add(1)
		go func(input string) {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err == nil {
				defer pool.Release(conv)
				err = convertFile(ctx, conv, flags, input, stdout)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", input, err))
				mu.Unlock()
			}
		}(input)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// convertFile converts one markdown file and writes its output.
func convertFile(ctx context.Context, conv *md2typst.Converter, flags *cliFlags, input string, stdout io.Writer) error {
	content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	in := md2typst.Input{
		Markdown:   string(content),
		MarkupOnly: flags.markupOnly,
	}

	switch {
	case flags.markupOnly:
		result, err := conv.Convert(ctx, in)
		if err != nil {
			return err
		}
		out := outputPath(input, flags.output, ".typ")
		if err := writeOutput(out, []byte(result.Markup)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Created %s\n", out)

	case flags.svg:
		doc, err := conv.ConvertSVG(ctx, in)
		if err != nil {
			return err
		}
		for i, page := range doc.Pages {
			out := svgPagePath(input, flags.output, i+1)
			if err := writeOutput(out, []byte(page)); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Created %s\n", out)
		}

	default:
		result, err := conv.Convert(ctx, in)
		if err != nil {
			return err
		}
		out := outputPath(input, flags.output, ".pdf")
		if err := writeOutput(out, result.PDF); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Created %s\n", out)
	}

	return nil
}

// checkCompiler reports whether the typst binary can be found, honoring
// the same TYPST_BIN override the compiler uses.
func checkCompiler(stdout io.Writer) error {
	bin := os.Getenv("TYPST_BIN")
	if bin == "" {
		bin = "typst"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%w: %v", md2typst.ErrCompilerNotFound, err)
	}
	fmt.Fprintf(stdout, "typst compiler: %s\n", path)
	if fonts.Placeholder() {
		fmt.Fprintln(stdout, "embedded fonts: development placeholders (compiled output will not render text)")
	} else {
		fmt.Fprintln(stdout, "embedded fonts: ok")
	}
	return nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown
// extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// outputPath derives the output file path: an explicit --output wins,
// otherwise the input name with its extension replaced.
func outputPath(input, explicit, newExt string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + newExt
}

// svgPagePath derives the per-page SVG path: name-1.svg, name-2.svg, ...
// An explicit --output supplies the base name.
func svgPagePath(input, explicit string, page int) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if explicit != "" {
		base = strings.TrimSuffix(explicit, filepath.Ext(explicit))
	}
	return fmt.Sprintf("%s-%d.svg", base, page)
}

// writeOutput writes a result file with owner read/write permissions.
func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
