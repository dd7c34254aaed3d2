// Package md2typst converts Markdown documents to paginated PDF or SVG
// output by generating Typst markup and handing it to the Typst compiler.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2typst.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2typst.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the generated
// Typst markup (result.Markup) for debugging. Use Input.MarkupOnly to
// skip compilation, or the package-level Markup function for the pure
// two-stage pipeline.
//
// # Conversion Pipeline
//
//  1. Front-matter stripping and Markdown parsing via goldmark into a
//     typed block/span document model
//  2. Typst markup emission with pagination heuristics (heading-orphan
//     prevention, section-length-driven page breaks, space reservation,
//     non-breakable grouping, heading anchors)
//  3. Compilation via the external typst binary with the bundled fonts
//
// Parsing and emission are pure and never fail; the only failure surface
// is the compiler, whose diagnostics are reported verbatim.
//
// # Configuration
//
// Styling and layout options come from a YAML config file (see LoadConfig)
// or a Config built in code:
//
//	cfg := md2typst.DefaultConfig()
//	cfg.Page.Numbers = true
//	cfg.Layout.H2BreakIfLines = 20
//	conv, err := md2typst.NewConverter(md2typst.WithConfig(cfg))
//
// A missing config file means defaults; a malformed one falls back to
// defaults with a warning error from LoadConfig.
//
// # Parallel Processing
//
// Conversions share no mutable state and may run concurrently. For batch
// conversion, ConverterPool bounds the number of concurrent compiler
// processes:
//
//	pool := md2typst.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//
// # Compiler Requirements
//
// Compilation requires the typst CLI on PATH. Use TYPST_BIN or
// WithCompilerPath to point at a specific binary. The bundled Open Sans
// fonts are the only fonts visible to the compiler, so output is
// identical across machines.
package md2typst
