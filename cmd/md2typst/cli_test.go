package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		explicit string
		newExt   string
		want     string
	}{
		{"derived pdf", "doc.md", "", ".pdf", "doc.pdf"},
		{"derived typ", "doc.md", "", ".typ", "doc.typ"},
		{"markdown extension", "notes.markdown", "", ".pdf", "notes.pdf"},
		{"explicit wins", "doc.md", "custom.pdf", ".pdf", "custom.pdf"},
		{"path preserved", "dir/sub/doc.md", "", ".pdf", "dir/sub/doc.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := outputPath(tt.input, tt.explicit, tt.newExt); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSVGPagePath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		explicit string
		page     int
		want     string
	}{
		{"derived first page", "doc.md", "", 1, "doc-1.svg"},
		{"derived later page", "doc.md", "", 12, "doc-12.svg"},
		{"explicit base", "doc.md", "render.svg", 2, "render-2.svg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := svgPagePath(tt.input, tt.explicit, tt.page); got != tt.want {
				t.Errorf("svgPagePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateMarkdownExtension(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"doc.md", false},
		{"doc.markdown", false},
		{"doc.txt", true},
		{"doc", true},
		{"doc.MD", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			err := validateMarkdownExtension(tt.path)
			if tt.wantErr && !errors.Is(err, ErrInvalidExtension) {
				t.Errorf("validateMarkdownExtension(%q) = %v, want ErrInvalidExtension", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateMarkdownExtension(%q) = %v, want nil", tt.path, err)
			}
		})
	}
}

func TestRunNoInput(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{config: "config.yaml"}
	err := run(context.Background(), flags, io.Discard, io.Discard)
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("run() error = %v, want ErrNoInput", err)
	}
}

func TestRunOutputWithBatch(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{
		config: "config.yaml",
		output: "out.pdf",
		inputs: []string{"a.md", "b.md"},
	}
	err := run(context.Background(), flags, io.Discard, io.Discard)
	if !errors.Is(err, ErrOutputWithBatch) {
		t.Errorf("run() error = %v, want ErrOutputWithBatch", err)
	}
}

func TestRunRejectsBadExtension(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{config: "config.yaml", inputs: []string{"doc.txt"}}
	err := run(context.Background(), flags, io.Discard, io.Discard)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("run() error = %v, want ErrInvalidExtension", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	flags := &cliFlags{version: true}
	if err := run(context.Background(), flags, &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Errorf("output = %q, want version string", out.String())
	}
}

func TestRunMarkupOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(input, []byte("# Title\n\nBody.\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	flags := &cliFlags{
		config:     filepath.Join(dir, "no-config.yaml"),
		markupOnly: true,
		inputs:     []string{input},
	}
	if err := run(context.Background(), flags, &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	produced := filepath.Join(dir, "doc.typ")
	data, err := os.ReadFile(produced) // #nosec G304 -- test temp path
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "= Title <title>") {
		t.Errorf("markup missing heading:\n%s", data)
	}
	if !strings.Contains(out.String(), "Created "+produced) {
		t.Errorf("stdout = %q, want Created line", out.String())
	}
}

func TestRunMarkupOnlyMissingInput(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{
		config:     "nope.yaml",
		markupOnly: true,
		inputs:     []string{filepath.Join(t.TempDir(), "absent.md")},
	}
	err := run(context.Background(), flags, io.Discard, io.Discard)
	if !errors.Is(err, ErrReadMarkdown) {
		t.Errorf("run() error = %v, want ErrReadMarkdown", err)
	}
}

func TestRunWarnsOnMalformedConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(input, []byte("text\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(config, []byte("links: [broken\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	flags := &cliFlags{
		config:     config,
		markupOnly: true,
		inputs:     []string{input},
	}
	if err := run(context.Background(), flags, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "warning") {
		t.Errorf("stderr = %q, want config warning", stderr.String())
	}
}

func TestRunBatchMarkupOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := make([]string, 3)
	for i := range inputs {
		inputs[i] = filepath.Join(dir, string(rune('a'+i))+".md")
		if err := os.WriteFile(inputs[i], []byte("# Doc\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	flags := &cliFlags{
		config:     filepath.Join(dir, "no-config.yaml"),
		markupOnly: true,
		workers:    2,
		inputs:     inputs,
	}
	if err := run(context.Background(), flags, &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, input := range inputs {
		produced := strings.TrimSuffix(input, ".md") + ".typ"
		if _, err := os.Stat(produced); err != nil {
			t.Errorf("missing output %s: %v", produced, err)
		}
	}
	if got := strings.Count(out.String(), "Created "); got != 3 {
		t.Errorf("got %d Created lines, want 3", got)
	}
}

func TestRunBatchCollectsPerFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	if err := os.WriteFile(good, []byte("# Doc\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.md")

	flags := &cliFlags{
		config:     filepath.Join(dir, "no-config.yaml"),
		markupOnly: true,
		inputs:     []string{good, missing},
	}
	err := run(context.Background(), flags, io.Discard, io.Discard)
	if !errors.Is(err, ErrReadMarkdown) {
		t.Fatalf("run() error = %v, want ErrReadMarkdown", err)
	}
	if !strings.Contains(err.Error(), "missing.md") {
		t.Errorf("error does not name the failing file: %v", err)
	}

	// The good file still converts.
	if _, statErr := os.Stat(filepath.Join(dir, "good.typ")); statErr != nil {
		t.Errorf("good file was not converted: %v", statErr)
	}
}
