// Package fonts bundles the four Open Sans variants handed to the Typst
// compiler. The bytes are embedded at build time, immutable for the
// process lifetime, and materialized to disk at most once; every
// conversion shares the same read-only font directory.
package fonts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Embedded font metadata for Open Sans.
const (
	Family             = "Open Sans"
	RegularFontName    = "OpenSans-Regular.ttf"
	BoldFontName       = "OpenSans-Bold.ttf"
	ItalicFontName     = "OpenSans-Italic.ttf"
	BoldItalicFontName = "OpenSans-BoldItalic.ttf"
)

//go:embed opensans/*.ttf
var fontFS embed.FS

// Names lists all bundled font files.
func Names() []string {
	return []string{RegularFontName, BoldFontName, ItalicFontName, BoldItalicFontName}
}

// Font returns the embedded bytes of one bundled font by name.
func Font(name string) ([]byte, error) {
	data, err := fontFS.ReadFile("opensans/" + name)
	if err != nil {
		return nil, fmt.Errorf("embedded font %s missing: %w", name, err)
	}
	return data, nil
}

// placeholderThreshold is the smallest byte count a real font file can
// plausibly have. Development builds ship tiny stand-in files so go:embed
// resolves; release builds carry the real faces.
const placeholderThreshold = 1024

// Placeholder reports whether the bundled fonts are development
// stand-ins rather than real faces. The compiler cannot shape text with
// a stand-in, so callers use this to turn an opaque compile failure into
// a clear diagnostic.
func Placeholder() bool {
	for _, name := range Names() {
		data, err := Font(name)
		if err != nil || len(data) < placeholderThreshold {
			return true
		}
	}
	return false
}

var (
	dirOnce sync.Once
	dirPath string
	dirErr  error
)

// Dir materializes the bundled fonts to a per-user cache directory and
// returns its path. The write happens once per process; later calls and
// concurrent conversions reuse the same directory.
func Dir() (string, error) {
	dirOnce.Do(func() {
		dirPath, dirErr = writeFonts()
	})
	return dirPath, dirErr
}

func writeFonts() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "go-md2typst", "fonts")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating font directory: %w", err)
	}

	for _, name := range Names() {
		data, err := Font(name)
		if err != nil {
			return "", err
		}
		path := filepath.Join(dir, name)
		if sameSize(path, len(data)) {
			continue
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return "", fmt.Errorf("writing font %s: %w", name, err)
		}
	}
	return dir, nil
}

// sameSize reports whether path already holds a file of the given size,
// which is enough to skip rewriting an embedded font.
func sameSize(path string, size int) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() == int64(size)
}
