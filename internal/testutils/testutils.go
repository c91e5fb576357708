// Package testutils holds helpers shared by package tests: fake toolchain
// scripts and image fixtures.
package testutils

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireShell skips the test on platforms without /bin/sh.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain scripts need /bin/sh")
	}
}

// WriteScript writes an executable /bin/sh script named name into dir and
// returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// WritePNG writes a blank width x height PNG to path.
func WritePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// FakeCompiler is a pdflatex stand-in. It writes "<base>.pdf" into the
// -output-directory, prints a fatal error without output when the source
// contains FATAL, and exits 1 after writing output when the source contains
// an unescaped "&" outside the preamble.
const FakeCompiler = `out="."
tex=""
for a in "$@"; do
  case "$a" in
    -output-directory=*) out="${a#-output-directory=}" ;;
    *.tex) tex="$a" ;;
  esac
done
base=$(basename "$tex" .tex)
echo "This is fakeTeX"
if grep -q 'FATAL' "$tex"; then
  echo "! Emergency stop."
  echo "!  ==> Fatal error occurred, no output PDF file produced!"
  exit 1
fi
printf '%%PDF-1.4\n%%fake\n' > "$out/$base.pdf"
if grep -q '\\item .*[^\\]&' "$tex"; then
  echo "! Misplaced alignment tab character &."
  exit 1
fi
exit 0
`

// FakePoppler installs pdftoppm and pdfinfo stand-ins into a temp directory
// and returns it, ready to use as a toolchain path. pdftoppm copies a
// 170x220 PNG to "<base>.png"; both tools treat a PDF containing EMPTY as
// having no pages.
func FakePoppler(t *testing.T) string {
	t.Helper()
	RequireShell(t)

	bin := t.TempDir()
	fixture := filepath.Join(bin, "page.png")
	WritePNG(t, fixture, 170, 220)

	WriteScript(t, bin, "pdftoppm", `for a; do pdf=$prev; prev=$a; done
base=$prev
if grep -q EMPTY "$pdf"; then
  echo "Wrong page range given: the first page (1) can not be after the last page (0)." >&2
  exit 99
fi
cp "`+fixture+`" "$base.png"
`)
	WriteScript(t, bin, "pdfinfo", `if grep -q EMPTY "$1"; then
  echo "Pages:          0"
else
  echo "Producer:       fakeTeX"
  echo "Pages:          2"
  echo "Page size:      612 x 792 pts (letter)"
fi
`)
	return bin
}
