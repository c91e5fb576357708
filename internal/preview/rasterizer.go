// Package preview turns the first page of a compiled worksheet into a PNG.
package preview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/statsheet/internal/logging"
	"github.com/abhisek/statsheet/internal/toolchain"
)

// ErrPreviewFailed is returned when no preview image could be produced.
var ErrPreviewFailed = errors.New("preview failed")

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 200

// Image is a rendered page on disk.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Rasterizer shells out to poppler's pdftoppm and pdfinfo. ToolchainPath is
// the directory holding those programs; empty means look them up on $PATH.
type Rasterizer struct {
	ToolchainPath string
	DPI           int
	Runner        toolchain.Runner
	Logger        *slog.Logger
}

// New returns a Rasterizer using the local process runner.
func New(toolchainPath string, dpi int, logger *slog.Logger) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Rasterizer{
		ToolchainPath: toolchainPath,
		DPI:           dpi,
		Runner:        toolchain.ExecRunner{},
		Logger:        logger,
	}
}

// PathFor returns where the preview of pdfPath is written:
// "<dir>/<base>_preview.png".
func PathFor(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + "_preview.png"
}

// FirstPage rasterizes page 1 of pdfPath to PathFor(pdfPath). Any failure
// (missing input, empty document, converter error, unreadable image) wraps
// ErrPreviewFailed.
func (r *Rasterizer) FirstPage(ctx context.Context, pdfPath string) (*Image, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("%w: source: %w", ErrPreviewFailed, err)
	}

	out := PathFor(pdfPath)
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: remove stale preview: %w", ErrPreviewFailed, err)
	}

	cmd := toolchain.Command{
		Name: toolchain.Resolve(r.ToolchainPath, "pdftoppm"),
		Args: []string{
			"-png",
			"-r", strconv.Itoa(r.DPI),
			"-f", "1", "-l", "1",
			"-singlefile",
			pdfPath,
			strings.TrimSuffix(out, ".png"),
		},
	}
	r.Logger.Debug("rasterizing first page", "cmd", cmd.String())

	res, err := r.runner().Run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w\n%s", ErrPreviewFailed, err, toolchain.Tail(res.Output(), 5))
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("%w: no page rendered: %w", ErrPreviewFailed, err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrPreviewFailed, out, err)
	}

	r.Logger.Info("preview written", "path", out, "width", cfg.Width, "height", cfg.Height)
	return &Image{Path: out, Width: cfg.Width, Height: cfg.Height}, nil
}

// PageCount reports the number of pages in pdfPath using pdfinfo.
func (r *Rasterizer) PageCount(ctx context.Context, pdfPath string) (int, error) {
	cmd := toolchain.Command{
		Name: toolchain.Resolve(r.ToolchainPath, "pdfinfo"),
		Args: []string{pdfPath},
	}
	res, err := r.runner().Run(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("pdfinfo: %w", err)
	}
	return parsePages(res.Stdout)
}

// parsePages extracts the "Pages:" field from pdfinfo output.
func parsePages(info string) (int, error) {
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Pages" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("parse page count %q: %w", val, err)
		}
		return n, nil
	}
	return 0, errors.New("pdfinfo output has no Pages field")
}

func (r *Rasterizer) runner() toolchain.Runner {
	if r.Runner == nil {
		return toolchain.ExecRunner{}
	}
	return r.Runner
}
