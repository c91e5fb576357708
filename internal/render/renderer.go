// Package render compiles LaTeX worksheets to PDF with an external compiler.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/statsheet/internal/logging"
	"github.com/abhisek/statsheet/internal/toolchain"
)

// ErrRenderFailed is returned when the compiler produced no document.
var ErrRenderFailed = errors.New("render failed")

// DefaultCompiler is the LaTeX compiler used when none is configured.
const DefaultCompiler = "pdflatex"

// logTailLines is how much compiler output is kept in errors.
const logTailLines = 15

// Artifact is a compiled worksheet on disk.
type Artifact struct {
	SourcePath string // the .tex file that was compiled
	PDFPath    string // the compiled document

	// Degraded is set when the compiler reported errors but still wrote a
	// document. The PDF may have visibly broken sections.
	Degraded bool

	// Log is the compiler's console output.
	Log string
}

// Renderer writes LaTeX source to OutputDir and compiles it in place.
// It keeps no state between calls.
type Renderer struct {
	Compiler  string
	OutputDir string
	Runner    toolchain.Runner
	Logger    *slog.Logger
}

// New returns a Renderer using the local process runner.
func New(compiler, outputDir string, logger *slog.Logger) *Renderer {
	if compiler == "" {
		compiler = DefaultCompiler
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		Compiler:  compiler,
		OutputDir: outputDir,
		Runner:    toolchain.ExecRunner{},
		Logger:    logger,
	}
}

// Render writes source to "<OutputDir>/<name>.tex", runs the compiler in
// non-interactive mode and waits for it.
//
// The compiler runs with -interaction=nonstopmode, so recoverable markup
// errors still yield a document; such a result is returned with Degraded
// set. If no "<name>.pdf" exists afterwards the error wraps ErrRenderFailed.
// Render never retries and has no timeout beyond ctx.
func (r *Renderer) Render(ctx context.Context, source, name string) (*Artifact, error) {
	dir, err := filepath.Abs(r.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve output dir: %w", ErrRenderFailed, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %w", ErrRenderFailed, err)
	}

	texPath := filepath.Join(dir, name+".tex")
	pdfPath := filepath.Join(dir, name+".pdf")

	if err := os.WriteFile(texPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("%w: write source: %w", ErrRenderFailed, err)
	}
	// A PDF left over from an earlier run must not pass for this one.
	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: remove stale output: %w", ErrRenderFailed, err)
	}

	cmd := toolchain.Command{
		Name: r.Compiler,
		Args: []string{"-interaction=nonstopmode", "-output-directory=" + dir, texPath},
		Dir:  dir,
	}
	r.Logger.Debug("compiling worksheet", "cmd", cmd.String())

	res, runErr := r.runner().Run(ctx, cmd)
	art := &Artifact{SourcePath: texPath, PDFPath: pdfPath, Log: res.Output()}

	if _, err := os.Stat(pdfPath); err != nil {
		r.Logger.Error("compiler produced no document",
			"tex", texPath, "exit", res.ExitCode, "error", runErr)
		if runErr == nil {
			runErr = errors.New("no output file")
		}
		return nil, fmt.Errorf("%w: %s: %w\n%s", ErrRenderFailed, name, runErr, toolchain.Tail(art.Log, logTailLines))
	}

	if runErr != nil {
		art.Degraded = true
		r.Logger.Warn("compiler reported errors, document may be incomplete",
			"pdf", pdfPath, "exit", res.ExitCode)
	}
	r.Logger.Info("worksheet compiled", "pdf", pdfPath, "degraded", art.Degraded)
	return art, nil
}

func (r *Renderer) runner() toolchain.Runner {
	if r.Runner == nil {
		return toolchain.ExecRunner{}
	}
	return r.Runner
}
