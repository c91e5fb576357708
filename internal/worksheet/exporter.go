package worksheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/logging"
	"github.com/abhisek/statsheet/internal/metrics"
	"github.com/abhisek/statsheet/internal/preview"
	"github.com/abhisek/statsheet/internal/render"
	"github.com/abhisek/statsheet/internal/store"
)

const (
	// DefaultHeader titles worksheets exported without a header.
	DefaultHeader = "Generated Worksheet"

	// UnsavedName is the base name of the scratch render shown right after
	// generation. Each new scratch render overwrites the previous one.
	UnsavedName = "temp_preview"

	// UnsavedHeader titles the scratch render.
	UnsavedHeader = "Preview (Not Saved)"
)

// DocumentRenderer compiles LaTeX source to a document on disk.
type DocumentRenderer interface {
	Render(ctx context.Context, source, name string) (*render.Artifact, error)
}

// Previewer rasterizes the first page of a compiled document.
type Previewer interface {
	FirstPage(ctx context.Context, pdfPath string) (*preview.Image, error)
}

// ExportRequest is what the user asked to export.
type ExportRequest struct {
	Header    string
	Questions string // blank-line separated question items
	Answers   string // blank-line separated answer items

	// Name overrides the timestamped file name derived from Header.
	Name string

	// Family and Count are recorded in the export history only.
	Family string
	Count  int
}

// ExportResult carries everything one export produced.
type ExportResult struct {
	Name     string
	Document *latex.Document
	Artifact *render.Artifact

	// Preview is nil when rasterization failed; PreviewErr then says why.
	// A failed preview never fails the export.
	Preview    *preview.Image
	PreviewErr error
}

// Exporter runs build, render and preview for a worksheet and records the
// attempt in the export history.
type Exporter struct {
	Renderer  DocumentRenderer
	Previewer Previewer
	History   store.ExportRepo // optional
	Options   latex.Options

	// DefaultHeader replaces a blank request header.
	DefaultHeader string

	Metrics *metrics.Metrics // optional
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewExporter returns an Exporter with the package defaults filled in.
// history may be nil.
func NewExporter(r DocumentRenderer, p Previewer, history store.ExportRepo, opts latex.Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{
		Renderer:      r,
		Previewer:     p,
		History:       history,
		Options:       opts,
		DefaultHeader: DefaultHeader,
		Logger:        logger,
		Now:           time.Now,
	}
}

// Export builds, renders and previews req, then records the outcome.
// Only a render failure is returned as an error.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	res, err := e.Compile(ctx, req)
	if err != nil {
		e.Record(ctx, req, nil, err)
		return nil, err
	}
	e.Preview(ctx, res)
	e.Record(ctx, req, res, nil)
	return res, nil
}

// Compile builds the document for req and renders it. It neither
// previews nor records.
func (e *Exporter) Compile(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	header := e.header(req.Header)
	doc := latex.Build(header, req.Questions, req.Answers, e.Options)
	if doc.Mismatch() {
		e.Logger.Warn("question and answer counts differ",
			"questions", len(doc.Questions), "answers", len(doc.Answers))
	}

	name := latex.FileName(header, req.Name, e.now())
	start := time.Now()
	art, err := e.Renderer.Render(ctx, doc.Source, name)
	e.Metrics.ObserveRender(start, art != nil && art.Degraded, err)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", name, err)
	}
	return &ExportResult{Name: name, Document: doc, Artifact: art}, nil
}

// Preview rasterizes the first page of res's document into res.Preview, or
// sets res.PreviewErr.
func (e *Exporter) Preview(ctx context.Context, res *ExportResult) {
	if e.Previewer == nil {
		return
	}
	img, err := e.Previewer.FirstPage(ctx, res.Artifact.PDFPath)
	e.Metrics.ObservePreview(err)
	if err != nil {
		e.Logger.Warn("preview unavailable", "pdf", res.Artifact.PDFPath, "error", err)
		res.PreviewErr = err
		return
	}
	res.Preview = img
}

// PreviewUnsaved renders questions and answers under UnsavedName and
// previews it. Nothing is recorded in the history.
func (e *Exporter) PreviewUnsaved(ctx context.Context, questions, answers string) (*ExportResult, error) {
	doc := latex.Build(UnsavedHeader, questions, answers, e.Options)
	art, err := e.Renderer.Render(ctx, doc.Source, UnsavedName)
	if err != nil {
		return nil, fmt.Errorf("unsaved preview: %w", err)
	}
	res := &ExportResult{Name: UnsavedName, Document: doc, Artifact: art}
	e.Preview(ctx, res)
	return res, nil
}

// Record appends the outcome of an export to the history. res is nil when
// the render failed with renderErr. History failures are logged only.
func (e *Exporter) Record(ctx context.Context, req ExportRequest, res *ExportResult, renderErr error) {
	if e.History == nil {
		return
	}

	rec := store.ExportRecord{
		Header:       e.header(req.Header),
		Family:       req.Family,
		ProblemCount: req.Count,
	}
	if res != nil {
		rec.Success = true
		rec.SourcePath = res.Artifact.SourcePath
		rec.PDFPath = res.Artifact.PDFPath
		rec.Degraded = res.Artifact.Degraded
		if res.Preview != nil {
			rec.PreviewPath = res.Preview.Path
		}
	}
	if renderErr != nil {
		rec.ErrorMessage = firstLine(renderErr.Error())
	}

	if _, err := e.History.Append(ctx, rec); err != nil {
		e.Logger.Warn("failed to record export", "header", rec.Header, "error", err)
	}
}

func (e *Exporter) header(h string) string {
	if h = strings.TrimSpace(h); h != "" {
		return h
	}
	if e.DefaultHeader != "" {
		return e.DefaultHeader
	}
	return DefaultHeader
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
