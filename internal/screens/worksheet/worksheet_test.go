package worksheet

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/preview"
	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/abhisek/statsheet/internal/render"
	"github.com/abhisek/statsheet/internal/screen"
	"github.com/abhisek/statsheet/internal/store"
	ws "github.com/abhisek/statsheet/internal/worksheet"
)

type fakeRenderer struct {
	names []string
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, _, name string) (*render.Artifact, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrRenderFailed, f.err)
	}
	return &render.Artifact{
		SourcePath: filepath.Join("/out", name+".tex"),
		PDFPath:    filepath.Join("/out", name+".pdf"),
	}, nil
}

type fakePreviewer struct {
	pdfs []string
}

func (f *fakePreviewer) FirstPage(_ context.Context, pdf string) (*preview.Image, error) {
	f.pdfs = append(f.pdfs, pdf)
	return &preview.Image{Path: preview.PathFor(pdf), Width: 1700, Height: 2200}, nil
}

type recordingHistory struct {
	records []store.ExportRecord
}

func (h *recordingHistory) Append(_ context.Context, rec store.ExportRecord) (store.ExportRecord, error) {
	h.records = append(h.records, rec)
	return rec, nil
}

func (h *recordingHistory) Recent(context.Context, store.QueryOpts) ([]store.ExportRecord, error) {
	return h.records, nil
}

func (h *recordingHistory) Prune(context.Context, int) error { return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlS() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(keyPress(r))
	}
	return s
}

func testScreen() (*WorksheetScreen, *fakeRenderer, *fakePreviewer, *recordingHistory) {
	r := &fakeRenderer{}
	p := &fakePreviewer{}
	h := &recordingHistory{}
	e := ws.NewExporter(r, p, h, latex.Options{}, nil)
	s := New(problemgen.FamilyMean, e, Options{
		DefaultHeader: ws.DefaultHeader,
		MaxProblems:   100,
		Rand:          rand.New(rand.NewPCG(7, 7)),
	})
	s.Init()
	return s, r, p, h
}

// focusCountAndType moves focus to the count field and enters n.
func focusCountAndType(s *WorksheetScreen, n string) {
	s.Update(specialKey(tea.KeyTab))
	typeText(s, n)
}

func TestWorksheetScreen_Generate(t *testing.T) {
	s, r, p, h := testScreen()
	focusCountAndType(s, "3")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if s.set == nil || len(s.set.Problems) != 3 {
		t.Fatalf("expected 3 generated problems, got %+v", s.set)
	}
	if cmd == nil {
		t.Fatal("expected scratch render command")
	}

	msg := cmd()
	if _, ok := msg.(unsavedPreviewMsg); !ok {
		t.Fatalf("expected unsavedPreviewMsg, got %T", msg)
	}
	s.Update(msg)

	if len(r.names) != 1 || r.names[0] != ws.UnsavedName {
		t.Errorf("render names = %v, want [%s]", r.names, ws.UnsavedName)
	}
	if len(p.pdfs) != 1 {
		t.Errorf("preview calls = %d, want 1", len(p.pdfs))
	}
	if len(h.records) != 0 {
		t.Error("scratch render must not be recorded")
	}
	if !strings.Contains(s.View(120, 40), "Preview (not saved)") {
		t.Error("expected unsaved preview in view")
	}
}

func TestWorksheetScreen_InvalidCount(t *testing.T) {
	s, r, _, _ := testScreen()
	s.count.SetValue("0")
	s.focus = focusCount

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for invalid count")
	}
	if s.set != nil {
		t.Error("expected nothing generated")
	}
	if s.count.Err() == "" {
		t.Error("expected validation error on count field")
	}
	if len(r.names) != 0 {
		t.Error("expected no render")
	}
}

func TestWorksheetScreen_CountFieldRejectsLetters(t *testing.T) {
	s, _, _, _ := testScreen()
	focusCountAndType(s, "1x2")
	if got := s.count.Value(); got != "12" {
		t.Errorf("count = %q, want %q", got, "12")
	}
}

func TestWorksheetScreen_ExportBeforeGenerate(t *testing.T) {
	s, r, _, _ := testScreen()

	_, cmd := s.Update(ctrlS())
	if cmd != nil {
		t.Error("expected no command without a problem set")
	}
	if !s.statusErr {
		t.Error("expected error status")
	}
	if len(r.names) != 0 {
		t.Error("expected no render")
	}
}

func TestWorksheetScreen_ExportFlow(t *testing.T) {
	s, r, p, h := testScreen()
	typeText(s, "Unit 3")
	focusCountAndType(s, "2")
	s.Update(specialKey(tea.KeyEnter))
	s.busy = ""
	r.names = nil
	p.pdfs = nil

	_, cmd := s.Update(ctrlS())
	if cmd == nil {
		t.Fatal("expected export command")
	}
	if s.Working() != "Compiling..." {
		t.Errorf("working = %q, want Compiling...", s.Working())
	}

	done := cmd()
	dm, ok := done.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %T", done)
	}
	if dm.Err != nil {
		t.Fatalf("export: %v", dm.Err)
	}
	if len(p.pdfs) != 0 {
		t.Fatal("preview must not start before the completion message is handled")
	}
	if !strings.HasPrefix(r.names[0], "Unit_3_") {
		t.Errorf("export name = %q, want Unit_3_ prefix", r.names[0])
	}

	_, next := s.Update(done)
	if next == nil {
		t.Fatal("expected preview command after export completion")
	}
	pm := next()
	if _, ok := pm.(previewDoneMsg); !ok {
		t.Fatalf("expected previewDoneMsg, got %T", pm)
	}
	s.Update(pm)

	if len(p.pdfs) != 1 {
		t.Errorf("preview calls = %d, want 1", len(p.pdfs))
	}
	if s.busy != "" {
		t.Error("expected idle after preview")
	}
	if len(h.records) != 1 || !h.records[0].Success || h.records[0].Family != "mean" {
		t.Errorf("history = %+v, want one successful mean export", h.records)
	}
	if !strings.Contains(s.View(120, 40), "_preview.png") {
		t.Error("expected preview file in view")
	}
}

func TestWorksheetScreen_ExportFailure(t *testing.T) {
	s, r, p, h := testScreen()
	focusCountAndType(s, "1")
	s.Update(specialKey(tea.KeyEnter))
	s.busy = ""
	p.pdfs = nil
	r.err = errors.New("! Emergency stop.")

	_, cmd := s.Update(ctrlS())
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("expected no preview after a failed export")
	}
	if !s.statusErr || !strings.Contains(s.status, "Export failed") {
		t.Errorf("status = %q, want export failure", s.status)
	}
	if len(p.pdfs) != 0 {
		t.Error("expected no preview")
	}
	if len(h.records) != 1 || h.records[0].Success {
		t.Errorf("history = %+v, want one failed record", h.records)
	}
}

func TestWorksheetScreen_BusyIgnoresActions(t *testing.T) {
	s, _, _, _ := testScreen()
	focusCountAndType(s, "2")
	s.Update(specialKey(tea.KeyEnter))

	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected generate ignored while busy")
	}
	if _, cmd := s.Update(ctrlS()); cmd != nil {
		t.Error("expected export ignored while busy")
	}
}

func TestWorksheetScreen_NoExporter(t *testing.T) {
	s := New(problemgen.FamilyMedian, nil, Options{MaxProblems: 10})
	s.count.SetValue("2")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no scratch render without an exporter")
	}
	if s.set == nil {
		t.Fatal("expected problems generated")
	}
	if s.Title() != "Median Worksheet" {
		t.Errorf("title = %q", s.Title())
	}
	for _, h := range s.KeyHints() {
		if h.Key == "Ctrl+S" {
			t.Error("export hint shown without an exporter")
		}
	}
}
