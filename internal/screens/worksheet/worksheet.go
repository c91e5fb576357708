package worksheet

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/abhisek/statsheet/internal/screen"
	"github.com/abhisek/statsheet/internal/ui/components"
	"github.com/abhisek/statsheet/internal/ui/layout"
	ws "github.com/abhisek/statsheet/internal/worksheet"
)

const (
	focusHeader = iota
	focusCount
	focusFields
)

// Options tunes a worksheet screen.
type Options struct {
	DefaultHeader string
	MaxProblems   int
	Rand          *rand.Rand // nil seeds randomly
}

// WorksheetScreen collects a header and problem count, generates a problem
// set for one family and exports it.
type WorksheetScreen struct {
	family   problemgen.Family
	spec     problemgen.Spec
	exporter *ws.Exporter
	opts     Options

	header components.TextInput
	count  components.TextInput
	focus  int

	set     *ws.ProblemSet
	unsaved *ws.ExportResult
	last    *ws.ExportResult

	busy      string
	status    string
	statusErr bool
}

var _ screen.Screen = (*WorksheetScreen)(nil)
var _ screen.KeyHintProvider = (*WorksheetScreen)(nil)
var _ screen.Worker = (*WorksheetScreen)(nil)

// New creates a worksheet screen for family. exporter may be nil, in which
// case generation works and export is disabled.
func New(family problemgen.Family, exporter *ws.Exporter, opts Options) *WorksheetScreen {
	header := components.NewTextInput("Header", opts.DefaultHeader, false, 120)
	count := components.NewTextInput("Problems", "10", true, 4)
	return &WorksheetScreen{
		family:   family,
		spec:     problemgen.DefaultSpec(family),
		exporter: exporter,
		opts:     opts,
		header:   header,
		count:    count,
	}
}

func (s *WorksheetScreen) Init() tea.Cmd {
	return s.header.Focus()
}

func (s *WorksheetScreen) Title() string {
	return s.family.DisplayName() + " Worksheet"
}

// Working returns the label of the compile or preview in flight.
func (s *WorksheetScreen) Working() string {
	return s.busy
}

func (s *WorksheetScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Generate"},
	}
	if s.exporter != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Export"})
	}
	return append(hints,
		layout.KeyHint{Key: "Esc", Description: "Back"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *WorksheetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case unsavedPreviewMsg:
		s.busy = ""
		if msg.Err != nil {
			s.setStatus("Preview failed: "+firstLine(msg.Err), true)
			return s, nil
		}
		s.unsaved = msg.Result
		if msg.Result.PreviewErr != nil {
			s.setStatus("Preview image unavailable: "+firstLine(msg.Result.PreviewErr), true)
		}
		return s, nil

	case exportDoneMsg:
		if msg.Err != nil {
			s.busy = ""
			s.setStatus("Export failed: "+firstLine(msg.Err), true)
			return s, nil
		}
		s.busy = "Rendering preview..."
		s.setStatus("Saved "+msg.Result.Artifact.PDFPath, false)
		return s, s.previewCmd(msg.Req, msg.Result)

	case previewDoneMsg:
		s.busy = ""
		s.last = msg.Result
		switch {
		case msg.Result.PreviewErr != nil:
			s.setStatus("Saved "+msg.Result.Artifact.PDFPath+", preview unavailable: "+firstLine(msg.Result.PreviewErr), true)
		case msg.Result.Artifact.Degraded:
			s.setStatus("Saved "+msg.Result.Artifact.PDFPath+" with compiler errors", true)
		default:
			s.setStatus("Saved "+msg.Result.Artifact.PDFPath, false)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *WorksheetScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % focusFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + focusFields - 1) % focusFields)
	case "enter":
		if s.busy != "" {
			return s, nil
		}
		return s, s.generate()
	case "ctrl+s":
		if s.busy != "" {
			return s, nil
		}
		return s, s.export()
	}

	var cmd tea.Cmd
	if s.focus == focusHeader {
		s.header, cmd = s.header.Update(msg)
	} else {
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *WorksheetScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	if f == focusHeader {
		s.count.Blur()
		return s.header.Focus()
	}
	s.header.Blur()
	return s.count.Focus()
}

// generate validates the count, assembles a new problem set and starts the
// scratch render. Nothing is generated on invalid input.
func (s *WorksheetScreen) generate() tea.Cmd {
	n, err := ws.ParseCount(s.count.Value(), s.opts.MaxProblems)
	if err != nil {
		var ie *ws.InputError
		if errors.As(err, &ie) {
			s.count.SetError(ie.Msg)
		} else {
			s.count.SetError(err.Error())
		}
		s.setStatus("Enter a valid number of problems", true)
		return nil
	}
	s.count.SetError("")

	gen, err := problemgen.New(s.spec, s.opts.Rand)
	if err != nil {
		s.setStatus(err.Error(), true)
		return nil
	}
	set, err := ws.Assemble(gen, n)
	if err != nil {
		s.setStatus(err.Error(), true)
		return nil
	}

	s.set = set
	s.unsaved = nil
	s.last = nil
	s.setStatus(fmt.Sprintf("Generated %d %s problems", n, s.family), false)

	if s.exporter == nil {
		return nil
	}
	s.busy = "Rendering preview..."
	exporter := s.exporter
	questions, answers := set.QuestionBlock(), set.AnswerBlock()
	return func() tea.Msg {
		res, err := exporter.PreviewUnsaved(context.Background(), questions, answers)
		return unsavedPreviewMsg{Result: res, Err: err}
	}
}

// export compiles the current set under the entered header. The preview
// step is started from the completion message, see previewCmd.
func (s *WorksheetScreen) export() tea.Cmd {
	if s.exporter == nil {
		s.setStatus("Export is not configured", true)
		return nil
	}
	if s.set == nil {
		s.setStatus("Generate problems before exporting", true)
		return nil
	}

	req := ws.ExportRequest{
		Header:    s.header.Value(),
		Questions: s.set.QuestionBlock(),
		Answers:   s.set.AnswerBlock(),
		Family:    string(s.family),
		Count:     len(s.set.Problems),
	}
	s.busy = "Compiling..."
	exporter := s.exporter
	return func() tea.Msg {
		ctx := context.Background()
		res, err := exporter.Compile(ctx, req)
		if err != nil {
			exporter.Record(ctx, req, nil, err)
		}
		return exportDoneMsg{Req: req, Result: res, Err: err}
	}
}

func (s *WorksheetScreen) previewCmd(req ws.ExportRequest, res *ws.ExportResult) tea.Cmd {
	exporter := s.exporter
	return func() tea.Msg {
		ctx := context.Background()
		exporter.Preview(ctx, res)
		exporter.Record(ctx, req, res, nil)
		return previewDoneMsg{Result: res}
	}
}

func (s *WorksheetScreen) setStatus(msg string, isErr bool) {
	s.status = msg
	s.statusErr = isErr
}

func previewLabel(res *ws.ExportResult) string {
	if res == nil || res.Preview == nil {
		return ""
	}
	return fmt.Sprintf("%s (%dx%d)", filepath.Base(res.Preview.Path), res.Preview.Width, res.Preview.Height)
}

func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}
