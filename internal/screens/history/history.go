package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/statsheet/internal/router"
	"github.com/abhisek/statsheet/internal/screen"
	"github.com/abhisek/statsheet/internal/store"
	"github.com/abhisek/statsheet/internal/ui/layout"
	"github.com/abhisek/statsheet/internal/ui/theme"
)

// pageSize is how many exports the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Records []store.ExportRecord
	Err     error
}

// HistoryScreen lists past exports, newest first.
type HistoryScreen struct {
	repo     store.ExportRepo
	records  []store.ExportRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.ExportRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		recs, err := s.repo.Recent(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Export History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No exports yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-8s %3d  %s  %s",
			prefix,
			rec.Timestamp.Format("Jan 02 15:04"),
			rec.Family,
			rec.ProblemCount,
			statusLabel(rec),
			rec.Header,
		)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range details(rec) {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("      " + detail))
				b.WriteString("\n")
			}
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func statusLabel(rec store.ExportRecord) string {
	switch {
	case !rec.Success:
		return theme.Failed.Render("failed  ")
	case rec.Degraded:
		return theme.Warn.Render("degraded")
	default:
		return theme.Ok.Render("ok      ")
	}
}

func details(rec store.ExportRecord) []string {
	var out []string
	if rec.SourcePath != "" {
		out = append(out, "source:  "+rec.SourcePath)
	}
	if rec.PDFPath != "" {
		out = append(out, "pdf:     "+rec.PDFPath)
	}
	if rec.PreviewPath != "" {
		out = append(out, "preview: "+filepath.Base(rec.PreviewPath))
	}
	if rec.ErrorMessage != "" {
		out = append(out, "error:   "+rec.ErrorMessage)
	}
	if len(out) == 0 {
		out = append(out, "no files recorded")
	}
	return out
}
