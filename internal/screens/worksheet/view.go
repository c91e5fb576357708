package worksheet

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/ui/components"
	"github.com/abhisek/statsheet/internal/ui/layout"
	"github.com/abhisek/statsheet/internal/ui/theme"
)

func (s *WorksheetScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, s.renderForm(width))
	sections = append(sections, s.renderBlocks(width, height))
	sections = append(sections, s.renderStatus())

	return strings.Join(sections, "\n")
}

func (s *WorksheetScreen) renderForm(width int) string {
	fields := []string{s.header.View(), s.count.View()}
	spec := theme.Hint.Render(fmt.Sprintf("%d values per problem, range %d to %d",
		s.spec.Count, s.spec.Min, s.spec.Max))

	buttons := components.NewButton("Generate", "Enter", s.busy == "").View() + " " +
		components.NewButton("Export", "Ctrl+S", s.busy == "" && s.set != nil && s.exporter != nil).View()

	form := strings.Join(fields, "\n") + "\n" + spec + "\n" + buttons
	return theme.Card.Width(width - 2).Render(form)
}

func (s *WorksheetScreen) renderBlocks(width, height int) string {
	if s.set == nil {
		return theme.Hint.Render("  No problems yet. Enter a count and press Enter.")
	}

	// Leave room for the form and the status lines.
	rows := height - 12
	if rows < 4 {
		rows = 4
	}

	questions := renderItems("Questions", latex.SplitItems(s.set.QuestionBlock()), rows)
	answers := renderItems("Answer Key", latex.SplitItems(s.set.AnswerBlock()), rows)

	if layout.IsCompactWidth(width) {
		return theme.Card.Width(width - 2).Render(questions + "\n\n" + answers)
	}
	half := width/2 - 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Card.Width(half).Render(questions),
		theme.Card.Width(half).Render(answers),
	)
}

func renderItems(title string, items []string, rows int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(title))
	for i, it := range items {
		if i*3+3 > rows {
			b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("… %d more", len(items)-i)))
			break
		}
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, strings.ReplaceAll(it, "\n", "\n   ")))
	}
	return b.String()
}

func (s *WorksheetScreen) renderStatus() string {
	var lines []string
	if s.busy != "" {
		lines = append(lines, theme.Hint.Render("  "+s.busy))
	}
	if s.status != "" {
		style := theme.Ok
		if s.statusErr {
			style = theme.Failed
		}
		lines = append(lines, style.Render("  "+s.status))
	}
	if p := previewLabel(s.unsaved); p != "" && s.last == nil {
		lines = append(lines, theme.Hint.Render("  Preview (not saved): "+p))
	}
	if p := previewLabel(s.last); p != "" {
		lines = append(lines, theme.Body.Render("  Preview: "+p))
	}
	return strings.Join(lines, "\n")
}
