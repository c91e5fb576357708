// Package screen defines what the router stacks: one view of the worksheet
// app, plus optional capabilities the shell looks for.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/statsheet/internal/ui/layout"
)

// Screen is one page of the TUI. The router forwards messages to the top
// screen only.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title names the screen in the header breadcrumb.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Worker is implemented by screens that compile or rasterize in the
// background. While Working returns a non-empty label the screen cannot be
// popped, since the completion messages of its render would otherwise
// reach the wrong screen and the export would go unrecorded. The label is
// shown in the header.
type Worker interface {
	Working() string
}

// WorkingLabel returns s's in-flight label, or "" if s is idle or is not
// a Worker.
func WorkingLabel(s Screen) string {
	if w, ok := s.(Worker); ok {
		return w.Working()
	}
	return ""
}
