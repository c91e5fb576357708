package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/abhisek/statsheet/internal/router"
	"github.com/abhisek/statsheet/internal/screen"
	"github.com/abhisek/statsheet/internal/screens/history"
	"github.com/abhisek/statsheet/internal/screens/placeholder"
	wsscreen "github.com/abhisek/statsheet/internal/screens/worksheet"
	"github.com/abhisek/statsheet/internal/store"
	"github.com/abhisek/statsheet/internal/ui/components"
	"github.com/abhisek/statsheet/internal/ui/theme"
	"github.com/abhisek/statsheet/internal/worksheet"
)

// HomeScreen lists the problem families and the history view.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. exporter and historyRepo may be nil.
func New(exporter *worksheet.Exporter, historyRepo store.ExportRepo, opts wsscreen.Options) *HomeScreen {
	var items []components.MenuItem

	for _, f := range problemgen.Families() {
		spec := problemgen.DefaultSpec(f)
		items = append(items, components.MenuItem{
			Label: f.DisplayName() + " Worksheet",
			Hint:  fmt.Sprintf("%d values from %d to %d", spec.Count, spec.Min, spec.Max),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: wsscreen.New(f, exporter, opts)}
				}
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "Export History", Action: func() tea.Cmd {
			if historyRepo == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New("Export History",
						"The history database could not be opened.")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(historyRepo)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("Statistics Worksheets")
	subtitle := theme.Subtitle.Render("Generate practice problems with an answer key, typeset as PDF")

	content := strings.Join([]string{title, subtitle, "", h.menu.View()}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Padding(1, 4).Render(content))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
