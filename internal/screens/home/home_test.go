package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/statsheet/internal/router"
	"github.com/abhisek/statsheet/internal/screens/history"
	"github.com/abhisek/statsheet/internal/screens/placeholder"
	wsscreen "github.com/abhisek/statsheet/internal/screens/worksheet"
	"github.com/abhisek/statsheet/internal/store"
)

type emptyRepo struct{}

func (emptyRepo) Append(_ context.Context, rec store.ExportRecord) (store.ExportRecord, error) {
	return rec, nil
}
func (emptyRepo) Recent(context.Context, store.QueryOpts) ([]store.ExportRecord, error) {
	return nil, nil
}
func (emptyRepo) Prune(context.Context, int) error { return nil }

func selectItem(t *testing.T, h *HomeScreen, downs int) tea.Msg {
	t.Helper()
	for i := 0; i < downs; i++ {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestHomeListsFamilies(t *testing.T) {
	h := New(nil, nil, wsscreen.Options{})
	view := h.View(100, 30)
	for _, want := range []string{"Mean Worksheet", "Median Worksheet", "Export History", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeOpensWorksheet(t *testing.T) {
	h := New(nil, nil, wsscreen.Options{})

	msg := selectItem(t, h, 1)
	push, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if push.Screen.Title() != "Median Worksheet" {
		t.Errorf("pushed %q, want Median Worksheet", push.Screen.Title())
	}
}

func TestHomeHistory(t *testing.T) {
	h := New(nil, nil, wsscreen.Options{})
	push := selectItem(t, h, 2).(router.PushScreenMsg)
	if _, ok := push.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("expected placeholder without a repo, got %T", push.Screen)
	}

	h = New(nil, emptyRepo{}, wsscreen.Options{})
	push = selectItem(t, h, 2).(router.PushScreenMsg)
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("expected history screen, got %T", push.Screen)
	}
}
