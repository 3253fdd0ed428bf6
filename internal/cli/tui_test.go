package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/script"
)

func newTestShell() ShellModel {
	var out bytes.Buffer
	return NewShellModel(context.Background(), script.New(engine.New(), &out), &out)
}

func typeLine(m ShellModel, line string) ShellModel {
	for _, r := range line {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(ShellModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(ShellModel)
}

func TestShellRunsCommands(t *testing.T) {
	m := newTestShell()
	m = typeLine(m, `add_beacon A "Alpha Centauri" (0,0) (1,2,3)`)
	m = typeLine(m, "beacon_count")

	transcript := strings.Join(m.Transcript, "\n")
	for _, want := range []string{
		"Added beacon Alpha Centauri: A",
		"Number of beacons: 1",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
	if len(m.History) != 2 {
		t.Errorf("History = %v, want 2 entries", m.History)
	}
	if len(m.Input) != 0 {
		t.Errorf("Input should be cleared after enter, got %q", string(m.Input))
	}
}

func TestShellReportsErrors(t *testing.T) {
	m := typeLine(newTestShell(), "frobnicate")
	last := m.Transcript[len(m.Transcript)-1]
	if !strings.Contains(last, "Error:") || !strings.Contains(last, "frobnicate") {
		t.Errorf("last transcript line = %q, want an error naming the command", last)
	}
}

func TestShellHistory(t *testing.T) {
	m := newTestShell()
	m = typeLine(m, "beacon_count")
	m = typeLine(m, "help")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(ShellModel)
	if got := string(m.Input); got != "help" {
		t.Errorf("first up = %q, want help", got)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(ShellModel)
	if got := string(m.Input); got != "beacon_count" {
		t.Errorf("second up = %q, want beacon_count", got)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ShellModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ShellModel)
	if len(m.Input) != 0 {
		t.Errorf("down past the end should clear input, got %q", string(m.Input))
	}
}

func TestShellBackspace(t *testing.T) {
	m := newTestShell()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	m = next.(ShellModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(ShellModel)
	if got := string(m.Input); got != "a" {
		t.Errorf("Input = %q, want a", got)
	}
}

func TestShellQuit(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
	}{
		{"esc", []tea.KeyMsg{{Type: tea.KeyEsc}}},
		{"ctrl+c", []tea.KeyMsg{{Type: tea.KeyCtrlC}}},
		{"quit", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("quit")}, {Type: tea.KeyEnter}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = newTestShell()
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(k)
			}
			if !m.(ShellModel).Quitting {
				t.Error("shell should be quitting")
			}
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("command should produce tea.QuitMsg")
			}
			if m.View() != "" {
				t.Error("View should be empty after quitting")
			}
		})
	}
}

func TestShellViewScrolls(t *testing.T) {
	m := newTestShell()
	m.Height = 2
	m = typeLine(m, "beacon_count")
	m = typeLine(m, "all_beacons")

	view := m.View()
	if strings.Contains(view, "Number of beacons") {
		t.Errorf("older lines should scroll out of view:\n%s", view)
	}
	if !strings.Contains(view, "No beacons") {
		t.Errorf("latest output should be visible:\n%s", view)
	}
}
