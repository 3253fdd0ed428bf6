package cli

import (
	"bytes"
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/script"
)

// Shell styles
var (
	shellPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	shellEchoStyle   = lipgloss.NewStyle().Foreground(colorGray)
	shellDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const shellPrompt = "› "

// =============================================================================
// ShellModel - Interactive command interpreter
// =============================================================================

// ShellModel is the bubbletea model for the interactive shell. Each entered
// line runs through a script interpreter and its output is appended to the
// transcript.
type ShellModel struct {
	ctx context.Context
	in  *script.Interpreter
	out *bytes.Buffer

	Input      []rune
	Transcript []string
	History    []string
	Recall     int // index into History while browsing; len(History) when not
	Height     int
	Quitting   bool
}

// NewShellModel creates a shell that runs commands against in. The
// interpreter must write to out.
func NewShellModel(ctx context.Context, in *script.Interpreter, out *bytes.Buffer) ShellModel {
	return ShellModel{
		ctx:    ctx,
		in:     in,
		out:    out,
		Height: 20,
	}
}

func (m ShellModel) Init() tea.Cmd {
	return nil
}

func (m ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.Quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(string(m.Input))
			m.Input = nil
			if line == "quit" || line == "exit" {
				m.Quitting = true
				return m, tea.Quit
			}
			m = m.exec(line)
		case tea.KeyBackspace:
			if len(m.Input) > 0 {
				m.Input = m.Input[:len(m.Input)-1]
			}
		case tea.KeyCtrlU:
			m.Input = nil
		case tea.KeyUp:
			if m.Recall > 0 {
				m.Recall--
				m.Input = []rune(m.History[m.Recall])
			}
		case tea.KeyDown:
			if m.Recall < len(m.History)-1 {
				m.Recall++
				m.Input = []rune(m.History[m.Recall])
			} else {
				m.Recall = len(m.History)
				m.Input = nil
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Input = append(m.Input, msg.Runes...)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-4, 5)
	}
	return m, nil
}

// exec runs one line and appends the echo and output to the transcript.
func (m ShellModel) exec(line string) ShellModel {
	if line == "" {
		return m
	}
	m.History = append(m.History, line)
	m.Recall = len(m.History)
	m.Transcript = append(m.Transcript, shellEchoStyle.Render(shellPrompt+line))

	m.out.Reset()
	err := m.in.Exec(m.ctx, line)
	if text := strings.TrimRight(m.out.String(), "\n"); text != "" {
		m.Transcript = append(m.Transcript, strings.Split(text, "\n")...)
	}
	if err != nil {
		m.Transcript = append(m.Transcript, StyleError.Render("Error: "+errors.UserMessage(err)))
	}
	return m
}

func (m ShellModel) View() string {
	if m.Quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("beaconnet shell"))
	b.WriteString("\n")
	b.WriteString(shellDimStyle.Render("type help for commands  ↑/↓ history  esc quit"))
	b.WriteString("\n\n")

	start := max(len(m.Transcript)-m.Height, 0)
	for _, line := range m.Transcript[start:] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(shellPromptStyle.Render(shellPrompt))
	b.WriteString(string(m.Input))
	b.WriteString(shellDimStyle.Render("█"))
	return b.String()
}
