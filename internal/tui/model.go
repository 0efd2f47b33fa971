package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// refreshMsg asks the program to redraw from the session state.
type refreshMsg struct{}

// notifier turns dashboard updates into redraws. Send runs on its own
// goroutine because flows notify views while holding their lock.
type notifier struct {
	send func(tea.Msg)
}

func (n notifier) ShowStatus(models.Status) { go n.send(refreshMsg{}) }
func (n notifier) AppendEntry(models.Entry) { go n.send(refreshMsg{}) }

// Model is the bubbletea model. It keeps no dashboard state of its own; View
// reads the session's status display and transcript.
type Model struct {
	ctx       context.Context
	session   *Session
	serverURL string
	input     textinput.Model
	width     int
	height    int
}

// NewModel returns a model driving s.
func NewModel(ctx context.Context, s *Session, serverURL string) Model {
	in := textinput.New()
	in.Placeholder = "Ask your tutor..."
	in.Prompt = "> "
	in.Focus()
	in.CharLimit = 0
	in.Width = 60

	return Model{ctx: ctx, session: s, serverURL: serverURL, input: in}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case refreshMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			cmd := ParseCommand(m.input.Value())
			switch cmd.Kind {
			case CommandQuit:
				return m, tea.Quit
			case CommandChat:
				m.session.Execute(m.ctx, cmd)
				m.input.SetValue(m.session.Input())
			case CommandUpload, CommandStudy:
				m.session.Execute(m.ctx, cmd)
				m.input.SetValue("")
			}
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Tutor"))
	if m.serverURL != "" {
		b.WriteString(" " + helpStyle.Render(m.serverURL))
	}
	b.WriteString("\n\n")

	var lines []string
	for _, e := range m.session.Transcript.Entries() {
		lines = append(lines, strings.Split(RenderEntry(e), "\n")...)
	}
	// Keep the newest entries in view.
	if room := m.height - 7; m.height > 0 && room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderStatus(m.session.Status.Current()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, s *Session, serverURL string) error {
	p := tea.NewProgram(NewModel(ctx, s, serverURL), tea.WithContext(ctx), tea.WithAltScreen())
	n := notifier{send: p.Send}
	s.Status.Attach(n)
	s.Transcript.Attach(n)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
