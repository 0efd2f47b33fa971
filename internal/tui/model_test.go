package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mansimran2992/ai-tutor-bot/internal/dashboard"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_ChatAndUpload(t *testing.T) {
	s := NewSession(newStubAPI())
	m := NewModel(context.Background(), s, "http://localhost:8080")

	m, cmd := typeLine(t, m, "hello")
	assert.Nil(t, cmd)
	s.Wait()
	assert.Empty(t, m.input.Value())

	m, _ = typeLine(t, m, "/upload")
	s.Wait()

	view := m.View()
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "Hi! What are we studying?")
	assert.Contains(t, view, models.PromptText)
	assert.Contains(t, view, "http://localhost:8080")
}

func TestModel_RejectedChatKeepsInput(t *testing.T) {
	api := newStubAPI()
	gate := make(chan struct{})
	api.Gates = map[string]chan struct{}{"hello": gate}
	s := NewSession(api, dashboard.WithSingleFlight())
	m := NewModel(context.Background(), s, "")

	m, _ = typeLine(t, m, "hello")
	m, _ = typeLine(t, m, "second")
	assert.Equal(t, "second", m.input.Value())

	close(gate)
	s.Wait()
	assert.Equal(t, 2, s.Transcript.Len())
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(context.Background(), NewSession(newStubAPI()), "")

	_, cmd := typeLine(t, m, "/quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewShowsNewestEntries(t *testing.T) {
	s := NewSession(newStubAPI())
	for i := 0; i < 30; i++ {
		s.Transcript.Append("line", models.RoleUser)
	}
	s.Transcript.Append("newest", models.RoleBot)

	next, _ := NewModel(context.Background(), s, "").Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	view := next.(Model).View()

	assert.Contains(t, view, "newest")
}

func TestModel_StudyCommandClearsInput(t *testing.T) {
	s := NewSession(newStubAPI())
	m := NewModel(context.Background(), s, "")

	m, _ = typeLine(t, m, "/summary")
	s.Wait()

	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Osmosis moves water.")
}
