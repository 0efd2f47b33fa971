package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

var (
	statusColors = map[models.Color]lipgloss.Color{
		models.ColorRed:    lipgloss.Color("9"),
		models.ColorOrange: lipgloss.Color("214"),
		models.ColorGreen:  lipgloss.Color("10"),
	}

	userLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("You:")
	botLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Render("Tutor:")
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

const helpText = "/upload <path> to send notes, /summary /quiz /flashcards [file id] to study, /quit to exit. Anything else is a chat message."

// Sanitize makes text safe to print verbatim. Control characters other than
// newline and tab are replaced, so escape sequences in a message cannot drive
// the terminal.
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return '\uFFFD'
		}
		return r
	}, text)
}

// RenderStatus styles a status line. The idle status renders empty.
func RenderStatus(st models.Status) string {
	if st.Text == "" {
		return ""
	}
	style := lipgloss.NewStyle()
	if c, ok := statusColors[st.Color]; ok {
		style = style.Foreground(c)
	}
	return style.Render(Sanitize(st.Text))
}

// RenderEntry styles one transcript entry with its role label.
func RenderEntry(e models.Entry) string {
	label := userLabel
	if e.Role == models.RoleBot {
		label = botLabel
	}
	return label + " " + Sanitize(e.Text)
}
