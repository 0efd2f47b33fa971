package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
)

// ErrUnsupported is returned by a responder that cannot handle a task.
var ErrUnsupported = errors.New("not supported by this responder")

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Prompt is everything a responder needs to produce one reply. Task is empty
// for conversational turns.
type Prompt struct {
	Task     models.StudyAction
	System   string
	History  []Message
	Question string
	Notes    []notes.Match
}

// Responder produces the tutor's reply to a prompt.
type Responder interface {
	Name() string
	Respond(ctx context.Context, p Prompt) (string, error)
}

// OfflineResponder answers from the retrieved notes alone, without a model.
type OfflineResponder struct{}

func (OfflineResponder) Name() string { return "offline" }

func (OfflineResponder) Respond(_ context.Context, p Prompt) (string, error) {
	if p.Task != "" {
		return "", fmt.Errorf("offline %s: %w", p.Task, ErrUnsupported)
	}
	if len(p.Notes) == 0 {
		return "I couldn't find that in your notes. Try asking with words that appear in them.", nil
	}

	var b strings.Builder
	b.WriteString("Here's what your notes say:")
	for _, m := range p.Notes {
		b.WriteString("\n• ")
		b.WriteString(m.Text)
	}
	return b.String(), nil
}
