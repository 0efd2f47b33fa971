// Package tutor produces chat replies and study material from uploaded notes.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
)

// NotesSource is the part of the notes index the tutor reads.
type NotesSource interface {
	Search(ctx context.Context, query string, limit int) ([]notes.Match, error)
	Document(ctx context.Context, fileID string) (*notes.Document, error)
	Latest(ctx context.Context) (*notes.Document, error)
	Count(ctx context.Context) (int, error)
}

// Config tunes a Tutor.
type Config struct {
	SystemPrompt string
	MaxHistory   int // conversation turns kept; 0 keeps none
	MaxMatches   int
	RequireNotes bool // answer UploadFirstReply until notes exist
}

// Tutor answers chat messages using a responder and the notes index. It keeps
// one shared conversation history, bounded to MaxHistory turns.
type Tutor struct {
	notes     NotesSource
	responder Responder
	cfg       Config
	logger    *slog.Logger

	mu      sync.Mutex
	history []Message
}

// New creates a Tutor.
func New(src NotesSource, responder Responder, cfg Config, logger *slog.Logger) *Tutor {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxMatches <= 0 {
		cfg.MaxMatches = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tutor{notes: src, responder: responder, cfg: cfg, logger: logger}
}

// Responder returns the name of the configured responder.
func (t *Tutor) Responder() string { return t.responder.Name() }

// Reply answers one student message.
func (t *Tutor) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("empty message")
	}

	if t.cfg.RequireNotes {
		n, err := t.notes.Count(ctx)
		if err != nil {
			return "", fmt.Errorf("checking notes: %w", err)
		}
		if n == 0 {
			return UploadFirstReply, nil
		}
	}

	matches, err := t.notes.Search(ctx, message, t.cfg.MaxMatches)
	if err != nil {
		return "", fmt.Errorf("searching notes: %w", err)
	}

	reply, err := t.responder.Respond(ctx, Prompt{
		System:   t.cfg.SystemPrompt,
		History:  t.History(),
		Question: message,
		Notes:    matches,
	})
	if err != nil {
		return "", fmt.Errorf("%s responder: %w", t.responder.Name(), err)
	}

	t.remember(message, reply)
	t.logger.Debug("tutor replied", "responder", t.responder.Name(), "matches", len(matches))
	return reply, nil
}

// Study runs a study action over an indexed document. An empty fileID uses
// the most recently indexed notes.
func (t *Tutor) Study(ctx context.Context, fileID string, action models.StudyAction) (models.StudyResponse, error) {
	if !action.Valid() {
		return models.StudyResponse{}, fmt.Errorf("unknown study action %q", action)
	}

	var (
		doc *notes.Document
		err error
	)
	if fileID == "" {
		doc, err = t.notes.Latest(ctx)
	} else {
		doc, err = t.notes.Document(ctx, fileID)
	}
	if err != nil {
		return models.StudyResponse{}, err
	}

	result, err := t.responder.Respond(ctx, Prompt{
		Task:     action,
		Question: studyPrompt(action, strings.Join(doc.Lines, "\n")),
	})
	if err != nil {
		return models.StudyResponse{}, fmt.Errorf("%s responder: %w", t.responder.Name(), err)
	}

	resp := models.StudyResponse{Action: action, Result: result}
	if action == models.StudyFlashcards {
		resp.Flashcards = ParseFlashcards(result)
	}
	return resp, nil
}

// History returns a copy of the remembered conversation.
func (t *Tutor) History() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Tutor) remember(question, reply string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history,
		Message{Role: "user", Content: question},
		Message{Role: "assistant", Content: reply},
	)
	if limit := t.cfg.MaxHistory * 2; len(t.history) > limit {
		t.history = append([]Message(nil), t.history[len(t.history)-limit:]...)
	}
}
