package dashboard

import (
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// Transcript is the append-only chat log. Views are notified under the lock so
// they always observe entries in sequence order.
type Transcript struct {
	mu      sync.Mutex
	entries []models.Entry
	views   []TranscriptView
}

// NewTranscript returns an empty transcript rendering to views.
func NewTranscript(views ...TranscriptView) *Transcript {
	return &Transcript{views: views}
}

// Attach adds a view. Existing entries are replayed to it first.
func (t *Transcript) Attach(v TranscriptView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		v.AppendEntry(e)
	}
	t.views = append(t.views, v)
}

// Append adds text verbatim as the newest entry.
func (t *Transcript) Append(text string, role models.Role) models.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := models.Entry{Seq: len(t.entries) + 1, Text: text, Role: role}
	t.entries = append(t.entries, e)
	for _, v := range t.views {
		v.AppendEntry(e)
	}
	return e
}

// Entries returns a copy of all entries in order.
func (t *Transcript) Entries() []models.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
