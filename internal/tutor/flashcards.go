package tutor

import (
	"strings"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// ParseFlashcards reads "Question - Answer" lines. Lines without a separator
// are skipped; list markers and numbering in front of the question are
// dropped.
func ParseFlashcards(text string) []models.Flashcard {
	var cards []models.Flashcard
	for _, line := range strings.Split(text, "\n") {
		q, a, ok := strings.Cut(line, " - ")
		if !ok {
			q, a, ok = strings.Cut(line, "-")
		}
		if !ok {
			continue
		}
		q = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(q), "-*•0123456789.) "))
		a = strings.TrimSpace(a)
		if q == "" || a == "" {
			continue
		}
		cards = append(cards, models.Flashcard{Question: q, Answer: a})
	}
	return cards
}
