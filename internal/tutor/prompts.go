package tutor

import (
	"fmt"
	"strings"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
)

// DefaultSystemPrompt sets the tutor's persona.
const DefaultSystemPrompt = `You are an AI Tutor for secondary school students.
Explain concepts clearly and simply.
Be encouraging and supportive.
If a student asks for an answer, explain the reasoning instead of only giving the answer.`

// UploadFirstReply is returned when a question arrives before any notes.
const UploadFirstReply = "📂 Please upload notes first so I can help you."

func studyPrompt(action models.StudyAction, text string) string {
	switch action {
	case models.StudySummary:
		return "Summarize the following notes in simple bullet points\nsuitable for school students:\n\n" + text
	case models.StudyQuiz:
		return "Create 5 quiz questions with answers based on these notes:\n\n" + text
	case models.StudyFlashcards:
		return "Create flashcards from these notes.\nFormat as:\nQuestion - Answer\n\n" + text
	}
	return text
}

// questionWithNotes embeds retrieved note lines ahead of the question.
func questionWithNotes(question string, matches []notes.Match) string {
	if len(matches) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Use the following study notes to answer the student's question.\n\nSTUDY NOTES:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "- %s\n", m.Text)
	}
	b.WriteString("\nQUESTION:\n")
	b.WriteString(question)
	return b.String()
}
