package dashboard

import (
	"context"
	"testing"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudyFlow_AppendsResult(t *testing.T) {
	transcript := NewTranscript()
	studier := &testutil.StubStudier{Resp: map[models.StudyAction]models.StudyResponse{
		models.StudySummary: {Action: models.StudySummary, Result: "  Cells divide by mitosis.\n"},
	}}
	flow := NewStudyFlow(transcript, studier, NewDisplay())

	call := flow.Trigger(context.Background(), models.StudySummary, "")

	require.Equal(t, OutcomeSucceeded, waitFor(t, call))
	assert.Equal(t, []models.Entry{
		{Seq: 1, Text: "/summary", Role: models.RoleUser},
		{Seq: 2, Text: "Cells divide by mitosis.", Role: models.RoleBot},
	}, transcript.Entries())
	assert.Equal(t, []testutil.StudyCall{{Action: models.StudySummary}}, studier.StudyCalls())
}

func TestStudyFlow_FlashcardsForFile(t *testing.T) {
	transcript := NewTranscript()
	studier := &testutil.StubStudier{Resp: map[models.StudyAction]models.StudyResponse{
		models.StudyFlashcards: {
			Action: models.StudyFlashcards,
			Result: "raw model output",
			Flashcards: []models.Flashcard{
				{Question: "What is ATP?", Answer: "Energy currency"},
				{Question: "Where is DNA?", Answer: "Nucleus"},
			},
		},
	}}
	flow := NewStudyFlow(transcript, studier, nil)

	require.Equal(t, OutcomeSucceeded, waitFor(t, flow.Trigger(context.Background(), models.StudyFlashcards, "f-1")))

	entries := transcript.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "/flashcards f-1", entries[0].Text)
	assert.Equal(t, "1. Q: What is ATP?\n   A: Energy currency\n2. Q: Where is DNA?\n   A: Nucleus", entries[1].Text)
	assert.Equal(t, "f-1", studier.StudyCalls()[0].FileID)
}

func TestStudyFlow_Failure(t *testing.T) {
	transcript := NewTranscript()
	status := NewDisplay()
	studier := &testutil.StubStudier{Resp: map[models.StudyAction]models.StudyResponse{
		models.StudySummary: {Result: "ok"},
	}}
	flow := NewStudyFlow(transcript, studier, status)

	call := flow.Trigger(context.Background(), models.StudyQuiz, "")
	assert.Equal(t, OutcomeFailed, waitFor(t, call))
	assert.ErrorIs(t, call.Err(), testutil.ErrInjected)
	assert.Equal(t, models.StudyFailureStatus(), status.Current())
	assert.Equal(t, 1, transcript.Len())

	waitFor(t, flow.Trigger(context.Background(), models.StudySummary, ""))
	assert.Equal(t, models.IdleStatus(), status.Current())
}

func TestStudyFlow_KeepsUploadFailure(t *testing.T) {
	status := NewDisplay()
	status.Set(models.FailureStatus())
	studier := &testutil.StubStudier{Resp: map[models.StudyAction]models.StudyResponse{
		models.StudyQuiz: {Result: "1. What is osmosis?"},
	}}
	flow := NewStudyFlow(NewTranscript(), studier, status)

	waitFor(t, flow.Trigger(context.Background(), models.StudyQuiz, ""))
	assert.Equal(t, models.FailureStatus(), status.Current())
}

func TestStudyFlow_UnknownActionSkipped(t *testing.T) {
	transcript := NewTranscript()
	studier := &testutil.StubStudier{}
	flow := NewStudyFlow(transcript, studier, nil)

	assert.Equal(t, OutcomeSkipped, flow.Trigger(context.Background(), "essay", "").Wait())
	assert.Zero(t, transcript.Len())
	assert.Empty(t, studier.StudyCalls())
}
