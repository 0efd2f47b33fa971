package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mansimran2992/ai-tutor-bot/internal/dashboard"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	*testutil.StubUploader
	*testutil.StubChatter
	*testutil.StubStudier
}

func newStubAPI() stubAPI {
	return stubAPI{
		StubUploader: &testutil.StubUploader{Resp: models.UploadResponse{Status: "notes.txt uploaded, 1 lines indexed"}},
		StubChatter:  &testutil.StubChatter{Reply: map[string]string{"hello": "Hi! What are we studying?"}},
		StubStudier: &testutil.StubStudier{Resp: map[models.StudyAction]models.StudyResponse{
			models.StudySummary: {Action: models.StudySummary, Result: "Osmosis moves water."},
			models.StudyFlashcards: {Action: models.StudyFlashcards, Flashcards: []models.Flashcard{
				{Question: "What is osmosis?", Answer: "Water crossing a membrane"},
			}},
		}},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{line: "/quit", want: Command{Kind: CommandQuit}},
		{line: "  /exit ", want: Command{Kind: CommandQuit}},
		{line: "/upload", want: Command{Kind: CommandUpload}},
		{line: "/upload   notes/bio.txt ", want: Command{Kind: CommandUpload, Arg: "notes/bio.txt"}},
		{line: "hello there", want: Command{Kind: CommandChat, Arg: "hello there"}},
		{line: "/uploading is a word", want: Command{Kind: CommandChat, Arg: "/uploading is a word"}},
		{line: "   ", want: Command{Kind: CommandNone, Arg: "   "}},
		{line: "/summary", want: Command{Kind: CommandStudy, Action: models.StudySummary}},
		{line: " /quiz  f-42 ", want: Command{Kind: CommandStudy, Arg: "f-42", Action: models.StudyQuiz}},
		{line: "/flashcards abc", want: Command{Kind: CommandStudy, Arg: "abc", Action: models.StudyFlashcards}},
		{line: "/summary of mitosis please", want: Command{Kind: CommandChat, Arg: "/summary of mitosis please"}},
		{line: "/quit now", want: Command{Kind: CommandChat, Arg: "/quit now"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}

func TestSession_UploadWithoutPathPrompts(t *testing.T) {
	api := newStubAPI()
	s := NewSession(api)

	call := s.Execute(context.Background(), ParseCommand("/upload"))

	assert.Equal(t, dashboard.OutcomeSkipped, call.Wait())
	assert.Equal(t, models.PromptStatus(), s.Status.Current())
	assert.Empty(t, api.Calls())
}

func TestSession_UploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("osmosis moves water"), 0o644))
	api := newStubAPI()
	s := NewSession(api)

	call := s.Execute(context.Background(), ParseCommand("/upload "+path))

	assert.Equal(t, dashboard.OutcomeSucceeded, call.Wait())
	assert.Equal(t, []testutil.UploadCall{{Name: "notes.txt", Body: "osmosis moves water"}}, api.Calls())
	assert.Equal(t, "✅ notes.txt uploaded, 1 lines indexed", s.Status.Current().Text)

	// A later bare /upload clears the selection again.
	s.Execute(context.Background(), ParseCommand("/upload"))
	assert.Equal(t, models.PromptStatus(), s.Status.Current())
}

func TestSession_UploadMissingFileFails(t *testing.T) {
	s := NewSession(newStubAPI())

	call := s.Execute(context.Background(), ParseCommand("/upload "+filepath.Join(t.TempDir(), "nope.txt")))

	assert.Equal(t, dashboard.OutcomeFailed, call.Wait())
	assert.Equal(t, models.FailureStatus(), s.Status.Current())
}

func TestSession_Chat(t *testing.T) {
	s := NewSession(newStubAPI())

	require.Equal(t, dashboard.OutcomeSucceeded, s.Execute(context.Background(), ParseCommand("hello")).Wait())
	assert.Equal(t, []models.Entry{
		{Seq: 1, Text: "hello", Role: models.RoleUser},
		{Seq: 2, Text: "Hi! What are we studying?", Role: models.RoleBot},
	}, s.Transcript.Entries())
	assert.Empty(t, s.Input())

	// No reply configured: the failure lands on the shared status line.
	assert.Equal(t, dashboard.OutcomeFailed, s.Execute(context.Background(), ParseCommand("unknown")).Wait())
	assert.Equal(t, models.ChatFailureStatus(), s.Status.Current())
	assert.Equal(t, 3, s.Transcript.Len())
}

func TestSession_NoneStartsNothing(t *testing.T) {
	s := NewSession(newStubAPI())
	assert.Nil(t, s.Execute(context.Background(), ParseCommand("  ")))
	s.Wait()
	assert.Zero(t, s.Transcript.Len())
}

func TestSession_Study(t *testing.T) {
	api := newStubAPI()
	s := NewSession(api)

	require.Equal(t, dashboard.OutcomeSucceeded, s.Execute(context.Background(), ParseCommand("/summary")).Wait())
	require.Equal(t, dashboard.OutcomeSucceeded, s.Execute(context.Background(), ParseCommand("/flashcards f-7")).Wait())

	assert.Equal(t, []models.Entry{
		{Seq: 1, Text: "/summary", Role: models.RoleUser},
		{Seq: 2, Text: "Osmosis moves water.", Role: models.RoleBot},
		{Seq: 3, Text: "/flashcards f-7", Role: models.RoleUser},
		{Seq: 4, Text: "1. Q: What is osmosis?\n   A: Water crossing a membrane", Role: models.RoleBot},
	}, s.Transcript.Entries())
	assert.Equal(t, []testutil.StudyCall{
		{Action: models.StudySummary},
		{FileID: "f-7", Action: models.StudyFlashcards},
	}, api.StudyCalls())
}

func TestSession_StudyFailureOnStatusLine(t *testing.T) {
	s := NewSession(newStubAPI())

	assert.Equal(t, dashboard.OutcomeFailed, s.Execute(context.Background(), ParseCommand("/quiz")).Wait())
	assert.Equal(t, models.StudyFailureStatus(), s.Status.Current())
}

func TestSession_ChatKeepsUploadFailure(t *testing.T) {
	s := NewSession(newStubAPI())

	s.Execute(context.Background(), ParseCommand("/upload "+filepath.Join(t.TempDir(), "nope.txt"))).Wait()
	require.Equal(t, models.FailureStatus(), s.Status.Current())

	require.Equal(t, dashboard.OutcomeSucceeded, s.Execute(context.Background(), ParseCommand("hello")).Wait())
	assert.Equal(t, models.FailureStatus(), s.Status.Current())
}

func TestSession_PrunesFinishedCalls(t *testing.T) {
	s := NewSession(newStubAPI())

	for i := 0; i < 100; i++ {
		s.Execute(context.Background(), ParseCommand("hello")).Wait()
	}

	assert.Equal(t, 1, s.Pending())
	s.Wait()
	assert.Zero(t, s.Pending())
}
