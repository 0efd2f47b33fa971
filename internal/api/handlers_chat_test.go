package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/events"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/mansimran2992/ai-tutor-bot/internal/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHandler_HandleChat(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		replyErr  error
		wantReply string
		wantSent  string
		errStatus int
		errCode   string
	}{
		{
			name:      "message is answered",
			body:      `{"message":"What is mitosis?"}`,
			wantReply: "Cell division.",
			wantSent:  "What is mitosis?",
		},
		{
			name:      "message is trimmed",
			body:      `{"message":"  hi  "}`,
			wantReply: "Cell division.",
			wantSent:  "hi",
		},
		{
			name:      "blank message",
			body:      `{"message":"   "}`,
			errStatus: http.StatusBadRequest,
			errCode:   "VALIDATION_ERROR",
		},
		{
			name:      "missing message",
			body:      `{}`,
			errStatus: http.StatusBadRequest,
			errCode:   "VALIDATION_ERROR",
		},
		{
			name:      "malformed body",
			body:      `{"message":`,
			errStatus: http.StatusBadRequest,
			errCode:   "BAD_REQUEST",
		},
		{
			name:      "responder failure",
			body:      `{"message":"hello"}`,
			replyErr:  errUpstream,
			errStatus: http.StatusBadGateway,
			errCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tut := &fakeTutor{reply: "Cell division.", replyErr: tt.replyErr}
			pub := &recordingPublisher{}
			handler := NewChatHandler(tut, pub, nil)

			c, rec := jsonContext(echo.New(), http.MethodPost, "/chat", tt.body)
			err := handler.HandleChat(c)

			if tt.errCode != "" {
				requireAPIError(t, err, tt.errStatus, tt.errCode)
				assert.Empty(t, pub.all())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp models.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantReply, resp.Reply)
			assert.Equal(t, []string{tt.wantSent}, tut.messages)

			evs := pub.all()
			require.Len(t, evs, 1)
			assert.Equal(t, events.SubjectChatReplied, evs[0].subject)
			ev := evs[0].data.(events.ChatReplied)
			assert.Equal(t, "fake", ev.Responder)
			assert.Equal(t, len(tt.wantReply), ev.ReplyChars)
		})
	}
}

func TestChatHandler_HandleStudy(t *testing.T) {
	cards := []models.Flashcard{{Question: "Q1", Answer: "A1"}}

	tests := []struct {
		name      string
		body      string
		studyErr  error
		errStatus int
		errCode   string
	}{
		{name: "summary of latest notes", body: `{"action":"summary"}`},
		{name: "flashcards for a file", body: `{"fileId":"abc","action":"flashcards"}`},
		{name: "unknown action", body: `{"action":"essay"}`, errStatus: http.StatusBadRequest, errCode: "VALIDATION_ERROR"},
		{name: "malformed body", body: `[`, errStatus: http.StatusBadRequest, errCode: "BAD_REQUEST"},
		{
			name:      "offline responder",
			body:      `{"action":"quiz"}`,
			studyErr:  fmt.Errorf("offline responder: %w", tutor.ErrUnsupported),
			errStatus: http.StatusServiceUnavailable,
			errCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:      "no notes indexed",
			body:      `{"action":"quiz"}`,
			studyErr:  notes.ErrNoDocument,
			errStatus: http.StatusNotFound,
			errCode:   "NOT_FOUND",
		},
		{
			name:      "responder failure",
			body:      `{"action":"summary"}`,
			studyErr:  errUpstream,
			errStatus: http.StatusBadGateway,
			errCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tut := &fakeTutor{
				study:    models.StudyResponse{Result: "Q1 - A1", Flashcards: cards},
				studyErr: tt.studyErr,
			}
			handler := NewChatHandler(tut, nil, nil)

			c, rec := jsonContext(echo.New(), http.MethodPost, "/api/study", tt.body)
			err := handler.HandleStudy(c)

			if tt.errCode != "" {
				requireAPIError(t, err, tt.errStatus, tt.errCode)
				return
			}
			require.NoError(t, err)

			var resp models.StudyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Q1 - A1", resp.Result)
			assert.Equal(t, cards, resp.Flashcards)
		})
	}
}
