package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIResponder_Chat(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Plants make food.  "}}]}`))
	}))
	defer srv.Close()

	r := NewOpenAIResponder("sk-test", "gpt-4o-mini", 250, srv.URL, srv.Client())
	reply, err := r.Respond(context.Background(), Prompt{
		System:   "be kind",
		History:  []Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
		Question: "What is photosynthesis?",
		Notes:    []notes.Match{{Text: "Photosynthesis makes glucose."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants make food.", reply)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 250, got.MaxTokens)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Contains(t, got.Messages[3].Content, "Photosynthesis makes glucose.")
	assert.Contains(t, got.Messages[3].Content, "What is photosynthesis?")
}

func TestOpenAIResponder_StudyIsOneShot(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"Q - A"}}]}`))
	}))
	defer srv.Close()

	r := NewOpenAIResponder("sk-test", "gpt-4o-mini", 0, srv.URL, nil)
	_, err := r.Respond(context.Background(), Prompt{
		Task:     models.StudyQuiz,
		System:   "ignored",
		History:  []Message{{Role: "user", Content: "ignored"}},
		Question: "Create 5 quiz questions",
	})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestOpenAIResponder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":{"type":"invalid_request_error","message":"bad key"}}`, wantErr: "bad key"},
		{name: "plain error", status: http.StatusBadGateway, body: `upstream down`, wantErr: "status=502"},
		{name: "malformed", status: http.StatusOK, body: `{not json`, wantErr: "parse response"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "empty choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			r := NewOpenAIResponder("sk-test", "m", 10, srv.URL, nil)
			_, err := r.Respond(context.Background(), Prompt{Question: "q"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing key", func(t *testing.T) {
		r := NewOpenAIResponder("", "m", 10, "http://127.0.0.1:0", nil)
		_, err := r.Respond(context.Background(), Prompt{Question: "q"})
		assert.ErrorContains(t, err, "missing API key")
	})
}
