package api

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/stretchr/testify/require"
)

type fakeNotes struct {
	mu      sync.Mutex
	docs    map[string]string
	removed []string
	addErr  error
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{docs: make(map[string]string)}
}

func (f *fakeNotes) AddDocument(_ context.Context, fileID, _ string, text string) (int, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	lines := notes.SplitLines(text)
	if len(lines) == 0 {
		return 0, notes.ErrNoText
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[fileID] = text
	return len(lines), nil
}

func (f *fakeNotes) Remove(_ context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, fileID)
	f.removed = append(f.removed, fileID)
	return nil
}

type fakeTutor struct {
	reply    string
	replyErr error
	study    models.StudyResponse
	studyErr error

	mu       sync.Mutex
	messages []string
}

func (f *fakeTutor) Reply(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	return f.reply, f.replyErr
}

func (f *fakeTutor) Study(_ context.Context, _ string, action models.StudyAction) (models.StudyResponse, error) {
	if f.studyErr != nil {
		return models.StudyResponse{}, f.studyErr
	}
	resp := f.study
	resp.Action = action
	return resp, nil
}

func (f *fakeTutor) Responder() string { return "fake" }

type published struct {
	subject string
	data    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{subject: subject, data: data})
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

var errUpstream = errors.New("upstream unavailable")

// multipartBody builds a form with one file field.
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// requireAPIError asserts err is an *APIError with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T (%v)", err, err)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Code)
}
