package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// StatusRecorder records every status shown to it.
type StatusRecorder struct {
	mu    sync.Mutex
	shown []models.Status
}

func (r *StatusRecorder) ShowStatus(st models.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, st)
}

// Shown returns the statuses in the order they were shown.
func (r *StatusRecorder) Shown() []models.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Status(nil), r.shown...)
}

// EntryRecorder records every transcript entry rendered to it.
type EntryRecorder struct {
	mu      sync.Mutex
	entries []models.Entry
}

func (r *EntryRecorder) AppendEntry(e models.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns the rendered entries in order.
func (r *EntryRecorder) Entries() []models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Entry(nil), r.entries...)
}

// MemFile is an in-memory selected file.
type MemFile struct {
	FileName string
	Content  string
	OpenErr  error
}

func (f MemFile) Name() string { return f.FileName }

func (f MemFile) Open() (io.ReadCloser, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return io.NopCloser(strings.NewReader(f.Content)), nil
}

// UploadCall is one recorded Upload invocation.
type UploadCall struct {
	Name string
	Body string
}

// StubUploader records uploads and answers with Resp/Err. When Gate is set,
// each call blocks until a value is received from it.
type StubUploader struct {
	Resp models.UploadResponse
	Err  error
	Gate chan struct{}

	mu    sync.Mutex
	calls []UploadCall
}

func (s *StubUploader) Upload(ctx context.Context, name string, r io.Reader) (models.UploadResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return models.UploadResponse{}, err
	}
	s.mu.Lock()
	s.calls = append(s.calls, UploadCall{Name: name, Body: string(body)})
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return models.UploadResponse{}, ctx.Err()
		}
	}
	return s.Resp, s.Err
}

// Calls returns the recorded uploads.
func (s *StubUploader) Calls() []UploadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadCall(nil), s.calls...)
}

// StubChatter records messages. Reply maps a message to its reply; a missing
// key fails with ErrInjected. When Gates has an entry for a message, that
// call blocks until the gate is closed or receives.
type StubChatter struct {
	Reply map[string]string
	Gates map[string]chan struct{}

	mu       sync.Mutex
	messages []string
}

func (s *StubChatter) Chat(ctx context.Context, message string) (models.ChatResponse, error) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	gate := s.Gates[message]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.ChatResponse{}, ctx.Err()
		}
	}
	reply, ok := s.Reply[message]
	if !ok {
		return models.ChatResponse{}, ErrInjected
	}
	return models.ChatResponse{Reply: reply}, nil
}

// Messages returns the messages sent so far.
func (s *StubChatter) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// StudyCall is one recorded Study invocation.
type StudyCall struct {
	FileID string
	Action models.StudyAction
}

// StubStudier answers Study with Resp, keyed by action. A missing key fails
// with ErrInjected.
type StubStudier struct {
	Resp map[models.StudyAction]models.StudyResponse

	mu    sync.Mutex
	calls []StudyCall
}

func (s *StubStudier) Study(ctx context.Context, fileID string, action models.StudyAction) (models.StudyResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, StudyCall{FileID: fileID, Action: action})
	s.mu.Unlock()

	resp, ok := s.Resp[action]
	if !ok {
		return models.StudyResponse{}, ErrInjected
	}
	return resp, nil
}

// StudyCalls returns the recorded study requests.
func (s *StubStudier) StudyCalls() []StudyCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StudyCall(nil), s.calls...)
}
