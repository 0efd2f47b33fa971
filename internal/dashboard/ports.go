// Package dashboard implements the upload and chat interaction flows of the
// tutor dashboard: local validation, a UI state update, one network call, and
// a second UI state update when that call completes.
//
// All collaborators are injected so the flows run the same against a terminal,
// a test double or any other renderer.
package dashboard

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// File is a user-selected local file. It is read once per upload.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FilePicker reports the currently selected file, if any.
type FilePicker interface {
	Selected() (File, bool)
}

// MessageInput is the editable chat input box.
type MessageInput interface {
	Text() string
	Clear()
}

// StatusView renders a status display.
type StatusView interface {
	ShowStatus(st models.Status)
}

// TranscriptView renders transcript entries. AppendEntry is called once per
// entry, in sequence order, and must reveal the newest entry.
type TranscriptView interface {
	AppendEntry(e models.Entry)
}

// Uploader sends one file to the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (models.UploadResponse, error)
}

// Chatter sends one message to the chat endpoint.
type Chatter interface {
	Chat(ctx context.Context, message string) (models.ChatResponse, error)
}

// Studier runs a study tool over uploaded notes. An empty fileID means the
// most recent upload.
type Studier interface {
	Study(ctx context.Context, fileID string, action models.StudyAction) (models.StudyResponse, error)
}

// LocalFile is a File backed by a path on disk.
type LocalFile string

// Name returns the base name of the file.
func (f LocalFile) Name() string { return filepath.Base(string(f)) }

// Open opens the file for reading.
func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(string(f)) }
