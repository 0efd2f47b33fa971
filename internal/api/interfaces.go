// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// UploadHandler handles notes upload and file management
type UploadHandler interface {
	HandleUpload(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
}

// ChatHandler handles tutor conversations and study tools
type ChatHandler interface {
	HandleChat(c echo.Context) error
	HandleStudy(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// NotesIndex is the part of the notes index the handlers write to.
// notes.Index satisfies it.
type NotesIndex interface {
	AddDocument(ctx context.Context, fileID, name, text string) (int, error)
	Remove(ctx context.Context, fileID string) error
}

// Tutor answers chat messages and runs study actions.
// tutor.Tutor satisfies it.
type Tutor interface {
	Reply(ctx context.Context, message string) (string, error)
	Study(ctx context.Context, fileID string, action models.StudyAction) (models.StudyResponse, error)
	Responder() string
}
