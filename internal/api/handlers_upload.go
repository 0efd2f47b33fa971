// handlers_upload.go - Notes upload and file management handlers
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/events"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/mansimran2992/ai-tutor-bot/internal/storage"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store     storage.Store
	notes     NotesIndex
	publisher events.Publisher
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, idx NotesIndex, publisher events.Publisher, logger *slog.Logger) UploadHandler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandlerImpl{
		store:     store,
		notes:     idx,
		publisher: publisher,
		logger:    logger,
	}
}

// HandleUpload accepts a multipart notes file, stores it and indexes its text.
// A file with no extractable text is still stored and reported as such.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("file")
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	info, err := h.store.Save(file.Filename, src)
	src.Close()
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	ctx := c.Request().Context()
	lines, err := h.index(c, file, info)
	resp := models.UploadResponse{File: info, Lines: lines}
	switch {
	case errors.Is(err, notes.ErrNoText):
		resp.Status = fmt.Sprintf("%s uploaded, no text detected", info.Name)
		info.Status = models.FileStatusNoText
	case err != nil:
		if delErr := h.store.Delete(info.ID); delErr != nil {
			h.logger.WarnContext(ctx, "remove unindexed upload", "file_id", info.ID, "error", delErr)
		}
		return NewInternalError("failed to index notes", err)
	default:
		resp.Status = fmt.Sprintf("%s uploaded, %d lines indexed", info.Name, lines)
		info.Status = models.FileStatusIndexed
	}

	if updated, err := h.store.SetStatus(info.ID, info.Status); err != nil {
		h.logger.WarnContext(ctx, "update file status", "file_id", info.ID, "status", info.Status, "error", err)
	} else {
		resp.File = updated
	}

	if err := h.publisher.Publish(events.SubjectUploadStored, events.UploadStored{
		FileID:    info.ID,
		Name:      info.Name,
		Size:      info.Size,
		Lines:     lines,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		h.logger.Warn("publish upload event", "file_id", info.ID, "error", err)
	}

	h.logger.InfoContext(ctx, "notes uploaded", "file_id", info.ID, "name", info.Name, "size", info.Size, "lines", lines)
	return c.JSON(http.StatusOK, resp)
}

func (h *UploadHandlerImpl) index(c echo.Context, file *multipart.FileHeader, info *models.FileInfo) (int, error) {
	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	text, err := notes.Extract(info.Name, src)
	if err != nil {
		return 0, err
	}
	return h.notes.AddDocument(c.Request().Context(), info.ID, info.Name, text)
}

// HandleGetRecentFiles returns the most recent uploads, newest first
func (h *UploadHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return NewValidationError("limit")
		}
		limit = min(n, maxRecentLimit)
	}

	files, err := h.store.List(limit)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	if files == nil {
		files = []*models.FileInfo{}
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file
func (h *UploadHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile deletes a file and its indexed notes
func (h *UploadHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFoundError("file", id)
		}
		return NewInternalError("failed to delete file", err)
	}

	if err := h.notes.Remove(c.Request().Context(), id); err != nil {
		h.logger.Warn("remove indexed notes", "file_id", id, "error", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleRenameFile updates the display name of a file
func (h *UploadHandlerImpl) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.Name == "" {
		return NewValidationError("name")
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

type renameFileRequest struct {
	Name string `json:"name"`
}
