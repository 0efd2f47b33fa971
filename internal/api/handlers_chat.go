// handlers_chat.go - Tutor chat and study tool handlers
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/events"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/mansimran2992/ai-tutor-bot/internal/tutor"
)

// ChatHandlerImpl implements the ChatHandler interface
type ChatHandlerImpl struct {
	tutor     Tutor
	publisher events.Publisher
	logger    *slog.Logger
}

// NewChatHandler creates a new chat handler instance
func NewChatHandler(t Tutor, publisher events.Publisher, logger *slog.Logger) ChatHandler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandlerImpl{tutor: t, publisher: publisher, logger: logger}
}

// HandleChat answers one student message
func (h *ChatHandlerImpl) HandleChat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return NewValidationError("message")
	}

	reply, err := h.tutor.Reply(c.Request().Context(), message)
	if err != nil {
		h.logger.Warn("tutor reply failed", "responder", h.tutor.Responder(), "error", err)
		return NewBadGatewayError("tutor failed to reply", err)
	}

	if err := h.publisher.Publish(events.SubjectChatReplied, events.ChatReplied{
		Responder:    h.tutor.Responder(),
		MessageChars: len([]rune(message)),
		ReplyChars:   len([]rune(reply)),
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		h.logger.Warn("publish chat event", "error", err)
	}

	return c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

// HandleStudy runs a summary, quiz or flashcards action over indexed notes.
// An empty fileId uses the most recent upload.
func (h *ChatHandlerImpl) HandleStudy(c echo.Context) error {
	var req models.StudyRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if !req.Action.Valid() {
		return NewValidationError("action")
	}

	resp, err := h.tutor.Study(c.Request().Context(), req.FileID, req.Action)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, resp)
	case errors.Is(err, tutor.ErrUnsupported):
		return NewServiceUnavailableError("study tools need a language model responder")
	case errors.Is(err, notes.ErrNoDocument):
		id := req.FileID
		if id == "" {
			id = "latest"
		}
		return NewNotFoundError("notes", id)
	default:
		h.logger.Warn("study action failed", "action", req.Action, "error", err)
		return NewBadGatewayError("study action failed", err)
	}
}
