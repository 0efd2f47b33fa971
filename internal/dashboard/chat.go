package dashboard

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// ChatFlow sends typed messages and appends both sides to the transcript.
type ChatFlow struct {
	input      MessageInput
	transcript *Transcript
	chatter    Chatter
	status     *Display
	logger     *slog.Logger
	flight     flight
}

// NewChatFlow wires a chat flow to its input, transcript and API.
func NewChatFlow(input MessageInput, transcript *Transcript, chatter Chatter, opts ...Option) *ChatFlow {
	o := buildOptions(opts)
	return &ChatFlow{
		input:      input,
		transcript: transcript,
		chatter:    chatter,
		status:     o.chatStatus,
		logger:     o.logger,
		flight:     flight{enabled: o.singleFlight},
	}
}

// Trigger sends the current input. Blank input is ignored entirely. The user
// entry is appended and the input cleared before the request is issued; the
// bot entry is appended only if the request succeeds.
func (f *ChatFlow) Trigger(ctx context.Context) *Call {
	message := strings.TrimSpace(f.input.Text())
	if message == "" {
		return finishedCall(OutcomeSkipped, nil)
	}
	if !f.flight.acquire() {
		return finishedCall(OutcomeRejected, ErrInFlight)
	}

	f.transcript.Append(message, models.RoleUser)
	f.input.Clear()

	call := newCall()
	go func() {
		resp, err := f.chatter.Chat(ctx, message)
		if err != nil {
			f.logger.Warn("chat request failed", "error", err)
			if f.status != nil {
				f.status.Set(models.ChatFailureStatus())
			}
			f.flight.release()
			call.finish(OutcomeFailed, err)
			return
		}
		f.transcript.Append(resp.Reply, models.RoleBot)
		if f.status != nil {
			f.status.Replace(models.ChatFailureStatus(), models.IdleStatus())
		}
		f.flight.release()
		call.finish(OutcomeSucceeded, nil)
	}()
	return call
}
