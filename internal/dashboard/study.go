package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// StudyFlow runs the summary, quiz and flashcard tools and appends their
// results to the transcript.
type StudyFlow struct {
	transcript *Transcript
	studier    Studier
	status     *Display
	logger     *slog.Logger
	flight     flight
}

// NewStudyFlow wires a study flow to its transcript and API. Failures are
// reported on status when it is non-nil.
func NewStudyFlow(transcript *Transcript, studier Studier, status *Display, opts ...Option) *StudyFlow {
	o := buildOptions(opts)
	return &StudyFlow{
		transcript: transcript,
		studier:    studier,
		status:     status,
		logger:     o.logger,
		flight:     flight{enabled: o.singleFlight},
	}
}

// Trigger requests one study action for fileID, or for the latest upload when
// fileID is empty. The request is echoed as a user entry; the result is
// appended as a bot entry when it arrives.
func (f *StudyFlow) Trigger(ctx context.Context, action models.StudyAction, fileID string) *Call {
	if !action.Valid() {
		return finishedCall(OutcomeSkipped, nil)
	}
	if !f.flight.acquire() {
		return finishedCall(OutcomeRejected, ErrInFlight)
	}

	request := "/" + string(action)
	if fileID != "" {
		request += " " + fileID
	}
	f.transcript.Append(request, models.RoleUser)

	call := newCall()
	go func() {
		resp, err := f.studier.Study(ctx, fileID, action)
		if err != nil {
			f.logger.Warn("study request failed", "action", action, "file", fileID, "error", err)
			if f.status != nil {
				f.status.Set(models.StudyFailureStatus())
			}
			f.flight.release()
			call.finish(OutcomeFailed, err)
			return
		}
		f.transcript.Append(FormatStudy(resp), models.RoleBot)
		if f.status != nil {
			f.status.Replace(models.StudyFailureStatus(), models.IdleStatus())
		}
		f.flight.release()
		call.finish(OutcomeSucceeded, nil)
	}()
	return call
}

// FormatStudy renders a study result as transcript text. Parsed flashcards
// are listed one per pair; other results are shown as returned.
func FormatStudy(resp models.StudyResponse) string {
	if len(resp.Flashcards) == 0 {
		return strings.TrimSpace(resp.Result)
	}
	var b strings.Builder
	for i, card := range resp.Flashcards {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s", i+1, card.Question, card.Answer)
	}
	return b.String()
}
