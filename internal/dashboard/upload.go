package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// UploadFlow sends the selected file and reflects progress in a status display.
type UploadFlow struct {
	picker   FilePicker
	status   *Display
	uploader Uploader
	logger   *slog.Logger
	flight   flight
}

// NewUploadFlow wires an upload flow to its picker, status display and API.
func NewUploadFlow(picker FilePicker, status *Display, uploader Uploader, opts ...Option) *UploadFlow {
	o := buildOptions(opts)
	return &UploadFlow{
		picker:   picker,
		status:   status,
		uploader: uploader,
		logger:   o.logger,
		flight:   flight{enabled: o.singleFlight},
	}
}

// Trigger runs one upload. With no file selected it sets the prompt status
// and returns without a request. Otherwise it sets the uploading status
// before issuing exactly one request in the background.
func (f *UploadFlow) Trigger(ctx context.Context) *Call {
	file, ok := f.picker.Selected()
	if !ok || file == nil {
		f.status.Set(models.PromptStatus())
		return finishedCall(OutcomeSkipped, nil)
	}
	if !f.flight.acquire() {
		return finishedCall(OutcomeRejected, ErrInFlight)
	}

	f.status.Set(models.UploadingStatus())
	call := newCall()
	go func() {
		resp, err := f.send(ctx, file)
		if err != nil {
			f.logger.Warn("upload failed", "file", file.Name(), "error", err)
			f.status.Set(models.FailureStatus())
			f.flight.release()
			call.finish(OutcomeFailed, err)
			return
		}
		f.logger.Info("upload complete", "file", file.Name(), "status", resp.Status)
		f.status.Set(models.SuccessStatus(resp.Status))
		f.flight.release()
		call.finish(OutcomeSucceeded, nil)
	}()
	return call
}

func (f *UploadFlow) send(ctx context.Context, file File) (models.UploadResponse, error) {
	rc, err := file.Open()
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("opening %s: %w", file.Name(), err)
	}
	defer rc.Close()
	return f.uploader.Upload(ctx, file.Name(), rc)
}
