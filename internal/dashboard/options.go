package dashboard

import (
	"io"
	"log/slog"
)

type options struct {
	logger       *slog.Logger
	singleFlight bool
	chatStatus   *Display
}

// Option configures a flow.
type Option func(*options)

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSingleFlight refuses new triggers while a request from the same flow is
// still pending.
func WithSingleFlight() Option {
	return func(o *options) { o.singleFlight = true }
}

// WithChatStatus gives the chat flow a status display for reporting failed
// messages. Upload ignores it.
func WithChatStatus(d *Display) Option {
	return func(o *options) { o.chatStatus = d }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
