// Package events publishes upload and chat activity to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the tutor server.
const (
	SubjectUploadStored = "tutor.upload.stored"
	SubjectChatReplied  = "tutor.chat.replied"
)

// UploadStored is published after a notes file is saved.
type UploadStored struct {
	FileID    string    `json:"file_id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Lines     int       `json:"lines"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatReplied is published after the tutor answers a message.
type ChatReplied struct {
	Responder    string    `json:"responder"`
	MessageChars int       `json:"message_chars"`
	ReplyChars   int       `json:"reply_chars"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher sends an event to a subject.
type Publisher interface {
	Publish(subject string, data any) error
	Close()
}

// Nop discards every event. It is used when NATS is not configured.
type Nop struct{}

func (Nop) Publish(string, any) error { return nil }
func (Nop) Close()                    {}

// NATSPublisher publishes JSON events to a NATS server.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials url. Reconnects are retried in the background.
func Connect(_ context.Context, url, token string, logger *slog.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("ai-tutor-bot"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: nc, logger: logger}, nil
}

// Publish marshals data as JSON and publishes it.
func (p *NATSPublisher) Publish(subject string, data any) error {
	payload, err := Encode(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
		p.conn.Close()
	}
}

// Encode is the wire encoding of every event.
func Encode(data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return payload, nil
}
