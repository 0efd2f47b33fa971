// Package tui is the terminal front end of the tutor dashboard. It drives the
// dashboard flows from typed commands and renders their state either as a
// bubbletea program or as plain styled lines.
package tui

import (
	"context"
	"strings"
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/dashboard"
	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// API is the server the session talks to. client.Client satisfies it.
type API interface {
	dashboard.Uploader
	dashboard.Chatter
	dashboard.Studier
}

// CommandKind classifies one line of user input.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandChat
	CommandUpload
	CommandStudy
	CommandQuit
)

// Command is a parsed input line. Arg is the chat text, the upload path or
// the study file id.
type Command struct {
	Kind   CommandKind
	Arg    string
	Action models.StudyAction
}

// ParseCommand interprets one input line. "/upload <path>" selects and uploads
// a file, a bare "/upload" uploads with nothing selected, "/summary", "/quiz"
// and "/flashcards" take an optional file id, "/quit" exits and anything else
// is a chat message.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Command{Kind: CommandNone, Arg: line}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: CommandChat, Arg: line}
	}

	name, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit":
		if arg == "" {
			return Command{Kind: CommandQuit}
		}
	case "/upload":
		return Command{Kind: CommandUpload, Arg: arg}
	case "/summary", "/quiz", "/flashcards":
		if !strings.ContainsAny(arg, " \t") {
			return Command{Kind: CommandStudy, Arg: arg, Action: models.StudyAction(strings.TrimPrefix(name, "/"))}
		}
	}
	return Command{Kind: CommandChat, Arg: line}
}

// Session owns the dashboard state for one terminal.
type Session struct {
	Status     *dashboard.Display
	Transcript *dashboard.Transcript

	picker *selection
	input  *inputBox
	upload *dashboard.UploadFlow
	chat   *dashboard.ChatFlow
	study  *dashboard.StudyFlow

	mu      sync.Mutex
	pending []*dashboard.Call
}

// NewSession wires the upload, chat and study flows to api. Chat and study
// failures are reported on the shared status line.
func NewSession(api API, opts ...dashboard.Option) *Session {
	s := &Session{
		Status:     dashboard.NewDisplay(),
		Transcript: dashboard.NewTranscript(),
		picker:     &selection{},
		input:      &inputBox{},
	}
	s.upload = dashboard.NewUploadFlow(s.picker, s.Status, api, opts...)
	chatOpts := append(append([]dashboard.Option(nil), opts...), dashboard.WithChatStatus(s.Status))
	s.chat = dashboard.NewChatFlow(s.input, s.Transcript, api, chatOpts...)
	s.study = dashboard.NewStudyFlow(s.Transcript, api, s.Status, opts...)
	return s
}

// Execute runs one parsed command and returns its call, or nil when the
// command starts no flow.
func (s *Session) Execute(ctx context.Context, cmd Command) *dashboard.Call {
	var call *dashboard.Call
	switch cmd.Kind {
	case CommandUpload:
		if cmd.Arg == "" {
			s.picker.set(nil)
		} else {
			s.picker.set(dashboard.LocalFile(cmd.Arg))
		}
		call = s.upload.Trigger(ctx)
	case CommandChat:
		s.input.set(cmd.Arg)
		call = s.chat.Trigger(ctx)
	case CommandStudy:
		call = s.study.Trigger(ctx, cmd.Action, cmd.Arg)
	default:
		return nil
	}

	s.mu.Lock()
	live := s.pending[:0]
	for _, c := range s.pending {
		select {
		case <-c.Done():
		default:
			live = append(live, c)
		}
	}
	s.pending = append(live, call)
	s.mu.Unlock()
	return call
}

// Pending returns how many started calls have not been collected yet.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Wait blocks until every call started so far has completed.
func (s *Session) Wait() {
	s.mu.Lock()
	calls := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, c := range calls {
		c.Wait()
	}
}

// Input returns the text left in the chat input. A rejected chat keeps it.
func (s *Session) Input() string { return s.input.Text() }

type selection struct {
	mu   sync.Mutex
	file dashboard.File
}

func (s *selection) Selected() (dashboard.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file, s.file != nil
}

func (s *selection) set(f dashboard.File) {
	s.mu.Lock()
	s.file = f
	s.mu.Unlock()
}

type inputBox struct {
	mu   sync.Mutex
	text string
}

func (b *inputBox) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *inputBox) Clear() { b.set("") }

func (b *inputBox) set(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}
