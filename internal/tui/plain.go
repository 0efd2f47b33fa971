package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// lineView prints status changes and transcript entries as styled lines.
type lineView struct {
	mu sync.Mutex
	w  io.Writer
}

func (v *lineView) ShowStatus(st models.Status) {
	if line := RenderStatus(st); line != "" {
		v.println(line)
	}
}

func (v *lineView) AppendEntry(e models.Entry) {
	v.println(RenderEntry(e))
}

func (v *lineView) println(line string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w, line)
}

// RunPlain reads commands line by line from r and prints every state change
// to w. It returns at end of input or on /quit, after outstanding requests
// have finished.
func RunPlain(ctx context.Context, r io.Reader, w io.Writer, s *Session) error {
	view := &lineView{w: w}
	view.println(titleStyle.Render("AI Tutor"))
	view.println(helpStyle.Render(helpText))
	s.Status.Attach(view)
	s.Transcript.Attach(view)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		cmd := ParseCommand(scanner.Text())
		if cmd.Kind == CommandQuit {
			break
		}
		s.Execute(ctx, cmd)
	}
	s.Wait()
	return scanner.Err()
}
