package dashboard

import (
	"errors"
	"sync"
)

// ErrInFlight is reported by a flow with single-flight enabled when it is
// triggered while an earlier call is still pending.
var ErrInFlight = errors.New("request already in flight")

// Outcome describes how one flow invocation ended.
type Outcome int

const (
	OutcomePending  Outcome = iota
	OutcomeSkipped          // precondition failed, no request issued
	OutcomeRejected         // single-flight guard refused the trigger
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Call tracks one flow invocation. Done is closed exactly once, after every
// UI update belonging to the invocation has been applied.
type Call struct {
	done    chan struct{}
	issued  bool
	mu      sync.Mutex
	outcome Outcome
	err     error
}

func newCall() *Call {
	return &Call{done: make(chan struct{}), issued: true, outcome: OutcomePending}
}

func finishedCall(o Outcome, err error) *Call {
	c := &Call{done: make(chan struct{}), outcome: o, err: err}
	close(c.done)
	return c
}

func (c *Call) finish(o Outcome, err error) {
	c.mu.Lock()
	c.outcome = o
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

// Issued reports whether a network request was made.
func (c *Call) Issued() bool { return c.issued }

// Done is closed when the call has completed.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call completes and returns its outcome.
func (c *Call) Wait() Outcome {
	<-c.done
	return c.Outcome()
}

// Outcome returns the current outcome.
func (c *Call) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Err returns the transport or decode error of a failed call, or ErrInFlight
// for a rejected one. Skipped calls have no error.
func (c *Call) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// flight is the optional per-flow in-flight guard.
type flight struct {
	enabled bool
	mu      sync.Mutex
	busy    bool
}

func (f *flight) acquire() bool {
	if !f.enabled {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return false
	}
	f.busy = true
	return true
}

func (f *flight) release() {
	if !f.enabled {
		return
	}
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}
