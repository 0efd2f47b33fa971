package dashboard

import (
	"sync"

	"github.com/mansimran2992/ai-tutor-bot/internal/models"
)

// Display is a single shared status cell. Every Set overwrites the previous
// value and is rendered to the attached views.
type Display struct {
	mu      sync.Mutex
	current models.Status
	views   []StatusView
}

// NewDisplay returns an idle display rendering to views.
func NewDisplay(views ...StatusView) *Display {
	return &Display{current: models.IdleStatus(), views: views}
}

// Attach adds a view. The view is immediately shown the current status.
func (d *Display) Attach(v StatusView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views = append(d.views, v)
	v.ShowStatus(d.current)
}

// Set replaces the current status.
func (d *Display) Set(st models.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = st
	for _, v := range d.views {
		v.ShowStatus(st)
	}
}

// Replace sets next only if the current status equals old, and reports
// whether it did.
func (d *Display) Replace(old, next models.Status) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != old {
		return false
	}
	d.current = next
	for _, v := range d.views {
		v.ShowStatus(next)
	}
	return true
}

// Current returns the status last set.
func (d *Display) Current() models.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}
