// Package notify carries toast-style notifications from the core to
// whatever host renders them.
package notify

import (
	"fmt"
	"sync"
)

type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
	Info    Severity = "info"
)

type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s: %s", n.Severity, n.Title, n.Message)
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Recorder keeps every notification in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}
