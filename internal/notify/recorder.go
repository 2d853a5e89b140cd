package notify

import (
	"delivery-tracker/internal/ports"
	"sync"
)

// Note is one recorded notification.
type Note struct {
	Kind     string // toast, alert or block
	Severity ports.Severity
	Title    string
	Message  string
}

// Recorder keeps notifications in memory. The status endpoint and tests
// read them back.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
	limit int
	total int
}

var _ ports.Notifier = (*Recorder)(nil)

// NewRecorder keeps at most limit notes; zero means unbounded.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Toast(severity ports.Severity, message string) {
	r.add(Note{Kind: "toast", Severity: severity, Message: message})
}

func (r *Recorder) Alert(title, message string) {
	r.add(Note{Kind: "alert", Title: title, Message: message})
}

func (r *Recorder) Block(message string) {
	r.add(Note{Kind: "block", Message: message})
}

func (r *Recorder) add(n Note) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes = append(r.notes, n)
	r.total++
	if r.limit > 0 && len(r.notes) > r.limit {
		r.notes = append([]Note(nil), r.notes[len(r.notes)-r.limit:]...)
	}
}

// Notes returns a copy of the recorded notes, oldest first.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// Total counts every note ever recorded, including trimmed ones.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Multi fans a notification out to several notifiers.
type Multi []ports.Notifier

func (m Multi) Toast(severity ports.Severity, message string) {
	for _, n := range m {
		n.Toast(severity, message)
	}
}

func (m Multi) Alert(title, message string) {
	for _, n := range m {
		n.Alert(title, message)
	}
}

func (m Multi) Block(message string) {
	for _, n := range m {
		n.Block(message)
	}
}
